package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/breightend/Mykonos-os-sub001/internal/dto"
	"github.com/breightend/Mykonos-os-sub001/internal/model"
	"github.com/breightend/Mykonos-os-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// precioCacheTTL: la consulta pública de precios se sirve de cache; un
// cambio de precio se propaga cuando la clave expira.
const precioCacheTTL = 60 * time.Second

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	PorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	List(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	// ConsultaPrecios resolves a variant barcode at a branch to product,
	// price and availability. Served from redis when warm.
	ConsultaPrecios(ctx context.Context, codigoVariante string, sucursalID uuid.UUID) (*dto.ConsultaPreciosResponse, error)
}

type productoService struct {
	repo      repository.ProductoRepository
	stockRepo repository.StockRepository
	rdb       *redis.Client
}

func NewProductoService(repo repository.ProductoRepository, stockRepo repository.StockRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, stockRepo: stockRepo, rdb: rdb}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	proveedorID, err := parseOptionalUUID(req.ProveedorID)
	if err != nil {
		return nil, errors.New("proveedor_id inválido")
	}
	p := &model.Producto{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Marca:       req.Marca,
		Grupo:       req.Grupo,
		PrecioCosto: req.PrecioCosto,
		PrecioVenta: req.PrecioVenta,
		ProveedorID: proveedorID,
		Activo:      true,
	}
	if !p.PrecioVenta.IsPositive() {
		return nil, ErrMontoInvalido
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) PorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	return productoToResponse(p), nil
}

func (s *productoService) List(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductoListResponse{
		Data:  make([]dto.ProductoResponse, 0, len(productos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range productos {
		resp.Data = append(resp.Data, *productoToResponse(&productos[i]))
	}
	return resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	if req.Nombre != "" {
		p.Nombre = req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.Marca != nil {
		p.Marca = req.Marca
	}
	if req.Grupo != nil {
		p.Grupo = req.Grupo
	}
	if req.PrecioCosto != nil {
		p.PrecioCosto = *req.PrecioCosto
	}
	if req.PrecioVenta != nil {
		if !req.PrecioVenta.IsPositive() {
			return nil, ErrMontoInvalido
		}
		p.PrecioVenta = *req.PrecioVenta
	}
	if req.ProveedorID != nil {
		proveedorID, err := parseOptionalUUID(req.ProveedorID)
		if err != nil {
			return nil, errors.New("proveedor_id inválido")
		}
		p.ProveedorID = proveedorID
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivar(ctx, id)
}

func (s *productoService) ConsultaPrecios(ctx context.Context, codigoVariante string, sucursalID uuid.UUID) (*dto.ConsultaPreciosResponse, error) {
	cacheKey := fmt.Sprintf("precios:%s:%s", codigoVariante, sucursalID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.ConsultaPreciosResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	v, err := s.stockRepo.FindVariantePorCodigo(ctx, codigoVariante, sucursalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVarianteNoEncontrada
		}
		return nil, err
	}

	resp := &dto.ConsultaPreciosResponse{
		CodigoVariante:  v.CodigoVariante,
		StockDisponible: v.Cantidad,
	}
	if v.Producto != nil {
		resp.Producto = v.Producto.Nombre
		resp.PrecioVenta = v.Producto.PrecioVenta
	}
	if v.Talle != nil {
		nombre := v.Talle.Nombre
		resp.Talle = &nombre
	}
	if v.Color != nil {
		nombre := v.Color.Nombre
		resp.Color = &nombre
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			_ = s.rdb.Set(ctx, cacheKey, data, precioCacheTTL).Err()
		}
	}
	return resp, nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:          p.ID.String(),
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Marca:       p.Marca,
		Grupo:       p.Grupo,
		PrecioCosto: p.PrecioCosto,
		PrecioVenta: p.PrecioVenta,
		Activo:      p.Activo,
		CreatedAt:   p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if p.ProveedorID != nil {
		id := p.ProveedorID.String()
		resp.ProveedorID = &id
	}
	return resp
}
