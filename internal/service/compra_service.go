package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/breightend/Mykonos-os-sub001/internal/dto"
	"github.com/breightend/Mykonos-os-sub001/internal/model"
	"github.com/breightend/Mykonos-os-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CompraService maneja las órdenes de compra a proveedores y su ciclo
// de vida: Pendiente de entrega → Recibido | Cancelado. La recepción es
// idempotente: el header se bloquea antes de chequear el estado, así
// dos recepciones concurrentes de la misma compra no duplican stock.
type CompraService interface {
	Crear(ctx context.Context, req dto.CrearCompraRequest) (*dto.CompraResponse, error)
	Recibir(ctx context.Context, compraID, sucursalID uuid.UUID) (*dto.CompraResponse, error)
	Cancelar(ctx context.Context, compraID uuid.UUID) error
	PorID(ctx context.Context, compraID uuid.UUID) (*dto.CompraResponse, error)
	List(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error)
}

type compraService struct {
	repo         repository.CompraRepository
	entidadRepo  repository.EntidadRepository
	productoRepo repository.ProductoRepository
	atributoRepo repository.AtributoRepository
	sucursalRepo repository.SucursalRepository
	stockRepo    repository.StockRepository
	movRepo      repository.MovimientoInventarioRepository
	cuenta       CuentaService
}

func NewCompraService(
	repo repository.CompraRepository,
	entidadRepo repository.EntidadRepository,
	productoRepo repository.ProductoRepository,
	atributoRepo repository.AtributoRepository,
	sucursalRepo repository.SucursalRepository,
	stockRepo repository.StockRepository,
	movRepo repository.MovimientoInventarioRepository,
	cuenta CuentaService,
) CompraService {
	return &compraService{
		repo:         repo,
		entidadRepo:  entidadRepo,
		productoRepo: productoRepo,
		atributoRepo: atributoRepo,
		sucursalRepo: sucursalRepo,
		stockRepo:    stockRepo,
		movRepo:      movRepo,
		cuenta:       cuenta,
	}
}

func (s *compraService) Crear(ctx context.Context, req dto.CrearCompraRequest) (*dto.CompraResponse, error) {
	entidadID, err := uuid.Parse(req.EntidadID)
	if err != nil {
		return nil, fmt.Errorf("entity_id inválido: %w", err)
	}
	entidad, err := s.entidadRepo.FindByID(ctx, entidadID)
	if err != nil {
		return nil, ErrEntidadNoEncontrada
	}
	if entidad.Tipo != model.EntidadProveedor {
		return nil, errors.New("la entidad no es un proveedor")
	}
	if req.Descuento.IsNegative() {
		return nil, errors.New("el descuento no puede ser negativo")
	}

	compra := &model.Compra{
		EntidadID: entidadID,
		Descuento: req.Descuento,
		Estado:    model.CompraPendiente,
	}

	subtotal := decimal.Zero
	for _, d := range req.Detalles {
		productoID, err := uuid.Parse(d.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		producto, err := s.productoRepo.FindByID(ctx, productoID)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", d.ProductoID)
		}
		if d.Cantidad <= 0 {
			return nil, ErrCantidadInvalida
		}
		if !d.PrecioCosto.IsPositive() {
			return nil, ErrMontoInvalido
		}

		var talleID, colorID *uuid.UUID
		talleCodigo, colorCodigo := 0, 0
		if d.TalleID != nil {
			id, err := uuid.Parse(*d.TalleID)
			if err != nil {
				return nil, fmt.Errorf("talle_id inválido: %w", err)
			}
			talle, err := s.atributoRepo.FindTalleByID(ctx, id)
			if err != nil {
				return nil, errors.New("talle no encontrado")
			}
			talleID, talleCodigo = &id, talle.Codigo
		}
		if d.ColorID != nil {
			id, err := uuid.Parse(*d.ColorID)
			if err != nil {
				return nil, fmt.Errorf("color_id inválido: %w", err)
			}
			color, err := s.atributoRepo.FindColorByID(ctx, id)
			if err != nil {
				return nil, errors.New("color no encontrado")
			}
			colorID, colorCodigo = &id, color.Codigo
		}

		lineaSubtotal := d.PrecioCosto.Mul(decimal.NewFromInt(int64(d.Cantidad)))
		subtotal = subtotal.Add(lineaSubtotal)
		codigo := GenerarCodigoVariante(producto.Codigo, colorCodigo, talleCodigo)

		compra.Detalles = append(compra.Detalles, model.CompraDetalle{
			ProductoID:     productoID,
			Cantidad:       d.Cantidad,
			PrecioCosto:    d.PrecioCosto,
			Subtotal:       lineaSubtotal,
			TalleID:        talleID,
			ColorID:        colorID,
			CodigoVariante: &codigo,
		})
	}

	compra.Subtotal = subtotal
	compra.Total = subtotal.Sub(req.Descuento)
	if compra.Total.IsNegative() {
		return nil, errors.New("el descuento supera el subtotal")
	}

	if err := s.repo.Create(ctx, compra); err != nil {
		return nil, err
	}
	return s.PorID(ctx, compra.ID)
}

// Recibir marca la compra como recibida e ingresa la mercadería a la
// sucursal indicada. El header se lee con FOR UPDATE: una segunda
// recepción concurrente espera el commit de la primera, encuentra el
// estado Recibido y devuelve ErrCompraYaProcesada sin tocar stock.
// El total de la compra se asienta como débito en la cuenta corriente
// del proveedor dentro de la misma transacción.
func (s *compraService) Recibir(ctx context.Context, compraID, sucursalID uuid.UUID) (*dto.CompraResponse, error) {
	if _, err := s.sucursalRepo.FindByID(ctx, sucursalID); err != nil {
		return nil, errors.New("sucursal no encontrada")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		compra, err := s.repo.FindByIDTx(tx, compraID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("compra no encontrada")
			}
			return err
		}
		if compra.Estado != model.CompraPendiente {
			return ErrCompraYaProcesada
		}
		nuevoEstado, err := compra.Estado.Transicionar(model.CompraRecibida)
		if err != nil {
			return err
		}

		for _, d := range compra.Detalles {
			codigo := ""
			if d.CodigoVariante != nil {
				codigo = *d.CodigoVariante
			}
			if codigo == "" {
				producto, err := s.productoRepo.FindByID(ctx, d.ProductoID)
				if err != nil {
					return fmt.Errorf("producto %s no encontrado", d.ProductoID)
				}
				codigo = GenerarCodigoVariante(producto.Codigo, 0, 0)
			}

			variante, err := s.stockRepo.FindOrCreateVarianteTx(tx, &model.VarianteStock{
				ProductoID:     d.ProductoID,
				SucursalID:     sucursalID,
				TalleID:        d.TalleID,
				ColorID:        d.ColorID,
				CodigoVariante: codigo,
			})
			if err != nil {
				return err
			}
			if err := s.stockRepo.AjustarVarianteTx(tx, variante.ID, d.Cantidad); err != nil {
				return err
			}
			if err := s.stockRepo.AjustarTotalTx(tx, d.ProductoID, sucursalID, d.Cantidad); err != nil {
				return err
			}

			ref := compra.ID
			if err := s.movRepo.CreateTx(tx, &model.MovimientoInventario{
				ProductoID:     d.ProductoID,
				SucursalID:     sucursalID,
				CodigoVariante: codigo,
				Tipo:           "compra",
				Cantidad:       d.Cantidad,
				StockAnterior:  variante.Cantidad,
				StockNuevo:     variante.Cantidad + d.Cantidad,
				Motivo:         fmt.Sprintf("Recepción compra %s", compra.ID),
				ReferenciaID:   &ref,
			}); err != nil {
				return err
			}
		}

		// Débito al proveedor por el total de la mercadería recibida.
		// Una compra bonificada al 100% (descuento == subtotal) se recibe
		// sin asiento: no hay deuda que registrar.
		if !compra.Total.IsZero() {
			ref := compra.ID
			if _, err := s.cuenta.RegistrarDebitoTx(tx, MovimientoParams{
				EntidadID:   compra.EntidadID,
				Monto:       compra.Total,
				Descripcion: fmt.Sprintf("Compra %s recibida", compra.ID),
				CompraID:    &ref,
			}); err != nil {
				return err
			}
		}

		ahora := time.Now()
		return s.repo.UpdateEstadoTx(tx, compraID, nuevoEstado, &ahora, &sucursalID)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.PorID(ctx, compraID)
}

func (s *compraService) Cancelar(ctx context.Context, compraID uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		compra, err := s.repo.FindByIDTx(tx, compraID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("compra no encontrada")
			}
			return err
		}
		nuevoEstado, err := compra.Estado.Transicionar(model.CompraCancelada)
		if err != nil {
			if compra.Estado != model.CompraPendiente {
				return ErrCompraYaProcesada
			}
			return err
		}
		return s.repo.UpdateEstadoTx(tx, compraID, nuevoEstado, nil, nil)
	})
}

func (s *compraService) PorID(ctx context.Context, compraID uuid.UUID) (*dto.CompraResponse, error) {
	compra, err := s.repo.FindByID(ctx, compraID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("compra no encontrada")
		}
		return nil, err
	}
	return compraToResponse(compra), nil
}

func (s *compraService) List(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	compras, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.CompraListResponse{
		Data:  make([]dto.CompraResponse, 0, len(compras)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range compras {
		resp.Data = append(resp.Data, *compraToResponse(&compras[i]))
	}
	return resp, nil
}

func compraToResponse(c *model.Compra) *dto.CompraResponse {
	detalles := make([]dto.CompraDetalleResponse, 0, len(c.Detalles))
	for _, d := range c.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		detalles = append(detalles, dto.CompraDetalleResponse{
			ProductoID:     d.ProductoID.String(),
			Producto:       nombre,
			Cantidad:       d.Cantidad,
			PrecioCosto:    d.PrecioCosto,
			Subtotal:       d.Subtotal,
			CodigoVariante: d.CodigoVariante,
		})
	}
	resp := &dto.CompraResponse{
		ID:        c.ID.String(),
		EntidadID: c.EntidadID.String(),
		Subtotal:  c.Subtotal,
		Descuento: c.Descuento,
		Total:     c.Total,
		Estado:    string(c.Estado),
		Detalles:  detalles,
		CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if c.FechaEntrega != nil {
		fecha := c.FechaEntrega.Format("2006-01-02T15:04:05Z")
		resp.FechaEntrega = &fecha
	}
	if c.SucursalID != nil {
		id := c.SucursalID.String()
		resp.SucursalID = &id
	}
	return resp
}
