package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/breightend/Mykonos-os-sub001/internal/dto"
	"github.com/breightend/Mykonos-os-sub001/internal/model"
	"github.com/breightend/Mykonos-os-sub001/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GenerarCodigoVariante composes the system-wide variant barcode from
// the short numeric codes of product, color and size:
// "VAR" + producto %04d + color %03d + talle %03d. A missing color or
// size contributes 000, the product's generic variant.
func GenerarCodigoVariante(productoCodigo, colorCodigo, talleCodigo int) string {
	return fmt.Sprintf("VAR%04d%03d%03d", productoCodigo%10000, colorCodigo%1000, talleCodigo%1000)
}

type StockService interface {
	CrearVariante(ctx context.Context, req dto.CrearVarianteRequest) (*dto.VarianteStockResponse, error)
	VariantePorCodigo(ctx context.Context, codigo string, sucursalID uuid.UUID) (*dto.VarianteStockResponse, error)
	VariantesPorProducto(ctx context.Context, productoID uuid.UUID) ([]dto.VarianteStockResponse, error)
	VariantesPorSucursal(ctx context.Context, sucursalID uuid.UUID) (*dto.StockPorSucursalResponse, error)

	// AjustarStock applies a signed manual correction to one variant.
	AjustarStock(ctx context.Context, codigo string, sucursalID uuid.UUID, delta int, motivo string) error

	// Transferir moves units of a variant between branches atomically.
	Transferir(ctx context.Context, req dto.TransferirStockRequest) error

	Movimientos(ctx context.Context, filter repository.MovimientoInventarioFilter) ([]dto.MovimientoInventarioResponse, int64, error)
}

type stockService struct {
	repo         repository.StockRepository
	productoRepo repository.ProductoRepository
	atributoRepo repository.AtributoRepository
	sucursalRepo repository.SucursalRepository
	movRepo      repository.MovimientoInventarioRepository
}

func NewStockService(
	repo repository.StockRepository,
	productoRepo repository.ProductoRepository,
	atributoRepo repository.AtributoRepository,
	sucursalRepo repository.SucursalRepository,
	movRepo repository.MovimientoInventarioRepository,
) StockService {
	return &stockService{
		repo:         repo,
		productoRepo: productoRepo,
		atributoRepo: atributoRepo,
		sucursalRepo: sucursalRepo,
		movRepo:      movRepo,
	}
}

func (s *stockService) CrearVariante(ctx context.Context, req dto.CrearVarianteRequest) (*dto.VarianteStockResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id inválido: %w", err)
	}
	sucursalID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, fmt.Errorf("sucursal_id inválido: %w", err)
	}

	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	if _, err := s.sucursalRepo.FindByID(ctx, sucursalID); err != nil {
		return nil, errors.New("sucursal no encontrada")
	}

	var talleID, colorID *uuid.UUID
	talleCodigo, colorCodigo := 0, 0
	if req.TalleID != nil {
		id, err := uuid.Parse(*req.TalleID)
		if err != nil {
			return nil, fmt.Errorf("talle_id inválido: %w", err)
		}
		talle, err := s.atributoRepo.FindTalleByID(ctx, id)
		if err != nil {
			return nil, errors.New("talle no encontrado")
		}
		talleID, talleCodigo = &id, talle.Codigo
	}
	if req.ColorID != nil {
		id, err := uuid.Parse(*req.ColorID)
		if err != nil {
			return nil, fmt.Errorf("color_id inválido: %w", err)
		}
		color, err := s.atributoRepo.FindColorByID(ctx, id)
		if err != nil {
			return nil, errors.New("color no encontrado")
		}
		colorID, colorCodigo = &id, color.Codigo
	}

	codigo := GenerarCodigoVariante(producto.Codigo, colorCodigo, talleCodigo)

	var variante *model.VarianteStock
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		v, err := s.repo.FindOrCreateVarianteTx(tx, &model.VarianteStock{
			ProductoID:     productoID,
			SucursalID:     sucursalID,
			TalleID:        talleID,
			ColorID:        colorID,
			CodigoVariante: codigo,
		})
		if err != nil {
			return err
		}
		variante = v

		if req.Cantidad > 0 {
			anterior := v.Cantidad
			if err := s.repo.AjustarVarianteTx(tx, v.ID, req.Cantidad); err != nil {
				return err
			}
			if err := s.repo.AjustarTotalTx(tx, productoID, sucursalID, req.Cantidad); err != nil {
				return err
			}
			v.Cantidad = anterior + req.Cantidad
			if err := s.movRepo.CreateTx(tx, &model.MovimientoInventario{
				ProductoID:     productoID,
				SucursalID:     sucursalID,
				CodigoVariante: codigo,
				Tipo:           "ajuste_manual",
				Cantidad:       req.Cantidad,
				StockAnterior:  anterior,
				StockNuevo:     v.Cantidad,
				Motivo:         "alta de variante",
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	variante.Producto = producto
	return varianteToResponse(variante), nil
}

func (s *stockService) VariantePorCodigo(ctx context.Context, codigo string, sucursalID uuid.UUID) (*dto.VarianteStockResponse, error) {
	v, err := s.repo.FindVariantePorCodigo(ctx, codigo, sucursalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVarianteNoEncontrada
		}
		return nil, err
	}
	return varianteToResponse(v), nil
}

func (s *stockService) VariantesPorProducto(ctx context.Context, productoID uuid.UUID) ([]dto.VarianteStockResponse, error) {
	variantes, err := s.repo.ListVariantesPorProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VarianteStockResponse, 0, len(variantes))
	for i := range variantes {
		out = append(out, *varianteToResponse(&variantes[i]))
	}
	return out, nil
}

func (s *stockService) VariantesPorSucursal(ctx context.Context, sucursalID uuid.UUID) (*dto.StockPorSucursalResponse, error) {
	variantes, err := s.repo.ListVariantesPorSucursal(ctx, sucursalID)
	if err != nil {
		return nil, err
	}
	resp := &dto.StockPorSucursalResponse{
		SucursalID: sucursalID.String(),
		Variantes:  make([]dto.VarianteStockResponse, 0, len(variantes)),
	}
	for i := range variantes {
		resp.Variantes = append(resp.Variantes, *varianteToResponse(&variantes[i]))
	}
	return resp, nil
}

func (s *stockService) AjustarStock(ctx context.Context, codigo string, sucursalID uuid.UUID, delta int, motivo string) error {
	if delta == 0 {
		return ErrCantidadInvalida
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		v, err := s.repo.FindVariantePorCodigoTx(tx, codigo, sucursalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVarianteNoEncontrada
			}
			return err
		}
		if err := s.repo.AjustarVarianteTx(tx, v.ID, delta); err != nil {
			if errors.Is(err, repository.ErrStockNegativo) {
				return ErrStockInsuficiente
			}
			return err
		}
		if err := s.repo.AjustarTotalTx(tx, v.ProductoID, sucursalID, delta); err != nil {
			return err
		}
		return s.movRepo.CreateTx(tx, &model.MovimientoInventario{
			ProductoID:     v.ProductoID,
			SucursalID:     sucursalID,
			CodigoVariante: codigo,
			Tipo:           "ajuste_manual",
			Cantidad:       delta,
			StockAnterior:  v.Cantidad,
			StockNuevo:     v.Cantidad + delta,
			Motivo:         motivo,
		})
	})
}

func (s *stockService) Transferir(ctx context.Context, req dto.TransferirStockRequest) error {
	origenID, err := uuid.Parse(req.OrigenID)
	if err != nil {
		return fmt.Errorf("origen_id inválido: %w", err)
	}
	destinoID, err := uuid.Parse(req.DestinoID)
	if err != nil {
		return fmt.Errorf("destino_id inválido: %w", err)
	}
	if origenID == destinoID {
		return errors.New("origen y destino no pueden ser la misma sucursal")
	}
	if req.Cantidad <= 0 {
		return ErrCantidadInvalida
	}
	if _, err := s.sucursalRepo.FindByID(ctx, destinoID); err != nil {
		return errors.New("sucursal destino no encontrada")
	}

	motivo := req.Motivo
	if motivo == "" {
		motivo = fmt.Sprintf("Transferencia %s → %s", req.OrigenID, req.DestinoID)
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		origen, err := s.repo.FindVariantePorCodigoTx(tx, req.CodigoVariante, origenID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVarianteNoEncontrada
			}
			return err
		}

		if err := s.repo.AjustarVarianteTx(tx, origen.ID, -req.Cantidad); err != nil {
			if errors.Is(err, repository.ErrStockNegativo) {
				return ErrStockInsuficiente
			}
			return err
		}
		if err := s.repo.AjustarTotalTx(tx, origen.ProductoID, origenID, -req.Cantidad); err != nil {
			if errors.Is(err, repository.ErrStockNegativo) {
				return ErrStockInsuficiente
			}
			return err
		}

		destino, err := s.repo.FindOrCreateVarianteTx(tx, &model.VarianteStock{
			ProductoID:     origen.ProductoID,
			SucursalID:     destinoID,
			TalleID:        origen.TalleID,
			ColorID:        origen.ColorID,
			CodigoVariante: origen.CodigoVariante,
		})
		if err != nil {
			return err
		}
		if err := s.repo.AjustarVarianteTx(tx, destino.ID, req.Cantidad); err != nil {
			return err
		}
		if err := s.repo.AjustarTotalTx(tx, origen.ProductoID, destinoID, req.Cantidad); err != nil {
			return err
		}

		salida := &model.MovimientoInventario{
			ProductoID:     origen.ProductoID,
			SucursalID:     origenID,
			CodigoVariante: origen.CodigoVariante,
			Tipo:           "transferencia_salida",
			Cantidad:       -req.Cantidad,
			StockAnterior:  origen.Cantidad,
			StockNuevo:     origen.Cantidad - req.Cantidad,
			Motivo:         motivo,
		}
		if err := s.movRepo.CreateTx(tx, salida); err != nil {
			return err
		}
		entrada := &model.MovimientoInventario{
			ProductoID:     origen.ProductoID,
			SucursalID:     destinoID,
			CodigoVariante: origen.CodigoVariante,
			Tipo:           "transferencia_entrada",
			Cantidad:       req.Cantidad,
			StockAnterior:  destino.Cantidad,
			StockNuevo:     destino.Cantidad + req.Cantidad,
			Motivo:         motivo,
		}
		return s.movRepo.CreateTx(tx, entrada)
	})
}

func (s *stockService) Movimientos(ctx context.Context, filter repository.MovimientoInventarioFilter) ([]dto.MovimientoInventarioResponse, int64, error) {
	movs, total, err := s.movRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.MovimientoInventarioResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovimientoInventarioResponse{
			ID:             m.ID.String(),
			ProductoID:     m.ProductoID.String(),
			SucursalID:     m.SucursalID.String(),
			CodigoVariante: m.CodigoVariante,
			Tipo:           m.Tipo,
			Cantidad:       m.Cantidad,
			StockAnterior:  m.StockAnterior,
			StockNuevo:     m.StockNuevo,
			Motivo:         m.Motivo,
			CreatedAt:      m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return out, total, nil
}

func varianteToResponse(v *model.VarianteStock) *dto.VarianteStockResponse {
	resp := &dto.VarianteStockResponse{
		ID:             v.ID.String(),
		ProductoID:     v.ProductoID.String(),
		SucursalID:     v.SucursalID.String(),
		CodigoVariante: v.CodigoVariante,
		Cantidad:       v.Cantidad,
		LastUpdated:    v.LastUpdated.Format("2006-01-02T15:04:05Z"),
	}
	if v.Producto != nil {
		resp.Producto = v.Producto.Nombre
	}
	if v.Talle != nil {
		nombre := v.Talle.Nombre
		resp.Talle = &nombre
	}
	if v.Color != nil {
		nombre := v.Color.Nombre
		resp.Color = &nombre
	}
	return resp
}
