package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/breightend/Mykonos-os-sub001/internal/dto"
	"github.com/breightend/Mykonos-os-sub001/internal/model"
	"github.com/breightend/Mykonos-os-sub001/internal/repository"
	"github.com/breightend/Mykonos-os-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IntercambioService procesa cambios y devoluciones de mercadería.
// Una operación puede tener cero o más líneas devueltas y cero o más
// líneas entregadas; todo el efecto (stock, auditoría de inventario,
// asiento en cuenta corriente e historial) se confirma en una sola
// transacción o no se confirma nada.
type IntercambioService interface {
	Crear(ctx context.Context, req dto.CrearIntercambioRequest) (*dto.IntercambioResponse, error)

	// ValidarDevolucion verifies a return line before the operation is
	// submitted: the variant must exist at the branch.
	ValidarDevolucion(ctx context.Context, req dto.ValidarLineaRequest) (*dto.ValidarLineaResponse, error)

	// ValidarProductoNuevo additionally checks on-hand quantity, since
	// the new product leaves the branch.
	ValidarProductoNuevo(ctx context.Context, req dto.ValidarLineaRequest) (*dto.ValidarLineaResponse, error)

	Historial(ctx context.Context, limit int) ([]dto.IntercambioHistorialItem, error)
	PorID(ctx context.Context, id uuid.UUID) (*model.Intercambio, error)
}

type intercambioService struct {
	repo       repository.IntercambioRepository
	stockRepo  repository.StockRepository
	movRepo    repository.MovimientoInventarioRepository
	cuenta     CuentaService
	dispatcher *worker.Dispatcher
}

func NewIntercambioService(
	repo repository.IntercambioRepository,
	stockRepo repository.StockRepository,
	movRepo repository.MovimientoInventarioRepository,
	cuenta CuentaService,
	dispatcher *worker.Dispatcher,
) IntercambioService {
	return &intercambioService{
		repo:       repo,
		stockRepo:  stockRepo,
		movRepo:    movRepo,
		cuenta:     cuenta,
		dispatcher: dispatcher,
	}
}

// normalizarLineas merges the legacy single-pair shape into the line
// lists: the pair fields only count when the corresponding list came
// empty, so a client sending both shapes does not double-process.
func normalizarLineas(req dto.CrearIntercambioRequest) (devueltos, nuevos []dto.LineaIntercambio) {
	devueltos = req.ProductosDevueltos
	nuevos = req.ProductosNuevos
	if len(devueltos) == 0 && req.CodigoDevolucion != "" {
		devueltos = []dto.LineaIntercambio{{
			CodigoVariante: req.CodigoDevolucion,
			Cantidad:       req.CantidadDevolucion,
			Motivo:         req.Motivo,
		}}
	}
	if len(nuevos) == 0 && req.CodigoNuevo != "" {
		nuevos = []dto.LineaIntercambio{{
			CodigoVariante: req.CodigoNuevo,
			Cantidad:       req.CantidadNueva,
		}}
	}
	return devueltos, nuevos
}

func (s *intercambioService) Crear(ctx context.Context, req dto.CrearIntercambioRequest) (*dto.IntercambioResponse, error) {
	sucursalID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, fmt.Errorf("branch_id inválido: %w", err)
	}

	var entidadID, usuarioID *uuid.UUID
	if req.EntidadID != nil && *req.EntidadID != "" {
		id, err := uuid.Parse(*req.EntidadID)
		if err != nil {
			return nil, fmt.Errorf("customer_id inválido: %w", err)
		}
		entidadID = &id
	}
	if req.UsuarioID != nil && *req.UsuarioID != "" {
		id, err := uuid.Parse(*req.UsuarioID)
		if err != nil {
			return nil, fmt.Errorf("user_id inválido: %w", err)
		}
		usuarioID = &id
	}

	devueltos, nuevos := normalizarLineas(req)
	if len(devueltos) == 0 && len(nuevos) == 0 {
		return nil, ErrIntercambioVacio
	}
	for _, l := range append(append([]dto.LineaIntercambio{}, devueltos...), nuevos...) {
		if l.Cantidad <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrCantidadInvalida, l.CodigoVariante)
		}
	}

	type lineaResuelta struct {
		variante *model.VarianteStock
		cantidad int
		total    decimal.Decimal
	}

	intercambio := &model.Intercambio{
		EntidadID:  entidadID,
		UsuarioID:  usuarioID,
		SucursalID: sucursalID,
		Motivo:     req.Motivo,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Fase 1: resolver y valorizar las devoluciones al precio de
		// venta vigente del producto.
		totalDevolucion := decimal.Zero
		resDevueltos := make([]lineaResuelta, 0, len(devueltos))
		for _, l := range devueltos {
			v, err := s.stockRepo.FindVariantePorCodigoTx(tx, l.CodigoVariante, sucursalID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrVarianteNoEncontrada, l.CodigoVariante)
				}
				return err
			}
			total := v.Producto.PrecioVenta.Mul(decimal.NewFromInt(int64(l.Cantidad)))
			totalDevolucion = totalDevolucion.Add(total)
			resDevueltos = append(resDevueltos, lineaResuelta{variante: v, cantidad: l.Cantidad, total: total})
		}

		// Fase 2: resolver los productos entregados y verificar stock.
		totalNuevo := decimal.Zero
		resNuevos := make([]lineaResuelta, 0, len(nuevos))
		for _, l := range nuevos {
			v, err := s.stockRepo.FindVariantePorCodigoTx(tx, l.CodigoVariante, sucursalID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrVarianteNoEncontrada, l.CodigoVariante)
				}
				return err
			}
			if v.Cantidad < l.Cantidad {
				return fmt.Errorf("%w: %s (disponible %d, pedido %d)",
					ErrStockInsuficiente, l.CodigoVariante, v.Cantidad, l.Cantidad)
			}
			total := v.Producto.PrecioVenta.Mul(decimal.NewFromInt(int64(l.Cantidad)))
			totalNuevo = totalNuevo.Add(total)
			resNuevos = append(resNuevos, lineaResuelta{variante: v, cantidad: l.Cantidad, total: total})
		}

		// Fase 3: aplicar los movimientos de stock, con su auditoría.
		codigosDevueltos := make([]string, 0, len(resDevueltos))
		for _, r := range resDevueltos {
			if err := s.stockRepo.AjustarVarianteTx(tx, r.variante.ID, r.cantidad); err != nil {
				return err
			}
			if err := s.stockRepo.AjustarTotalTx(tx, r.variante.ProductoID, sucursalID, r.cantidad); err != nil {
				return err
			}
			if err := s.movRepo.CreateTx(tx, &model.MovimientoInventario{
				ProductoID:     r.variante.ProductoID,
				SucursalID:     sucursalID,
				CodigoVariante: r.variante.CodigoVariante,
				Tipo:           "devolucion",
				Cantidad:       r.cantidad,
				StockAnterior:  r.variante.Cantidad,
				StockNuevo:     r.variante.Cantidad + r.cantidad,
				Motivo:         req.Motivo,
			}); err != nil {
				return err
			}
			codigosDevueltos = append(codigosDevueltos, r.variante.CodigoVariante)
		}

		codigosNuevos := make([]string, 0, len(resNuevos))
		for _, r := range resNuevos {
			if err := s.stockRepo.AjustarVarianteTx(tx, r.variante.ID, -r.cantidad); err != nil {
				if errors.Is(err, repository.ErrStockNegativo) {
					return fmt.Errorf("%w: %s", ErrStockInsuficiente, r.variante.CodigoVariante)
				}
				return err
			}
			if err := s.stockRepo.AjustarTotalTx(tx, r.variante.ProductoID, sucursalID, -r.cantidad); err != nil {
				return err
			}
			if err := s.movRepo.CreateTx(tx, &model.MovimientoInventario{
				ProductoID:     r.variante.ProductoID,
				SucursalID:     sucursalID,
				CodigoVariante: r.variante.CodigoVariante,
				Tipo:           "entrega_cambio",
				Cantidad:       -r.cantidad,
				StockAnterior:  r.variante.Cantidad,
				StockNuevo:     r.variante.Cantidad - r.cantidad,
				Motivo:         req.Motivo,
			}); err != nil {
				return err
			}
			codigosNuevos = append(codigosNuevos, r.variante.CodigoVariante)
		}

		// Fase 4: diferencia de precios.
		diferencia := totalNuevo.Sub(totalDevolucion)

		intercambio.CodigosDevueltos = strings.Join(codigosDevueltos, ",")
		intercambio.CodigosNuevos = strings.Join(codigosNuevos, ",")
		intercambio.TotalDevolucion = totalDevolucion
		intercambio.TotalNuevo = totalNuevo
		intercambio.Diferencia = diferencia

		// Fase 6 (antes del asiento, para referenciarlo): historial.
		if err := s.repo.CreateTx(tx, intercambio); err != nil {
			return err
		}

		// Fase 5: asiento en cuenta corriente cuando hay cliente y la
		// diferencia no es cero. Positiva: el cliente debe la diferencia;
		// negativa: se le acredita.
		if entidadID != nil && !diferencia.IsZero() {
			params := MovimientoParams{
				EntidadID:   *entidadID,
				Descripcion: fmt.Sprintf("Intercambio %s", intercambio.ID),
			}
			if diferencia.IsPositive() {
				params.Monto = diferencia
				_, err = s.cuenta.RegistrarDebitoTx(tx, params)
			} else {
				params.Monto = diferencia.Neg()
				_, err = s.cuenta.RegistrarCreditoTx(tx, params)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.dispatcher != nil && entidadID != nil {
		_ = s.dispatcher.EnqueueAuditoria(ctx, worker.AuditoriaJobPayload{EntidadID: entidadID.String()})
	}

	return &dto.IntercambioResponse{
		Success:         true,
		ID:              intercambio.ID.String(),
		TotalDevolucion: intercambio.TotalDevolucion,
		TotalNuevo:      intercambio.TotalNuevo,
		Diferencia:      intercambio.Diferencia,
		CreatedAt:       intercambio.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}, nil
}

func (s *intercambioService) ValidarDevolucion(ctx context.Context, req dto.ValidarLineaRequest) (*dto.ValidarLineaResponse, error) {
	return s.validarLinea(ctx, req, false)
}

func (s *intercambioService) ValidarProductoNuevo(ctx context.Context, req dto.ValidarLineaRequest) (*dto.ValidarLineaResponse, error) {
	return s.validarLinea(ctx, req, true)
}

func (s *intercambioService) validarLinea(ctx context.Context, req dto.ValidarLineaRequest, exigirStock bool) (*dto.ValidarLineaResponse, error) {
	sucursalID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, fmt.Errorf("branch_id inválido: %w", err)
	}
	if req.Cantidad <= 0 {
		return nil, ErrCantidadInvalida
	}

	v, err := s.stockRepo.FindVariantePorCodigo(ctx, req.CodigoVariante, sucursalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrVarianteNoEncontrada, req.CodigoVariante)
		}
		return nil, err
	}
	if exigirStock && v.Cantidad < req.Cantidad {
		return nil, fmt.Errorf("%w: %s (disponible %d, pedido %d)",
			ErrStockInsuficiente, req.CodigoVariante, v.Cantidad, req.Cantidad)
	}

	resp := &dto.ValidarLineaResponse{
		Success:         true,
		CodigoVariante:  v.CodigoVariante,
		StockDisponible: v.Cantidad,
	}
	if v.Producto != nil {
		resp.Producto = v.Producto.Nombre
		resp.PrecioUnitario = v.Producto.PrecioVenta
		resp.TotalLinea = v.Producto.PrecioVenta.Mul(decimal.NewFromInt(int64(req.Cantidad)))
	}
	return resp, nil
}

func (s *intercambioService) Historial(ctx context.Context, limit int) ([]dto.IntercambioHistorialItem, error) {
	intercambios, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.IntercambioHistorialItem, 0, len(intercambios))
	for _, i := range intercambios {
		item := dto.IntercambioHistorialItem{
			ID:               i.ID.String(),
			SucursalID:       i.SucursalID.String(),
			CodigosDevueltos: i.CodigosDevueltos,
			CodigosNuevos:    i.CodigosNuevos,
			TotalDevolucion:  i.TotalDevolucion,
			TotalNuevo:       i.TotalNuevo,
			Diferencia:       i.Diferencia,
			Motivo:           i.Motivo,
			CreatedAt:        i.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if i.EntidadID != nil {
			id := i.EntidadID.String()
			item.EntidadID = &id
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *intercambioService) PorID(ctx context.Context, id uuid.UUID) (*model.Intercambio, error) {
	return s.repo.FindByID(ctx, id)
}
