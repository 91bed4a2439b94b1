package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/breightend/Mykonos-os-sub001/internal/dto"
	"github.com/breightend/Mykonos-os-sub001/internal/model"
	"github.com/breightend/Mykonos-os-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VentaService registra ventas de mostrador. Las líneas llevan cantidad
// con signo: positiva vende, negativa devuelve dentro del mismo ticket.
// Con medio de pago cuenta_corriente el total se asienta como débito en
// la cuenta del cliente, dentro de la misma transacción que el stock.
type VentaService interface {
	Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	Anular(ctx context.Context, id uuid.UUID, motivo string) error
	PorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	List(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo      repository.VentaRepository
	stockRepo repository.StockRepository
	movRepo   repository.MovimientoInventarioRepository
	cuenta    CuentaService
}

func NewVentaService(
	repo repository.VentaRepository,
	stockRepo repository.StockRepository,
	movRepo repository.MovimientoInventarioRepository,
	cuenta CuentaService,
) VentaService {
	return &ventaService{repo: repo, stockRepo: stockRepo, movRepo: movRepo, cuenta: cuenta}
}

func (s *ventaService) Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	sucursalID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, fmt.Errorf("sucursal_id inválido: %w", err)
	}

	var entidadID *uuid.UUID
	if req.EntidadID != nil && *req.EntidadID != "" {
		id, err := uuid.Parse(*req.EntidadID)
		if err != nil {
			return nil, fmt.Errorf("entity_id inválido: %w", err)
		}
		entidadID = &id
	}
	if req.MedioPago == "cuenta_corriente" && entidadID == nil {
		return nil, errors.New("cuenta_corriente requiere un cliente identificado")
	}
	for _, d := range req.Detalles {
		if d.Cantidad == 0 {
			return nil, fmt.Errorf("%w: %s", ErrCantidadInvalida, d.CodigoVariante)
		}
	}

	venta := &model.Venta{
		EntidadID:  entidadID,
		UsuarioID:  usuarioID,
		SucursalID: sucursalID,
		MedioPago:  req.MedioPago,
		Estado:     model.VentaCompletada,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumeroTx(ctx, tx)
		if err != nil {
			return err
		}
		venta.Numero = numero

		total := decimal.Zero
		for _, d := range req.Detalles {
			v, err := s.stockRepo.FindVariantePorCodigoTx(tx, d.CodigoVariante, sucursalID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrVarianteNoEncontrada, d.CodigoVariante)
				}
				return err
			}

			subtotal := v.Producto.PrecioVenta.Mul(decimal.NewFromInt(int64(d.Cantidad)))
			total = total.Add(subtotal)

			// Línea positiva descuenta stock, negativa lo repone.
			if err := s.stockRepo.AjustarVarianteTx(tx, v.ID, -d.Cantidad); err != nil {
				if errors.Is(err, repository.ErrStockNegativo) {
					return fmt.Errorf("%w: %s (disponible %d, pedido %d)",
						ErrStockInsuficiente, d.CodigoVariante, v.Cantidad, d.Cantidad)
				}
				return err
			}
			if err := s.stockRepo.AjustarTotalTx(tx, v.ProductoID, sucursalID, -d.Cantidad); err != nil {
				if errors.Is(err, repository.ErrStockNegativo) {
					return fmt.Errorf("%w: %s", ErrStockInsuficiente, d.CodigoVariante)
				}
				return err
			}

			tipo := "venta"
			if d.Cantidad < 0 {
				tipo = "devolucion"
			}
			if err := s.movRepo.CreateTx(tx, &model.MovimientoInventario{
				ProductoID:     v.ProductoID,
				SucursalID:     sucursalID,
				CodigoVariante: d.CodigoVariante,
				Tipo:           tipo,
				Cantidad:       -d.Cantidad,
				StockAnterior:  v.Cantidad,
				StockNuevo:     v.Cantidad - d.Cantidad,
				Motivo:         fmt.Sprintf("Venta #%d", numero),
			}); err != nil {
				return err
			}

			venta.Detalles = append(venta.Detalles, model.VentaDetalle{
				ProductoID:     v.ProductoID,
				CodigoVariante: d.CodigoVariante,
				Cantidad:       d.Cantidad,
				PrecioUnitario: v.Producto.PrecioVenta,
				Subtotal:       subtotal,
			})
		}
		venta.Total = total

		if err := s.repo.Create(ctx, tx, venta); err != nil {
			return err
		}

		if req.MedioPago == "cuenta_corriente" && !total.IsZero() {
			comprobante := fmt.Sprintf("VTA-%06d", numero)
			params := MovimientoParams{
				EntidadID:         *entidadID,
				Descripcion:       fmt.Sprintf("Venta #%d en cuenta corriente", numero),
				MedioPago:         "cuenta_corriente",
				NumeroComprobante: &comprobante,
			}
			if total.IsPositive() {
				params.Monto = total
				_, err = s.cuenta.RegistrarDebitoTx(tx, params)
			} else {
				params.Monto = total.Neg()
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
	return s.PorID(ctx, venta.ID)
}

// Anular deshace una venta: repone el stock de cada línea y, si la
// venta había tocado la cuenta corriente, asienta el contra-asiento.
// El header se lee con FOR UPDATE y el estado se chequea bajo ese lock:
// dos anulaciones concurrentes se serializan y la segunda encuentra la
// venta ya cancelada, sin duplicar stock ni créditos.
func (s *ventaService) Anular(ctx context.Context, id uuid.UUID, motivo string) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		venta, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("venta no encontrada")
			}
			return err
		}
		if venta.Estado == model.VentaCancelada {
			return errors.New("la venta ya está anulada")
		}

		for _, d := range venta.Detalles {
			v, err := s.stockRepo.FindVariantePorCodigoTx(tx, d.CodigoVariante, venta.SucursalID)
			if err != nil {
				return err
			}
			// Deshacer el efecto original de la línea sobre el stock.
			if err := s.stockRepo.AjustarVarianteTx(tx, v.ID, d.Cantidad); err != nil {
				if errors.Is(err, repository.ErrStockNegativo) {
					return fmt.Errorf("%w: %s", ErrStockInsuficiente, d.CodigoVariante)
				}
				return err
			}
			if err := s.stockRepo.AjustarTotalTx(tx, v.ProductoID, venta.SucursalID, d.Cantidad); err != nil {
				if errors.Is(err, repository.ErrStockNegativo) {
					return fmt.Errorf("%w: %s", ErrStockInsuficiente, d.CodigoVariante)
				}
				return err
			}
			if err := s.movRepo.CreateTx(tx, &model.MovimientoInventario{
				ProductoID:     v.ProductoID,
				SucursalID:     venta.SucursalID,
				CodigoVariante: d.CodigoVariante,
				Tipo:           "restore_anulacion",
				Cantidad:       d.Cantidad,
				StockAnterior:  v.Cantidad,
				StockNuevo:     v.Cantidad + d.Cantidad,
				Motivo:         fmt.Sprintf("Anulación venta #%d — %s", venta.Numero, motivo),
			}); err != nil {
				return err
			}
		}

		// Contra-asiento cuando la venta había tocado la cuenta corriente.
		if venta.MedioPago == "cuenta_corriente" && venta.EntidadID != nil && !venta.Total.IsZero() {
			params := MovimientoParams{
				EntidadID:   *venta.EntidadID,
				Descripcion: fmt.Sprintf("Anulación venta #%d — %s", venta.Numero, motivo),
				MedioPago:   "cuenta_corriente",
			}
			var err error
			if venta.Total.IsPositive() {
				params.Monto = venta.Total
				_, err = s.cuenta.RegistrarCreditoTx(tx, params)
			} else {
				params.Monto = venta.Total.Neg()
				_, err = s.cuenta.RegistrarDebitoTx(tx, params)
			}
			if err != nil {
				return err
			}
		}

		return s.repo.UpdateEstadoTx(tx, id, model.VentaCancelada)
	})
}

func (s *ventaService) PorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("venta no encontrada")
		}
		return nil, err
	}
	return ventaToResponse(venta), nil
}

func (s *ventaService) List(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.VentaListResponse{
		Data:  make([]dto.VentaResponse, 0, len(ventas)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range ventas {
		resp.Data = append(resp.Data, *ventaToResponse(&ventas[i]))
	}
	return resp, nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	detalles := make([]dto.VentaDetalleResponse, 0, len(v.Detalles))
	for _, d := range v.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		detalles = append(detalles, dto.VentaDetalleResponse{
			Producto:       nombre,
			CodigoVariante: d.CodigoVariante,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		})
	}
	resp := &dto.VentaResponse{
		ID:        v.ID.String(),
		Numero:    v.Numero,
		Detalles:  detalles,
		Total:     v.Total,
		MedioPago: v.MedioPago,
		Estado:    v.Estado,
		CreatedAt: v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if v.EntidadID != nil {
		id := v.EntidadID.String()
		resp.EntidadID = &id
	}
	return resp
}
