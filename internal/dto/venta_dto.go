package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// VentaDetalleRequest is one sale line. Cantidad admits negatives to
// represent an in-ticket return; zero is rejected.
type VentaDetalleRequest struct {
	CodigoVariante string `json:"variant_barcode" validate:"required"`
	Cantidad       int    `json:"cantidad"        validate:"required"`
}

type RegistrarVentaRequest struct {
	SucursalID string                `json:"sucursal_id" validate:"required,uuid"`
	EntidadID  *string               `json:"entity_id"   validate:"omitempty,uuid"`
	Detalles   []VentaDetalleRequest `json:"detalles"    validate:"required,min=1,dive"`
	MedioPago  string                `json:"medio_pago"  validate:"required,oneof=efectivo debito credito transferencia cuenta_corriente"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

type VentaFilter struct {
	Fecha  string `form:"fecha"` // YYYY-MM-DD; empty = today
	Estado string `form:"estado"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VentaDetalleResponse struct {
	Producto       string          `json:"producto"`
	CodigoVariante string          `json:"variant_barcode"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID        string                 `json:"id"`
	Numero    int                    `json:"numero"`
	EntidadID *string                `json:"entity_id"`
	Detalles  []VentaDetalleResponse `json:"detalles"`
	Total     decimal.Decimal        `json:"total"`
	MedioPago string                 `json:"medio_pago"`
	Estado    string                 `json:"estado"`
	CreatedAt string                 `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
