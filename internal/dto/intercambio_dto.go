package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LineaIntercambio is one return or dispatch line in the normalized shape.
type LineaIntercambio struct {
	CodigoVariante string `json:"variant_barcode" validate:"required"`
	Cantidad       int    `json:"quantity"        validate:"required"`
	Motivo         string `json:"reason"`
}

// CrearIntercambioRequest accepts both wire shapes: the legacy single
// return/new barcode pair, and the multi-product line lists. The service
// normalizes both to line lists before validating anything.
type CrearIntercambioRequest struct {
	// Legacy single-pair shape
	CodigoDevolucion   string `json:"return_variant_barcode"`
	CantidadDevolucion int    `json:"return_quantity"`
	CodigoNuevo        string `json:"new_variant_barcode"`
	CantidadNueva      int    `json:"new_quantity"`

	// Multi-product shape
	ProductosDevueltos []LineaIntercambio `json:"return_products" validate:"omitempty,dive"`
	ProductosNuevos    []LineaIntercambio `json:"new_products"    validate:"omitempty,dive"`

	SucursalID string  `json:"branch_id"   validate:"required,uuid"`
	Motivo     string  `json:"reason"`
	UsuarioID  *string `json:"user_id"     validate:"omitempty,uuid"`
	EntidadID  *string `json:"customer_id" validate:"omitempty,uuid"`
}

// ValidarLineaRequest is the body of POST /api/exchange/validate-return
// and /validate-new-product.
type ValidarLineaRequest struct {
	CodigoVariante string `json:"variant_barcode" validate:"required"`
	Cantidad       int    `json:"quantity"        validate:"required,min=1"`
	SucursalID     string `json:"branch_id"       validate:"required,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type IntercambioResponse struct {
	Success         bool            `json:"success"`
	ID              string          `json:"id"`
	TotalDevolucion decimal.Decimal `json:"return_total"`
	TotalNuevo      decimal.Decimal `json:"new_total"`
	Diferencia      decimal.Decimal `json:"price_difference"`
	CreatedAt       string          `json:"created_at"`
}

type ValidarLineaResponse struct {
	Success         bool            `json:"success"`
	CodigoVariante  string          `json:"variant_barcode"`
	Producto        string          `json:"producto"`
	PrecioUnitario  decimal.Decimal `json:"precio_unitario"`
	TotalLinea      decimal.Decimal `json:"total_linea"`
	StockDisponible int             `json:"stock_disponible"`
}

type IntercambioHistorialItem struct {
	ID               string          `json:"id"`
	EntidadID        *string         `json:"customer_id"`
	SucursalID       string          `json:"branch_id"`
	CodigosDevueltos string          `json:"returned_barcodes"`
	CodigosNuevos    string          `json:"new_barcodes"`
	TotalDevolucion  decimal.Decimal `json:"return_total"`
	TotalNuevo       decimal.Decimal `json:"new_total"`
	Diferencia       decimal.Decimal `json:"price_difference"`
	Motivo           string          `json:"reason"`
	CreatedAt        string          `json:"created_at"`
}
