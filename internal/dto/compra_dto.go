package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CompraDetalleRequest struct {
	ProductoID  string          `json:"producto_id"  validate:"required,uuid"`
	Cantidad    int             `json:"cantidad"     validate:"required,min=1"`
	PrecioCosto decimal.Decimal `json:"precio_costo" validate:"required"`
	TalleID     *string         `json:"talle_id"     validate:"omitempty,uuid"`
	ColorID     *string         `json:"color_id"     validate:"omitempty,uuid"`
}

type CrearCompraRequest struct {
	EntidadID string                 `json:"entity_id" validate:"required,uuid"`
	Descuento decimal.Decimal        `json:"descuento" validate:"min=0"`
	Detalles  []CompraDetalleRequest `json:"detalles"  validate:"required,min=1,dive"`
}

// RecibirCompraRequest is the body of POST /api/purchases/:id/receive.
type RecibirCompraRequest struct {
	SucursalID string `json:"storage_id" validate:"required,uuid"`
}

type CompraFilter struct {
	Estado string `form:"estado"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CompraDetalleResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioCosto    decimal.Decimal `json:"precio_costo"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	CodigoVariante *string         `json:"codigo_variante"`
}

type CompraResponse struct {
	ID           string                  `json:"id"`
	EntidadID    string                  `json:"entity_id"`
	Subtotal     decimal.Decimal         `json:"subtotal"`
	Descuento    decimal.Decimal         `json:"descuento"`
	Total        decimal.Decimal         `json:"total"`
	Estado       string                  `json:"estado"`
	FechaEntrega *string                 `json:"delivery_date"`
	SucursalID   *string                 `json:"storage_id"`
	Detalles     []CompraDetalleResponse `json:"detalles"`
	CreatedAt    string                  `json:"created_at"`
}

type CompraListResponse struct {
	Data  []CompraResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
