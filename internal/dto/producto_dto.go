package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre      string          `json:"nombre"       validate:"required,min=2,max=200"`
	Descripcion *string         `json:"descripcion"`
	Marca       *string         `json:"marca"`
	Grupo       *string         `json:"grupo"`
	PrecioCosto decimal.Decimal `json:"precio_costo" validate:"min=0"`
	PrecioVenta decimal.Decimal `json:"precio_venta" validate:"required"`
	ProveedorID *string         `json:"proveedor_id" validate:"omitempty,uuid"`
}

type ActualizarProductoRequest struct {
	Nombre      string           `json:"nombre"       validate:"omitempty,min=2,max=200"`
	Descripcion *string          `json:"descripcion"`
	Marca       *string          `json:"marca"`
	Grupo       *string          `json:"grupo"`
	PrecioCosto *decimal.Decimal `json:"precio_costo"`
	PrecioVenta *decimal.Decimal `json:"precio_venta"`
	ProveedorID *string          `json:"proveedor_id" validate:"omitempty,uuid"`
}

type ProductoFilter struct {
	Nombre      string `form:"nombre"`
	Grupo       string `form:"grupo"`
	ProveedorID string `form:"proveedor_id"`
	Activo      string `form:"activo"` // "false" = inactivos, "all" = todos, default activos
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          string          `json:"id"`
	Codigo      int             `json:"codigo"`
	Nombre      string          `json:"nombre"`
	Descripcion *string         `json:"descripcion"`
	Marca       *string         `json:"marca"`
	Grupo       *string         `json:"grupo"`
	PrecioCosto decimal.Decimal `json:"precio_costo"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	ProveedorID *string         `json:"proveedor_id"`
	Activo      bool            `json:"activo"`
	CreatedAt   string          `json:"created_at"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ConsultaPreciosResponse is the public price-check payload, served from
// the redis cache when warm.
type ConsultaPreciosResponse struct {
	Producto        string          `json:"producto"`
	CodigoVariante  string          `json:"variant_barcode"`
	Talle           *string         `json:"talle"`
	Color           *string         `json:"color"`
	PrecioVenta     decimal.Decimal `json:"precio_venta"`
	StockDisponible int             `json:"stock_disponible"`
}
