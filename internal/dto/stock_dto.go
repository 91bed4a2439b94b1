package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearVarianteRequest stocks a product/size/color combination at a
// branch for the first time (manual creation outside purchase receipt).
type CrearVarianteRequest struct {
	ProductoID string  `json:"producto_id" validate:"required,uuid"`
	SucursalID string  `json:"sucursal_id" validate:"required,uuid"`
	TalleID    *string `json:"talle_id"    validate:"omitempty,uuid"`
	ColorID    *string `json:"color_id"    validate:"omitempty,uuid"`
	Cantidad   int     `json:"cantidad"    validate:"min=0"`
}

type AjustarStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Motivo string `json:"motivo" validate:"required,min=3"`
}

// TransferirStockRequest moves variant units between branches.
type TransferirStockRequest struct {
	CodigoVariante string `json:"variant_barcode" validate:"required"`
	OrigenID       string `json:"origen_id"       validate:"required,uuid"`
	DestinoID      string `json:"destino_id"      validate:"required,uuid"`
	Cantidad       int    `json:"cantidad"        validate:"required,min=1"`
	Motivo         string `json:"motivo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VarianteStockResponse struct {
	ID             string  `json:"id"`
	ProductoID     string  `json:"producto_id"`
	Producto       string  `json:"producto"`
	SucursalID     string  `json:"sucursal_id"`
	Talle          *string `json:"talle"`
	Color          *string `json:"color"`
	CodigoVariante string  `json:"variant_barcode"`
	Cantidad       int     `json:"cantidad"`
	LastUpdated    string  `json:"last_updated"`
}

type StockPorSucursalResponse struct {
	SucursalID string                  `json:"sucursal_id"`
	Variantes  []VarianteStockResponse `json:"variantes"`
}

type MovimientoInventarioResponse struct {
	ID             string `json:"id"`
	ProductoID     string `json:"producto_id"`
	SucursalID     string `json:"sucursal_id"`
	CodigoVariante string `json:"variant_barcode"`
	Tipo           string `json:"tipo"`
	Cantidad       int    `json:"cantidad"`
	StockAnterior  int    `json:"stock_anterior"`
	StockNuevo     int    `json:"stock_nuevo"`
	Motivo         string `json:"motivo"`
	CreatedAt      string `json:"created_at"`
}
