package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearEntidadRequest struct {
	RazonSocial string  `json:"razon_social" validate:"required,min=2,max=200"`
	CUIT        *string `json:"cuit"         validate:"omitempty,len=11"`
	Tipo        string  `json:"tipo"         validate:"required,oneof=cliente proveedor"`
	Telefono    *string `json:"telefono"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Direccion   *string `json:"direccion"`
}

type ActualizarEntidadRequest struct {
	RazonSocial string  `json:"razon_social" validate:"omitempty,min=2,max=200"`
	CUIT        *string `json:"cuit"         validate:"omitempty,len=11"`
	Telefono    *string `json:"telefono"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Direccion   *string `json:"direccion"`
}

type EntidadFilter struct {
	Tipo   string `form:"tipo"   validate:"omitempty,oneof=cliente proveedor"`
	Nombre string `form:"nombre"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EntidadResponse struct {
	ID          string  `json:"id"`
	RazonSocial string  `json:"razon_social"`
	CUIT        *string `json:"cuit"`
	Tipo        string  `json:"tipo"`
	Telefono    *string `json:"telefono"`
	Email       *string `json:"email"`
	Direccion   *string `json:"direccion"`
	Activo      bool    `json:"activo"`
	CreatedAt   string  `json:"created_at"`
}

type EntidadListResponse struct {
	Data  []EntidadResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
