package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is the catalog entry. On-hand quantities live in the Stock
// tables, never here; a product exists once system-wide and is stocked
// per branch and per size/color variant.
type Producto struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// Codigo is a short numeric code used to compose variant barcodes.
	Codigo      int    `gorm:"uniqueIndex;autoIncrement;not null"`
	Nombre      string `gorm:"index;not null"`
	Descripcion *string
	Marca       *string
	Grupo       *string         `gorm:"index"`
	PrecioCosto decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ProveedorID *uuid.UUID      `gorm:"type:uuid;index"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Proveedor *Entidad `gorm:"foreignKey:ProveedorID"`
}

func (Producto) TableName() string { return "products" }

// Talle y Color son los atributos de variante. Sus códigos numéricos
// cortos alimentan la composición del código de barras de variante.
type Talle struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo    int       `gorm:"uniqueIndex;autoIncrement;not null"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

func (Talle) TableName() string { return "sizes" }

type Color struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo    int       `gorm:"uniqueIndex;autoIncrement;not null"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Hex       *string   `gorm:"type:varchar(7)"`
	CreatedAt time.Time
}

func (Color) TableName() string { return "colors" }
