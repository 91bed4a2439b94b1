package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de venta.
const (
	VentaCompletada = "Completada"
	VentaCancelada  = "Cancelada"
)

// Venta is a completed customer transaction. EntidadID is nil for
// anonymous counter sales; it is required when the payment method is
// cuenta_corriente (the sale posts a debit on the customer account).
type Venta struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero    int        `gorm:"uniqueIndex;not null"`
	EntidadID *uuid.UUID `gorm:"type:uuid;index"`
	UsuarioID uuid.UUID  `gorm:"type:uuid;not null"`
	// SucursalID: branch whose stock the sale draws from.
	SucursalID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MedioPago  string          `gorm:"type:varchar(30);not null"`
	Estado     string          `gorm:"type:varchar(20);not null;default:'Completada'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Entidad  *Entidad       `gorm:"foreignKey:EntidadID"`
	Detalles []VentaDetalle `gorm:"foreignKey:VentaID"`
}

func (Venta) TableName() string { return "sales" }

// VentaDetalle is one sale line. Cantidad is signed and never zero:
// positive = sold, negative = returned within the same ticket.
type VentaDetalle struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	CodigoVariante string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null;check:cantidad <> 0"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (VentaDetalle) TableName() string { return "sales_detail" }
