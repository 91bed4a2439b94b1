package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoCompra models the purchase lifecycle explicitly. Transitions are
// one-way: Pendiente→Recibido o Pendiente→Cancelado, nada más.
type EstadoCompra string

const (
	CompraPendiente EstadoCompra = "Pendiente de entrega"
	CompraRecibida  EstadoCompra = "Recibido"
	CompraCancelada EstadoCompra = "Cancelado"
)

var transicionesCompra = map[EstadoCompra][]EstadoCompra{
	CompraPendiente: {CompraRecibida, CompraCancelada},
	CompraRecibida:  {},
	CompraCancelada: {},
}

// PuedeTransicionar reports whether from→to is a legal status change.
func (from EstadoCompra) PuedeTransicionar(to EstadoCompra) bool {
	for _, t := range transicionesCompra[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transicionar validates and returns the new state, or an error naming
// both states. Every caller that flips a purchase status goes through
// this single guard.
func (from EstadoCompra) Transicionar(to EstadoCompra) (EstadoCompra, error) {
	if !from.PuedeTransicionar(to) {
		return from, fmt.Errorf("transición de estado inválida: %q → %q", from, to)
	}
	return to, nil
}

// Compra is a provider order header.
type Compra struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntidadID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado       EstadoCompra    `gorm:"type:varchar(30);not null;default:'Pendiente de entrega'"`
	FechaEntrega *time.Time
	// SucursalID is set when the purchase is received (goods destination).
	SucursalID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Entidad  *Entidad        `gorm:"foreignKey:EntidadID"`
	Detalles []CompraDetalle `gorm:"foreignKey:CompraID"`
}

func (Compra) TableName() string { return "purchases" }

// CompraDetalle is one purchase line. Variant fields are optional: a line
// without talle/color stocks the product's generic variant.
type CompraDetalle struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null;check:cantidad > 0"`
	PrecioCosto    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TalleID        *uuid.UUID      `gorm:"type:uuid"`
	ColorID        *uuid.UUID      `gorm:"type:uuid"`
	CodigoVariante *string

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (CompraDetalle) TableName() string { return "purchases_detail" }
