package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Intercambio is the audit summary of one exchange/return operation.
// Stock and ledger effects are recorded in their own tables inside the
// same transaction; this row exists for history queries and receipts.
type Intercambio struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// EntidadID: customer, nil when the exchange was anonymous (stock
	// adjusted, no financial posting).
	EntidadID  *uuid.UUID `gorm:"type:uuid;index"`
	UsuarioID  *uuid.UUID `gorm:"type:uuid"`
	SucursalID uuid.UUID  `gorm:"type:uuid;not null;index"`
	// Comma-separated variant barcodes, as received.
	CodigosDevueltos string
	CodigosNuevos    string
	TotalDevolucion  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalNuevo       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Diferencia = TotalNuevo - TotalDevolucion; >0 debits the customer,
	// <0 credits them.
	Diferencia decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Motivo     string
	CreatedAt  time.Time `gorm:"index"`

	Entidad *Entidad `gorm:"foreignKey:EntidadID"`
}

func (Intercambio) TableName() string { return "exchanges" }
