package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovimientoCuenta es un asiento de la cuenta corriente de una entidad
// (cliente o proveedor). Append-only: nunca se modifica en operación
// normal; la herramienta de reparación es la única que reescribe saldos.
//
// Convención de signos: Debe aumenta el saldo que la entidad le debe al
// negocio, Haber lo disminuye. Para una entidad fija, ordenando por Seq:
// saldo[i] = saldo[i-1] + debe[i] - haber[i].
//
// Seq es el número de asiento dentro de la cuenta, asignado bajo el lock
// de cola al escribir (1, 2, 3, …). Es el orden canónico del ledger:
// created_at puede empatar en el mismo tick y el UUID desempata al azar,
// así que ninguno de los dos sirve para reproducir el orden de escritura.
type MovimientoCuenta struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntidadID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_movimientos_entidad;uniqueIndex:uq_movimientos_entidad_seq,priority:1"`
	Seq         int64           `gorm:"not null;uniqueIndex:uq_movimientos_entidad_seq,priority:2"`
	Descripcion string          `gorm:"not null"`
	Debe        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Haber       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Saldo is the running balance AFTER applying this entry.
	Saldo             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MedioPago         string          `gorm:"type:varchar(30)"`
	CompraID          *uuid.UUID      `gorm:"type:uuid"`
	NumeroComprobante *string
	CreatedAt         time.Time `gorm:"index:idx_movimientos_entidad"`

	Entidad *Entidad `gorm:"foreignKey:EntidadID"`
}

func (MovimientoCuenta) TableName() string { return "account_movements" }
