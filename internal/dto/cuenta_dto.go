package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// MovimientoRequest is the body of POST /api/account/debit and /credit.
type MovimientoRequest struct {
	EntidadID   string          `json:"entity_id"   validate:"required,uuid"`
	Monto       decimal.Decimal `json:"amount"      validate:"required"`
	Descripcion string          `json:"description" validate:"required,min=1"`
	MedioPago   string          `json:"payment_method"`
	CompraID    *string         `json:"purchase_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoResponse struct {
	ID                string          `json:"id"`
	EntidadID         string          `json:"entity_id"`
	Descripcion       string          `json:"descripcion"`
	Debe              decimal.Decimal `json:"debe"`
	Haber             decimal.Decimal `json:"haber"`
	Saldo             decimal.Decimal `json:"saldo"`
	MedioPago         string          `json:"medio_pago"`
	NumeroComprobante *string         `json:"numero_de_comprobante"`
	CreatedAt         string          `json:"created_at"`
}

type SaldoResponse struct {
	EntidadID string          `json:"entity_id"`
	Saldo     decimal.Decimal `json:"saldo"`
}

// Inconsistencia describes one ledger row whose stored saldo deviates
// from the recomputed running balance.
type Inconsistencia struct {
	Posicion       int             `json:"posicion"`
	MovimientoID   string          `json:"movimiento_id"`
	SaldoGuardado  decimal.Decimal `json:"saldo_guardado"`
	SaldoCalculado decimal.Decimal `json:"saldo_calculado"`
	Diferencia     decimal.Decimal `json:"diferencia"`
}

type ValidarIntegridadResponse struct {
	EntidadID       string           `json:"entity_id"`
	EsValido        bool             `json:"is_valid"`
	Movimientos     int              `json:"movimientos"`
	Inconsistencias []Inconsistencia `json:"inconsistencias"`
}

type RecalcularSaldosResponse struct {
	EntidadID    string          `json:"entity_id"`
	Actualizados int             `json:"updates_count"`
	SaldoFinal   decimal.Decimal `json:"final_balance"`
}
