package service

import (
	"context"
	"errors"

	"github.com/breightend/Mykonos-os-sub001/internal/dto"
	"github.com/breightend/Mykonos-os-sub001/internal/model"
	"github.com/breightend/Mykonos-os-sub001/internal/repository"
	"github.com/breightend/Mykonos-os-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovimientoParams carries everything needed to post one ledger entry.
type MovimientoParams struct {
	EntidadID         uuid.UUID
	Monto             decimal.Decimal
	Descripcion       string
	MedioPago         string
	CompraID          *uuid.UUID
	NumeroComprobante *string
}

// CuentaService mantiene la cuenta corriente de cada entidad como un
// ledger append-only: cada asiento guarda el saldo resultante y su
// número de orden dentro de la cuenta (seq, asignado bajo el lock de
// cola); el saldo vigente es siempre el del asiento de mayor seq.
//
// Las variantes ...Tx participan en una transacción abierta por otro
// servicio (ventas, compras, intercambios) para que el asiento y el
// efecto de negocio que lo causa queden en el mismo commit.
type CuentaService interface {
	RegistrarDebito(ctx context.Context, p MovimientoParams) (*model.MovimientoCuenta, error)
	RegistrarCredito(ctx context.Context, p MovimientoParams) (*model.MovimientoCuenta, error)
	RegistrarDebitoTx(tx *gorm.DB, p MovimientoParams) (*model.MovimientoCuenta, error)
	RegistrarCreditoTx(tx *gorm.DB, p MovimientoParams) (*model.MovimientoCuenta, error)

	Saldo(ctx context.Context, entidadID uuid.UUID) (decimal.Decimal, error)
	Movimientos(ctx context.Context, entidadID uuid.UUID, limit int) ([]model.MovimientoCuenta, error)
	ValidarIntegridad(ctx context.Context, entidadID uuid.UUID) (*dto.ValidarIntegridadResponse, error)
	RecalcularSaldos(ctx context.Context, entidadID uuid.UUID) (*dto.RecalcularSaldosResponse, error)
}

type cuentaService struct {
	repo        repository.MovimientoCuentaRepository
	entidadRepo repository.EntidadRepository
	dispatcher  *worker.Dispatcher
}

func NewCuentaService(
	repo repository.MovimientoCuentaRepository,
	entidadRepo repository.EntidadRepository,
	dispatcher *worker.Dispatcher,
) CuentaService {
	return &cuentaService{repo: repo, entidadRepo: entidadRepo, dispatcher: dispatcher}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *cuentaService) RegistrarDebito(ctx context.Context, p MovimientoParams) (*model.MovimientoCuenta, error) {
	return s.registrar(ctx, p, true)
}

func (s *cuentaService) RegistrarCredito(ctx context.Context, p MovimientoParams) (*model.MovimientoCuenta, error) {
	return s.registrar(ctx, p, false)
}

func (s *cuentaService) registrar(ctx context.Context, p MovimientoParams, esDebito bool) (*model.MovimientoCuenta, error) {
	if _, err := s.entidadRepo.FindByID(ctx, p.EntidadID); err != nil {
		return nil, ErrEntidadNoEncontrada
	}

	var mov *model.MovimientoCuenta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		mov, err = s.registrarTx(tx, p, esDebito)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	// Best-effort async audit of the entity's ledger after each write.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueAuditoria(ctx, map[string]interface{}{
			"entidad_id": p.EntidadID.String(),
		})
	}
	return mov, nil
}

func (s *cuentaService) RegistrarDebitoTx(tx *gorm.DB, p MovimientoParams) (*model.MovimientoCuenta, error) {
	return s.registrarTx(tx, p, true)
}

func (s *cuentaService) RegistrarCreditoTx(tx *gorm.DB, p MovimientoParams) (*model.MovimientoCuenta, error) {
	return s.registrarTx(tx, p, false)
}

// registrarTx posts one entry under the caller's transaction. The read
// of the entity's latest movement takes a row lock, so two concurrent
// writers on the same entity serialize here and each one computes its
// saldo from a committed predecessor.
func (s *cuentaService) registrarTx(tx *gorm.DB, p MovimientoParams, esDebito bool) (*model.MovimientoCuenta, error) {
	if !p.Monto.IsPositive() {
		return nil, ErrMontoInvalido
	}

	saldoAnterior := decimal.Zero
	var seq int64 = 1
	ultimo, err := s.repo.UltimoMovimientoTx(tx, p.EntidadID)
	switch {
	case err == nil:
		saldoAnterior = ultimo.Saldo
		seq = ultimo.Seq + 1
	case errors.Is(err, gorm.ErrRecordNotFound):
		// First movement of the entity.
	default:
		return nil, err
	}

	mov := &model.MovimientoCuenta{
		EntidadID:         p.EntidadID,
		Seq:               seq,
		Descripcion:       p.Descripcion,
		Debe:              decimal.Zero,
		Haber:             decimal.Zero,
		MedioPago:         p.MedioPago,
		CompraID:          p.CompraID,
		NumeroComprobante: p.NumeroComprobante,
	}
	if esDebito {
		mov.Debe = p.Monto
		mov.Saldo = saldoAnterior.Add(p.Monto)
	} else {
		mov.Haber = p.Monto
		mov.Saldo = saldoAnterior.Sub(p.Monto)
	}

	if err := s.repo.CreateTx(tx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// Saldo returns the entity's current balance: the saldo of its latest
// movement, or zero when it has none.
func (s *cuentaService) Saldo(ctx context.Context, entidadID uuid.UUID) (decimal.Decimal, error) {
	if _, err := s.entidadRepo.FindByID(ctx, entidadID); err != nil {
		return decimal.Zero, ErrEntidadNoEncontrada
	}
	ultimo, err := s.repo.UltimoMovimiento(ctx, entidadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return ultimo.Saldo, nil
}

func (s *cuentaService) Movimientos(ctx context.Context, entidadID uuid.UUID, limit int) ([]model.MovimientoCuenta, error) {
	if _, err := s.entidadRepo.FindByID(ctx, entidadID); err != nil {
		return nil, ErrEntidadNoEncontrada
	}
	return s.repo.ListRecientes(ctx, entidadID, limit)
}

// ValidarIntegridad replays the entity's movements in seq order and
// compares each stored saldo against the recomputed running balance.
// Read-only: it never repairs anything.
func (s *cuentaService) ValidarIntegridad(ctx context.Context, entidadID uuid.UUID) (*dto.ValidarIntegridadResponse, error) {
	if _, err := s.entidadRepo.FindByID(ctx, entidadID); err != nil {
		return nil, ErrEntidadNoEncontrada
	}
	movs, err := s.repo.ListByEntidad(ctx, entidadID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ValidarIntegridadResponse{
		EntidadID:       entidadID.String(),
		EsValido:        true,
		Movimientos:     len(movs),
		Inconsistencias: []dto.Inconsistencia{},
	}

	saldo := decimal.Zero
	for i, m := range movs {
		saldo = saldo.Add(m.Debe).Sub(m.Haber)
		if !m.Saldo.Equal(saldo) {
			resp.EsValido = false
			resp.Inconsistencias = append(resp.Inconsistencias, dto.Inconsistencia{
				Posicion:       i,
				MovimientoID:   m.ID.String(),
				SaldoGuardado:  m.Saldo,
				SaldoCalculado: saldo,
				Diferencia:     m.Saldo.Sub(saldo),
			})
		}
	}
	return resp, nil
}

// RecalcularSaldos rewrites every stored saldo from a clean replay.
// It is the repair tool for ledgers that ValidarIntegridad flagged; the
// whole rewrite is one transaction, holding the entity's tail lock so
// concurrent posts wait for the repair to finish.
func (s *cuentaService) RecalcularSaldos(ctx context.Context, entidadID uuid.UUID) (*dto.RecalcularSaldosResponse, error) {
	if _, err := s.entidadRepo.FindByID(ctx, entidadID); err != nil {
		return nil, ErrEntidadNoEncontrada
	}

	resp := &dto.RecalcularSaldosResponse{EntidadID: entidadID.String()}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if tx != nil {
			if _, err := s.repo.UltimoMovimientoTx(tx, entidadID); err != nil &&
				!errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		movs, err := s.repo.ListByEntidadTx(tx, entidadID)
		if err != nil {
			return err
		}

		saldo := decimal.Zero
		for _, m := range movs {
			saldo = saldo.Add(m.Debe).Sub(m.Haber)
			if !m.Saldo.Equal(saldo) {
				if err := s.repo.UpdateSaldoTx(tx, m.ID, saldo); err != nil {
					return err
				}
				resp.Actualizados++
			}
		}
		resp.SaldoFinal = saldo
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return resp, nil
}
