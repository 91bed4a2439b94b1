package worker

// auditoria_worker.go
// Processes ledger audit jobs from QueueAuditoria. Each job names one
// entity; the worker replays its account movements and, when the stored
// running balances deviate from the recomputed ones, logs the drift and
// enqueues an alert email for the administrator.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/breightend/Mykonos-os-sub001/internal/dto"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// IntegrityChecker is the slice of the account service the audit worker
// needs. Declared here so the worker package does not depend on service.
type IntegrityChecker interface {
	ValidarIntegridad(ctx context.Context, entidadID uuid.UUID) (*dto.ValidarIntegridadResponse, error)
}

// AuditoriaJobPayload is the job envelope sent to QueueAuditoria.
type AuditoriaJobPayload struct {
	EntidadID string `json:"entidad_id"`
}

type AuditoriaWorker struct {
	checker    IntegrityChecker
	dispatcher *Dispatcher
	rdb        *redis.Client
	alertEmail string
}

// NewAuditoriaWorker wires the audit worker. alertEmail may be empty;
// inconsistencies are then only logged.
func NewAuditoriaWorker(checker IntegrityChecker, dispatcher *Dispatcher, rdb *redis.Client, alertEmail string) *AuditoriaWorker {
	return &AuditoriaWorker{checker: checker, dispatcher: dispatcher, rdb: rdb, alertEmail: alertEmail}
}

// Process audits one entity's ledger. Transient DB failures are retried
// with backoff; a job that keeps failing goes to the DLQ.
func (w *AuditoriaWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload AuditoriaJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("auditoria_worker: invalid payload")
		return
	}

	entidadID, err := uuid.Parse(payload.EntidadID)
	if err != nil {
		log.Error().Str("entidad_id", payload.EntidadID).Msg("auditoria_worker: invalid entidad_id")
		return
	}

	var resp *dto.ValidarIntegridadResponse
	auditErr := withRetry(ctx, 3, func(attempt int) error {
		r, err := w.checker.ValidarIntegridad(ctx, entidadID)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("entidad_id", payload.EntidadID).
				Msg("auditoria_worker: audit attempt failed, retrying")
			return err
		}
		resp = r
		return nil
	})
	if auditErr != nil {
		log.Error().Err(auditErr).Str("entidad_id", payload.EntidadID).Msg("auditoria_worker: audit failed after all retries")
		SendToDLQ(ctx, w.rdb, QueueAuditoria, "auditoria", raw, auditErr.Error(), 3)
		return
	}

	if resp.EsValido {
		log.Debug().
			Str("entidad_id", payload.EntidadID).
			Int("movimientos", resp.Movimientos).
			Msg("auditoria_worker: ledger consistent")
		return
	}

	log.Error().
		Str("entidad_id", payload.EntidadID).
		Int("movimientos", resp.Movimientos).
		Int("inconsistencias", len(resp.Inconsistencias)).
		Msg("auditoria_worker: ledger drift detected")

	if w.alertEmail == "" || w.dispatcher == nil {
		return
	}

	body := fmt.Sprintf(
		"Se detectaron %d inconsistencias en la cuenta corriente de la entidad %s.\n"+
			"Ejecutar el recálculo de saldos (POST /api/account/%s/recalculate) tras revisar los asientos.",
		len(resp.Inconsistencias), payload.EntidadID, payload.EntidadID)
	emailJob := EmailJobPayload{
		ToEmail: w.alertEmail,
		Subject: fmt.Sprintf("Alerta de integridad — entidad %s", payload.EntidadID),
		Body:    body,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("entidad_id", payload.EntidadID).Msg("auditoria_worker: failed to enqueue alert email")
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
