package repository

import (
	"context"

	"github.com/breightend/Mykonos-os-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MovimientoCuentaRepository is the data access contract for the ledger.
// Writes always go through a transaction: the service opens it via DB()
// and passes the tx handle to the ...Tx methods so the balance read and
// the insert are serialized per entity (SELECT ... FOR UPDATE).
type MovimientoCuentaRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimientoCuenta) error

	// UltimoMovimientoTx returns the entity's most recent movement (max
	// seq), locking the row so concurrent writers on the same entity queue
	// up. Returns gorm.ErrRecordNotFound when the entity has no movements
	// yet.
	UltimoMovimientoTx(tx *gorm.DB, entidadID uuid.UUID) (*model.MovimientoCuenta, error)

	UltimoMovimiento(ctx context.Context, entidadID uuid.UUID) (*model.MovimientoCuenta, error)

	// ListByEntidad returns all movements in replay order (seq).
	ListByEntidad(ctx context.Context, entidadID uuid.UUID) ([]model.MovimientoCuenta, error)

	// ListByEntidadTx is the replay read under the caller's transaction,
	// used by the balance repair so it sees the rows it locked.
	ListByEntidadTx(tx *gorm.DB, entidadID uuid.UUID) ([]model.MovimientoCuenta, error)

	ListRecientes(ctx context.Context, entidadID uuid.UUID, limit int) ([]model.MovimientoCuenta, error)

	// UpdateSaldoTx rewrites one stored saldo. Repair tool only.
	UpdateSaldoTx(tx *gorm.DB, id uuid.UUID, saldo decimal.Decimal) error

	DB() *gorm.DB
}

type movimientoCuentaRepo struct{ db *gorm.DB }

func NewMovimientoCuentaRepository(db *gorm.DB) MovimientoCuentaRepository {
	return &movimientoCuentaRepo{db: db}
}

func (r *movimientoCuentaRepo) DB() *gorm.DB { return r.db }

func (r *movimientoCuentaRepo) CreateTx(tx *gorm.DB, m *model.MovimientoCuenta) error {
	return tx.Create(m).Error
}

func (r *movimientoCuentaRepo) UltimoMovimientoTx(tx *gorm.DB, entidadID uuid.UUID) (*model.MovimientoCuenta, error) {
	var m model.MovimientoCuenta
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("entidad_id = ?", entidadID).
		Order("seq DESC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *movimientoCuentaRepo) UltimoMovimiento(ctx context.Context, entidadID uuid.UUID) (*model.MovimientoCuenta, error) {
	var m model.MovimientoCuenta
	err := r.db.WithContext(ctx).
		Where("entidad_id = ?", entidadID).
		Order("seq DESC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *movimientoCuentaRepo) ListByEntidad(ctx context.Context, entidadID uuid.UUID) ([]model.MovimientoCuenta, error) {
	var movs []model.MovimientoCuenta
	err := r.db.WithContext(ctx).
		Where("entidad_id = ?", entidadID).
		Order("seq ASC").
		Find(&movs).Error
	return movs, err
}

func (r *movimientoCuentaRepo) ListByEntidadTx(tx *gorm.DB, entidadID uuid.UUID) ([]model.MovimientoCuenta, error) {
	var movs []model.MovimientoCuenta
	err := tx.
		Where("entidad_id = ?", entidadID).
		Order("seq ASC").
		Find(&movs).Error
	return movs, err
}

func (r *movimientoCuentaRepo) ListRecientes(ctx context.Context, entidadID uuid.UUID, limit int) ([]model.MovimientoCuenta, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var movs []model.MovimientoCuenta
	err := r.db.WithContext(ctx).
		Where("entidad_id = ?", entidadID).
		Order("seq DESC").
		Limit(limit).
		Find(&movs).Error
	return movs, err
}

func (r *movimientoCuentaRepo) UpdateSaldoTx(tx *gorm.DB, id uuid.UUID, saldo decimal.Decimal) error {
	return tx.Model(&model.MovimientoCuenta{}).Where("id = ?", id).
		Update("saldo", saldo).Error
}
