package repository

import (
	"context"
	"time"

	"github.com/breightend/Mykonos-os-sub001/internal/dto"
	"github.com/breightend/Mykonos-os-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntidadRepository interface {
	Create(ctx context.Context, e *model.Entidad) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Entidad, error)
	FindByCUIT(ctx context.Context, cuit string) (*model.Entidad, error)
	List(ctx context.Context, filter dto.EntidadFilter) ([]model.Entidad, int64, error)
	// ListConMovimientosDesde returns the ids of entities with ledger
	// activity since the cutoff; feeds the periodic integrity sweep.
	ListConMovimientosDesde(ctx context.Context, desde time.Time, limit int) ([]uuid.UUID, error)
	Update(ctx context.Context, e *model.Entidad) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type entidadRepo struct{ db *gorm.DB }

func NewEntidadRepository(db *gorm.DB) EntidadRepository { return &entidadRepo{db: db} }

func (r *entidadRepo) Create(ctx context.Context, e *model.Entidad) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *entidadRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Entidad, error) {
	var e model.Entidad
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *entidadRepo) FindByCUIT(ctx context.Context, cuit string) (*model.Entidad, error) {
	var e model.Entidad
	err := r.db.WithContext(ctx).Where("cuit = ?", cuit).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *entidadRepo) List(ctx context.Context, filter dto.EntidadFilter) ([]model.Entidad, int64, error) {
	var entidades []model.Entidad
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Entidad{}).Where("activo = true")
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Nombre != "" {
		q = q.Where("razon_social ILIKE ?", "%"+filter.Nombre+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("razon_social ASC").Offset(offset).Limit(filter.Limit).Find(&entidades).Error
	return entidades, total, err
}

func (r *entidadRepo) ListConMovimientosDesde(ctx context.Context, desde time.Time, limit int) ([]uuid.UUID, error) {
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.MovimientoCuenta{}).
		Distinct("entidad_id").
		Where("created_at >= ?", desde).
		Limit(limit).
		Pluck("entidad_id", &ids).Error
	return ids, err
}

func (r *entidadRepo) Update(ctx context.Context, e *model.Entidad) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *entidadRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Entidad{}).Where("id = ?", id).Update("activo", false).Error
}
