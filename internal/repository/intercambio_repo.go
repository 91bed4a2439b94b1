package repository

import (
	"context"

	"github.com/breightend/Mykonos-os-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IntercambioRepository interface {
	CreateTx(tx *gorm.DB, i *model.Intercambio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Intercambio, error)
	List(ctx context.Context, limit int) ([]model.Intercambio, error)
	DB() *gorm.DB
}

type intercambioRepo struct{ db *gorm.DB }

func NewIntercambioRepository(db *gorm.DB) IntercambioRepository {
	return &intercambioRepo{db: db}
}

func (r *intercambioRepo) DB() *gorm.DB { return r.db }

func (r *intercambioRepo) CreateTx(tx *gorm.DB, i *model.Intercambio) error {
	return tx.Create(i).Error
}

func (r *intercambioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Intercambio, error) {
	var i model.Intercambio
	err := r.db.WithContext(ctx).Preload("Entidad").First(&i, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *intercambioRepo) List(ctx context.Context, limit int) ([]model.Intercambio, error) {
	if limit < 1 || limit > 500 {
		limit = 50
	}
	var intercambios []model.Intercambio
	err := r.db.WithContext(ctx).
		Preload("Entidad").
		Order("created_at DESC").
		Limit(limit).
		Find(&intercambios).Error
	return intercambios, err
}
