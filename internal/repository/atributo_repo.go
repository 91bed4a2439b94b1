package repository

import (
	"context"

	"github.com/breightend/Mykonos-os-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AtributoRepository serves the size/color catalogs consumed by variant
// creation and barcode composition.
type AtributoRepository interface {
	CreateTalle(ctx context.Context, t *model.Talle) error
	CreateColor(ctx context.Context, c *model.Color) error
	FindTalleByID(ctx context.Context, id uuid.UUID) (*model.Talle, error)
	FindColorByID(ctx context.Context, id uuid.UUID) (*model.Color, error)
	ListTalles(ctx context.Context) ([]model.Talle, error)
	ListColores(ctx context.Context) ([]model.Color, error)
}

type atributoRepo struct{ db *gorm.DB }

func NewAtributoRepository(db *gorm.DB) AtributoRepository { return &atributoRepo{db: db} }

func (r *atributoRepo) CreateTalle(ctx context.Context, t *model.Talle) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *atributoRepo) CreateColor(ctx context.Context, c *model.Color) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *atributoRepo) FindTalleByID(ctx context.Context, id uuid.UUID) (*model.Talle, error) {
	var t model.Talle
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *atributoRepo) FindColorByID(ctx context.Context, id uuid.UUID) (*model.Color, error) {
	var c model.Color
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *atributoRepo) ListTalles(ctx context.Context) ([]model.Talle, error) {
	var talles []model.Talle
	err := r.db.WithContext(ctx).Order("codigo ASC").Find(&talles).Error
	return talles, err
}

func (r *atributoRepo) ListColores(ctx context.Context) ([]model.Color, error) {
	var colores []model.Color
	err := r.db.WithContext(ctx).Order("codigo ASC").Find(&colores).Error
	return colores, err
}
