package repository

import (
	"context"
	"time"

	"github.com/breightend/Mykonos-os-sub001/internal/dto"
	"github.com/breightend/Mykonos-os-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompraRepository interface {
	// Create persists the header and its detail lines in one insert chain.
	Create(ctx context.Context, c *model.Compra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)

	// FindByIDTx locks the purchase header row: the status check-then-act
	// of the receipt flow happens under this lock.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Compra, error)

	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoCompra, fechaEntrega *time.Time, sucursalID *uuid.UUID) error
	List(ctx context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error)
	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) DB() *gorm.DB { return r.db }

func (r *compraRepo) Create(ctx context.Context, c *model.Compra) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").Preload("Entidad").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *compraRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	if err := tx.Where("compra_id = ?", id).Find(&c.Detalles).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *compraRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoCompra, fechaEntrega *time.Time, sucursalID *uuid.UUID) error {
	updates := map[string]interface{}{"estado": estado}
	if fechaEntrega != nil {
		updates["fecha_entrega"] = *fechaEntrega
	}
	if sucursalID != nil {
		updates["sucursal_id"] = *sucursalID
	}
	return tx.Model(&model.Compra{}).Where("id = ?", id).Updates(updates).Error
}

func (r *compraRepo) List(ctx context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error) {
	var compras []model.Compra
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Compra{})
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Detalles.Producto").Preload("Entidad").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&compras).Error
	return compras, total, err
}
