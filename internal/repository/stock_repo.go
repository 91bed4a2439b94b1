package repository

import (
	"context"
	"errors"

	"github.com/breightend/Mykonos-os-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStockNegativo is returned by the guarded quantity updates when the
// delta would drive a quantity below zero. The UPDATE carries the floor
// check in its WHERE clause, so the row is simply not matched.
var ErrStockNegativo = errors.New("la operación dejaría el stock en negativo")

type StockRepository interface {
	// Variantes
	CreateVariante(ctx context.Context, v *model.VarianteStock) error
	CreateVarianteTx(tx *gorm.DB, v *model.VarianteStock) error
	FindVariantePorCodigo(ctx context.Context, codigo string, sucursalID uuid.UUID) (*model.VarianteStock, error)

	// FindVariantePorCodigoTx locks the variant row for the duration of
	// the caller's transaction.
	FindVariantePorCodigoTx(tx *gorm.DB, codigo string, sucursalID uuid.UUID) (*model.VarianteStock, error)

	// FindOrCreateVarianteTx returns the (product, branch, size, color)
	// row, creating it with zero quantity when absent. Used by purchase
	// receipt and manual stocking.
	FindOrCreateVarianteTx(tx *gorm.DB, v *model.VarianteStock) (*model.VarianteStock, error)

	// AjustarVarianteTx applies delta to the variant quantity with a
	// floor-at-zero guard; ErrStockNegativo when the guard rejects it.
	AjustarVarianteTx(tx *gorm.DB, varianteID uuid.UUID, delta int) error

	// AjustarTotalTx keeps the aggregate warehouse_stock row in sync,
	// find-or-create semantics, same floor guard.
	AjustarTotalTx(tx *gorm.DB, productoID, sucursalID uuid.UUID, delta int) error

	ListVariantesPorProducto(ctx context.Context, productoID uuid.UUID) ([]model.VarianteStock, error)
	ListVariantesPorSucursal(ctx context.Context, sucursalID uuid.UUID) ([]model.VarianteStock, error)

	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) DB() *gorm.DB { return r.db }

func (r *stockRepo) CreateVariante(ctx context.Context, v *model.VarianteStock) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *stockRepo) CreateVarianteTx(tx *gorm.DB, v *model.VarianteStock) error {
	return tx.Create(v).Error
}

func (r *stockRepo) FindVariantePorCodigo(ctx context.Context, codigo string, sucursalID uuid.UUID) (*model.VarianteStock, error) {
	var v model.VarianteStock
	err := r.db.WithContext(ctx).
		Preload("Producto").Preload("Talle").Preload("Color").
		Where("codigo_variante = ? AND sucursal_id = ?", codigo, sucursalID).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *stockRepo) FindVariantePorCodigoTx(tx *gorm.DB, codigo string, sucursalID uuid.UUID) (*model.VarianteStock, error) {
	var v model.VarianteStock
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("codigo_variante = ? AND sucursal_id = ?", codigo, sucursalID).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	// Preload does not combine with FOR UPDATE on joined rows; fetch the
	// product separately, it is read-only here.
	var p model.Producto
	if err := tx.First(&p, "id = ?", v.ProductoID).Error; err != nil {
		return nil, err
	}
	v.Producto = &p
	return &v, nil
}

func (r *stockRepo) FindOrCreateVarianteTx(tx *gorm.DB, v *model.VarianteStock) (*model.VarianteStock, error) {
	var existing model.VarianteStock
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("codigo_variante = ? AND sucursal_id = ?", v.CodigoVariante, v.SucursalID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := tx.Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

func (r *stockRepo) AjustarVarianteTx(tx *gorm.DB, varianteID uuid.UUID, delta int) error {
	res := tx.Model(&model.VarianteStock{}).
		Where("id = ? AND cantidad + ? >= 0", varianteID, delta).
		Update("cantidad", gorm.Expr("cantidad + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockNegativo
	}
	return nil
}

func (r *stockRepo) AjustarTotalTx(tx *gorm.DB, productoID, sucursalID uuid.UUID, delta int) error {
	res := tx.Model(&model.Stock{}).
		Where("producto_id = ? AND sucursal_id = ? AND cantidad + ? >= 0", productoID, sucursalID, delta).
		Update("cantidad", gorm.Expr("cantidad + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// No aggregate row yet: create it, only valid for positive deltas.
	if delta < 0 {
		return ErrStockNegativo
	}
	return tx.Create(&model.Stock{
		ProductoID: productoID,
		SucursalID: sucursalID,
		Cantidad:   delta,
	}).Error
}

func (r *stockRepo) ListVariantesPorProducto(ctx context.Context, productoID uuid.UUID) ([]model.VarianteStock, error) {
	var variantes []model.VarianteStock
	err := r.db.WithContext(ctx).
		Preload("Talle").Preload("Color").
		Where("producto_id = ?", productoID).
		Order("codigo_variante ASC").
		Find(&variantes).Error
	return variantes, err
}

func (r *stockRepo) ListVariantesPorSucursal(ctx context.Context, sucursalID uuid.UUID) ([]model.VarianteStock, error) {
	var variantes []model.VarianteStock
	err := r.db.WithContext(ctx).
		Preload("Producto").Preload("Talle").Preload("Color").
		Where("sucursal_id = ?", sucursalID).
		Order("codigo_variante ASC").
		Find(&variantes).Error
	return variantes, err
}
