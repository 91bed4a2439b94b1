package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock holds the aggregate on-hand quantity of a product at one branch.
// It is the sum of the product's variant rows at that branch and is kept
// in sync inside the same transaction as every variant mutation.
type Stock struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_producto_sucursal"`
	SucursalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_producto_sucursal"`
	Cantidad   int       `gorm:"not null;default:0;check:cantidad >= 0"`
	UpdatedAt  time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Sucursal *Sucursal `gorm:"foreignKey:SucursalID"`
}

func (Stock) TableName() string { return "warehouse_stock" }

// VarianteStock is the on-hand quantity of one product/size/color
// combination at one branch. CodigoVariante identifies the (product,
// size, color) combination system-wide; rows are zeroed, never deleted.
type VarianteStock struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID  `gorm:"type:uuid;not null;index"`
	SucursalID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_variante_codigo_sucursal"`
	TalleID    *uuid.UUID `gorm:"type:uuid"`
	ColorID    *uuid.UUID `gorm:"type:uuid"`
	Cantidad   int        `gorm:"not null;default:0;check:cantidad >= 0"`
	// CodigoVariante: "VAR" + producto %04d + color %03d + talle %03d.
	// Identifica la combinación producto/talle/color en todo el sistema;
	// la fila de stock es única por (codigo, sucursal).
	CodigoVariante string    `gorm:"uniqueIndex:idx_variante_codigo_sucursal;not null"`
	LastUpdated    time.Time `gorm:"autoUpdateTime"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Talle    *Talle    `gorm:"foreignKey:TalleID"`
	Color    *Color    `gorm:"foreignKey:ColorID"`
}

func (VarianteStock) TableName() string { return "warehouse_stock_variants" }

// MovimientoInventario registra cada cambio de stock de una variante.
// Se crea al recibir compras, vender, intercambiar o transferir.
// Tipo: "compra" | "venta" | "devolucion" | "entrega_cambio" |
// "transferencia_salida" | "transferencia_entrada" | "ajuste_manual" |
// "restore_anulacion"
type MovimientoInventario struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID     uuid.UUID `gorm:"type:uuid;not null;index"`
	SucursalID     uuid.UUID `gorm:"type:uuid;not null;index"`
	CodigoVariante string    `gorm:"index"`
	Tipo           string    `gorm:"not null"`
	Cantidad       int       `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior  int       `gorm:"not null"`
	StockNuevo     int       `gorm:"not null"`
	Motivo         string
	ReferenciaID   *uuid.UUID `gorm:"type:uuid"` // compra_id, venta_id o intercambio_id
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (MovimientoInventario) TableName() string { return "inventory_movements" }
