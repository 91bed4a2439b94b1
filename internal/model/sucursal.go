package model

import (
	"time"

	"github.com/google/uuid"
)

// Sucursal es un depósito o punto de venta físico. El stock siempre se
// contabiliza por sucursal.
type Sucursal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Direccion *string
	Telefono  *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Sucursal) TableName() string { return "storage" }
