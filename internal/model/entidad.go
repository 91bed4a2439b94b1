package model

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de entidad externa. Una misma tabla guarda clientes y proveedores;
// la cuenta corriente (account_movements) referencia a ambos por igual.
const (
	EntidadCliente   = "cliente"
	EntidadProveedor = "proveedor"
)

// Entidad representa un tercero con cuenta corriente: cliente o proveedor.
type Entidad struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RazonSocial string    `gorm:"index;not null"`
	CUIT        *string   `gorm:"uniqueIndex"`
	Tipo        string    `gorm:"not null;index"` // "cliente" | "proveedor"
	Telefono    *string
	Email       *string
	Direccion   *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Entidad) TableName() string { return "entities" }
