package infra

import (
	"fmt"
	"strings"

	"github.com/breightend/Mykonos-os-sub001/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection, runs AutoMigrate to create or
// update all tables, then applies idempotent SQL patches GORM cannot express
// (the sales numbering sequence, partial indexes).
//
// A postgres:// DSN selects the pgx driver; a sqlite:// DSN (or plain file
// path) selects the embedded dev database.
func NewDatabase(dsn string) (*gorm.DB, error) {
	dialector := openDialector(dsn)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

func openDialector(dsn string) gorm.Dialector {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.Open(dsn)
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
	default:
		return sqlite.Open(dsn)
	}
}

// RunMigrations creates the schema. Also used by integration tests against
// a fresh container database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Entidad{},
		&model.Usuario{},
		&model.Sucursal{},
		&model.Producto{},
		&model.Talle{},
		&model.Color{},
		&model.Stock{},
		&model.VarianteStock{},
		&model.MovimientoInventario{},
		&model.MovimientoCuenta{},
		&model.Compra{},
		&model.CompraDetalle{},
		&model.Venta{},
		&model.VentaDetalle{},
		&model.Intercambio{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Every statement is guarded so re-running on a patched schema is a no-op.
// SQLite dev mode skips them: sales numbering there falls back to
// MAX(numero)+1 and the covering indexes already exist via AutoMigrate.
func applySchemaPatches(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	patches := []struct{ descr, sql string }{
		// Atomic sales ticket numbering, consumed via nextval() inside
		// the sale transaction.
		{"create sales numbering sequence",
			`CREATE SEQUENCE IF NOT EXISTS sales_numero_seq START 1`},

		// The tail read of the ledger orders by seq under FOR UPDATE;
		// this index keeps that lookup on the index path.
		{"create account_movements tail index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimientos_entidad_tail') THEN
    CREATE INDEX idx_movimientos_entidad_tail
        ON account_movements (entidad_id, seq DESC);
  END IF;
END $$`},

		// Pending purchases drive the receiving screen; partial index
		// keeps the common filter cheap.
		{"create pending purchases partial index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_purchases_pendientes') THEN
    CREATE INDEX idx_purchases_pendientes
        ON purchases (created_at)
        WHERE estado = 'Pendiente de entrega';
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
