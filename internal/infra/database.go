package infra

import (
	"fmt"

	"github.com/dary2133/Kathcake-finanzas--sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection over the postgres driver.
// Schema management lives in RunMigrations so callers decide when to run it.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Map driver errors to gorm sentinels so the repositories can match
		// gorm.ErrDuplicatedKey when the open-session race is lost.
		TranslateError: true,
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

	return db, nil
}

// RunMigrations creates / updates the schema. Also used by integration tests
// against throwaway containers.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Producto{},
		&model.Cuenta{},
		&model.SesionCaja{},
		&model.Venta{},
		&model.VentaItem{},
		&model.Movimiento{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Single-open-session invariant — two concurrent "abrir" calls cannot
		// both commit a row with estado='abierta'.
		{"partial unique index for open session", `
CREATE UNIQUE INDEX IF NOT EXISTS uq_sesiones_caja_abierta
    ON sesiones_caja (estado)
    WHERE estado = 'abierta'`},
		// Atomic invoice numbering (formatted FACT-<año>-<n> in the service).
		{"invoice number sequence",
			`CREATE SEQUENCE IF NOT EXISTS ventas_numero_factura_seq`},
		// The midnight-window fallback query scans ventas/movimientos by time.
		{"ventas created_at index",
			`CREATE INDEX IF NOT EXISTS idx_ventas_created_at ON ventas (created_at)`},
		{"movimientos fecha index",
			`CREATE INDEX IF NOT EXISTS idx_movimientos_fecha ON movimientos (fecha)`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("schema patch %q: %w", p.descr, err)
		}
	}
	return nil
}
