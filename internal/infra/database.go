package infra

import (
	"fmt"

	"github.com/KenthE710/antonella-management-server/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (check constraints, partial indexes).
func NewDatabase(dsn string, debug bool) (*gorm.DB, error) {
	logMode := logger.Silent
	if debug {
		logMode = logger.Warn
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
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

// RunMigrations creates the schema. Integration tests call it directly on a
// container database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.ProductoTipo{},
		&model.ProductoMarca{},
		&model.Producto{},
		&model.Lote{},
		&model.Cliente{},
		&model.Personal{},
		&model.Servicio{},
		&model.ServicioRealizado{},
		&model.ServicioRealizadoProducto{},
		&model.Parametro{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// handle on its own. Each statement is guarded so re-running on an already
// patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"lotes.cant positiva", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_lotes_cant_positiva') THEN
    ALTER TABLE lotes ADD CONSTRAINT chk_lotes_cant_positiva CHECK (cant > 0);
  END IF;
END $$`},
		{"productos.usos_est no negativo", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_productos_usos_est') THEN
    ALTER TABLE productos ADD CONSTRAINT chk_productos_usos_est CHECK (usos_est >= 0);
  END IF;
END $$`},
		{"consumos.cantidad positiva", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_consumos_cantidad_positiva') THEN
    ALTER TABLE servicios_realizados_productos
      ADD CONSTRAINT chk_consumos_cantidad_positiva CHECK (cantidad > 0);
  END IF;
END $$`},
		// the used-uses aggregate only reads active rows
		{"idx consumos activos por lote",
			`CREATE INDEX IF NOT EXISTS idx_consumos_lote_activos
			   ON servicios_realizados_productos (lote_id) INCLUDE (cantidad)
			   WHERE activo = true`},
		{"parametros.codigo unico entre activos",
			`CREATE UNIQUE INDEX IF NOT EXISTS uq_parametros_codigo_activo
			   ON parametros (codigo)
			   WHERE activo = true`},
		{"idx lotes elegibles",
			`CREATE INDEX IF NOT EXISTS idx_lotes_elegibles
			   ON lotes (fe_exp)
			   WHERE activo = true AND retirado = false`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
