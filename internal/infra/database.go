package infra

import (
	"github.com/EnmerSandoval/gasolinera/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and configures the
// pool. Schema migration is a separate step run by the composition root.
// The process is the single writer against this database; all consistency
// rules are enforced with transactional writes and guarded UPDATE
// statements, not with cross-request locks.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
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

	return db, nil
}

// RunMigrations creates/updates all tables. Order matters only for the
// foreign keys GORM derives from the struct references.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Empresa{},
		&model.Sucursal{},
		&model.Usuario{},
		&model.TipoCombustible{},
		&model.Tanque{},
		&model.Bomba{},
		&model.Manguera{},
		&model.PrecioCombustible{},
		&model.Producto{},
		&model.InventarioProducto{},
		&model.Proveedor{},
		&model.Cliente{},
		&model.Vale{},
		&model.Turno{},
		&model.Venta{},
		&model.VentaCombustible{},
		&model.VentaProducto{},
		&model.Compra{},
		&model.CompraDetalle{},
		&model.MovimientoCombustible{},
		&model.CorteDiario{},
	)
}
