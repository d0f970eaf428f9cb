// Package migrations holds the schema of the resources catalog.
package migrations

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var options = &gormigrate.Options{
	TableName:                 "catalog_migrations",
	IDColumnName:              "id",
	IDColumnSize:              255,
	UseTransaction:            true,
	ValidateUnknownMigrations: true,
}

// All lists the migrations in the order they apply.
func All() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		createResourcesTable(),
		addFacetIndexes(),
	}
}

// Run applies pending migrations inside a transaction each.
func Run(db *gorm.DB, logger *zap.Logger) error {
	all := All()
	if err := gormigrate.New(db, options, all).Migrate(); err != nil {
		return fmt.Errorf("migrating catalog schema: %w", err)
	}

	logger.Info("catalog schema up to date",
		zap.String("version", all[len(all)-1].ID),
	)
	return nil
}

// Rollback undoes the most recent migration.
func Rollback(db *gorm.DB, logger *zap.Logger) error {
	if err := gormigrate.New(db, options, All()).RollbackLast(); err != nil {
		return fmt.Errorf("rolling back catalog schema: %w", err)
	}

	logger.Warn("rolled back last catalog migration")
	return nil
}
