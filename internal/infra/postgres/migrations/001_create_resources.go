package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createResourcesTable creates the resources table with its lookup indexes.
func createResourcesTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_resources",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS resources (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					provider_id VARCHAR(50) NOT NULL,
					external_id VARCHAR(100) NOT NULL,

					-- Descriptive metadata
					title VARCHAR(500) NOT NULL,
					type VARCHAR(20) NOT NULL,
					author VARCHAR(255),
					description TEXT,
					subject VARCHAR(255),
					year INTEGER DEFAULT 0,
					language VARCHAR(50),
					document_type VARCHAR(50),
					country_code VARCHAR(5),
					tags TEXT[],

					-- Type specific
					duration VARCHAR(20),
					pages INTEGER DEFAULT 0,
					thumbnail TEXT,
					url TEXT,

					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

					CONSTRAINT uq_resources_provider_external UNIQUE (provider_id, external_id)
				);
			`).Error
			if err != nil {
				return err
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_resources_type ON resources(type);",
				"CREATE INDEX IF NOT EXISTS idx_resources_year ON resources(year DESC);",
				"CREATE INDEX IF NOT EXISTS idx_resources_provider_id ON resources(provider_id);",
			}

			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS resources;").Error
		},
	}
}
