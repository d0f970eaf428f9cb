package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// addFacetIndexes indexes the columns the catalog builds facets from, so
// ad-hoc reporting queries (counts per language, per subject) stay cheap.
// Search itself runs in memory over the full table.
func addFacetIndexes() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "002_add_facet_indexes",
		Migrate: func(tx *gorm.DB) error {
			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_resources_author ON resources(lower(author));",
				"CREATE INDEX IF NOT EXISTS idx_resources_subject ON resources(lower(subject));",
				"CREATE INDEX IF NOT EXISTS idx_resources_language ON resources(language);",
				"CREATE INDEX IF NOT EXISTS idx_resources_document_type ON resources(document_type);",
				"CREATE INDEX IF NOT EXISTS idx_resources_tags ON resources USING GIN (tags);",
			}

			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			for _, name := range []string{
				"idx_resources_author", "idx_resources_subject", "idx_resources_language",
				"idx_resources_document_type", "idx_resources_tags",
			} {
				_ = tx.Exec("DROP INDEX IF EXISTS " + name).Error
			}
			return nil
		},
	}
}
