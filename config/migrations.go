package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"novasphere.in/promat/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "10072026_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Project{}, &models.MaterialCategory{},
					&models.Material{}, &models.Supplier{}, &models.Requirement{})
			},
		},
		{
			ID: "10072026_create_rating_and_alert_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.SupplierRating{}, &models.AlertLog{}, &models.Notification{})
			},
		},
		{
			// One live rating per requirement. Soft-deleted rows are kept
			// for audit, so the uniqueness only covers rows that are not
			// deleted; AutoMigrate cannot express a partial index.
			ID: "10072026_unique_live_rating_per_requirement",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uniq_live_rating_per_requirement
					ON supplier_ratings (requirement_id) WHERE deleted_at IS NULL`).Error
			},
		},
	})
	return m.Migrate()
}
