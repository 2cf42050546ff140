package database

import (
	"fmt"

	"github.com/yeremiapane/menu-api/models"
	"github.com/yeremiapane/menu-api/utils"
	"gorm.io/gorm"
)

// AutoMigrate creates the menu_items table, its category index and its CHECK
// constraints when they are missing. Existing rows are never rewritten.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.MenuItem{}); err != nil {
		return fmt.Errorf("auto migrate menu_items: %w", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
