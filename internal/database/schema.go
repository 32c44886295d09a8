package database

import (
	"github.com/matthieukhl/orders/internal/models"
)

// Migrate creates or updates the orders and items tables
func (db *DB) Migrate() error {
	return db.AutoMigrate(&models.Order{}, &models.Item{})
}

// CleanupData removes all orders and items (but keeps schema)
func (db *DB) CleanupData() error {
	queries := []string{
		"DELETE FROM items",
		"DELETE FROM orders",
	}

	for _, query := range queries {
		if err := db.Exec(query).Error; err != nil {
			return err
		}
	}

	return nil
}

// DropSchema removes the orders and items tables, children first
func (db *DB) DropSchema() error {
	return db.Migrator().DropTable(&models.Item{}, &models.Order{})
}
