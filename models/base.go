// Package models persists swap orders to a local sqlite ledger.
package models

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// Init opens the ledger database at path and migrates the schema.
func Init(path string) error {
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to open orders db %s: %w", path, err)
	}
	db = conn

	if err := db.AutoMigrate(&SwapOrder{}); err != nil {
		return fmt.Errorf("failed to migrate orders db: %w", err)
	}
	return nil
}

// GetDB for other methods
func GetDB() *gorm.DB {
	return db
}

// BaseModel for other models
type BaseModel struct {
	gorm.Model
}

// GetID to find id
func (base *BaseModel) GetID() uint { return base.ID }
