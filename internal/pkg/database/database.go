package database

import "gorm.io/gorm"

var DB *gorm.DB

// GetDB returns the shared database handle
func GetDB() *gorm.DB {
	return DB
}

// SetDB swaps the shared handle; used by tests to inject an in-memory DB
func SetDB(db *gorm.DB) {
	DB = db
}
