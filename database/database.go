package database

import (
	"github.com/Tharunkunamalla/CodeSync/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func Connect(path string) (*gorm.DB, error) {
	// Add charset=utf8 and proper encoding parameters to handle non-English characters
	dbPath := path + "?charset=utf8&parseTime=true"
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Execute PRAGMA to ensure UTF-8 encoding
	db.Exec("PRAGMA encoding = 'UTF-8'")

	return db, nil
}

func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(&models.Room{})
}
