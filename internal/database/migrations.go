package database

import (
	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// The whole fleet lives in one JSON document per snapshot name
	return db.AutoMigrate(&models.Snapshot{})
}
