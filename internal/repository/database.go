package repository

import (
	"fmt"

	"github.com/aisyah-bit/studyally-backend/internal/config"
	"github.com/aisyah-bit/studyally-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB(cfg config.Database) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.Port,
		cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.Group{},
		&models.GroupMembership{},
		&models.ChatChannel{},
		&models.ChatMessage{},
		&models.Profile{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
