package repository

import (
	"github.com/aisyah-bit/studyally-backend/internal/models"
	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) FindByEmail(email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) FindByEmails(emails []string) (map[string]models.Profile, error) {
	if len(emails) == 0 {
		return map[string]models.Profile{}, nil
	}
	var profiles []models.Profile
	if err := r.db.Where("email IN ?", emails).Find(&profiles).Error; err != nil {
		return nil, err
	}
	out := make(map[string]models.Profile, len(profiles))
	for _, p := range profiles {
		out[p.Email] = p
	}
	return out, nil
}
