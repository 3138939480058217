package repository

import (
	"github.com/meytoof/MentorAI-sub000/internal/model"

	"gorm.io/gorm"
)

type MotivationRepository struct {
	DB *gorm.DB
}

func NewMotivationRepository(db *gorm.DB) *MotivationRepository {
	return &MotivationRepository{DB: db}
}

func (r *MotivationRepository) FindCurrent() (*model.Motivation, error) {
	var m model.Motivation
	err := r.DB.Where("is_currently_used = ? AND is_enabled = ?", true, true).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SetCurrent marks one phrase as the active one, clearing the previous.
func (r *MotivationRepository) SetCurrent(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Motivation{}).
			Where("is_currently_used = ?", true).
			Update("is_currently_used", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.Motivation{}).
			Where("id = ? AND is_enabled = ?", id, true).
			Update("is_currently_used", true).Error
	})
}

func (r *MotivationRepository) List() ([]model.Motivation, error) {
	var ms []model.Motivation
	err := r.DB.Order("id ASC").Find(&ms).Error
	return ms, err
}
