package model

import (
	"time"

	"gorm.io/gorm"
)

// Checkin records one day of tutoring activity for the streak counter.
// swagger:model Checkin
type Checkin struct {
	gorm.Model
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"index:idx_user_checkin_date,unique;type:bigint unsigned;not null"`
	CheckinAt  time.Time `gorm:"not null;index:idx_user_checkin_date,unique"`
	StreakDays int       `gorm:"default:1"`
}

func (Checkin) TableName() string {
	return "checkins"
}
