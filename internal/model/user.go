package model

import (
	"time"
)

type UserRole string

const (
	Child  UserRole = "child"
	Parent UserRole = "parent"
	Admin  UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name       string   `gorm:"size:100;not null" json:"name"`
	Email      string   `gorm:"size:100;unique;not null" json:"email"`
	Password   string   `gorm:"size:100;not null" json:"-"`
	Role       UserRole `gorm:"type:enum('child','parent','admin');default:'child'" json:"role"`
	Grade      string   `gorm:"size:20" json:"grade"` // school level, e.g. CE1, CM2
	XP         int      `gorm:"default:0" json:"xp"`
	// EasyMode asks the tutor for shorter, single-action guidance steps.
	EasyMode  bool      `gorm:"default:false" json:"easyMode"`
	Language  string    `gorm:"size:10;default:'fr'" json:"language"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
