package model

import (
	"time"
)

// Subject is the coarse classification of a question, used to scope
// conversation history. Recomputed from question text, never stored alone.
type Subject string

const (
	SubjectArithmetic Subject = "arithmetic"
	SubjectGeometry   Subject = "geometry"
	SubjectGrammar    Subject = "grammar"
	SubjectHistory    Subject = "history"
	SubjectGeography  Subject = "geography"
	SubjectScience    Subject = "science"
	SubjectGeneral    Subject = "general"
)

// Conversation stores one tutoring exchange: the child's question and the
// guidance the assistant produced. Append-only; read back for same-subject
// continuity and by the admin console.
type Conversation struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint      `gorm:"index" json:"userId"`
	SessionID     string    `gorm:"size:50;index" json:"sessionId"`
	Question      string    `gorm:"type:text;not null" json:"question"`
	Hint          string    `gorm:"type:text;not null" json:"hint"`
	Encouragement string    `gorm:"size:255" json:"encouragement"`
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`
}

func (Conversation) TableName() string {
	return "conversations"
}
