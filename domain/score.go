package domain

import "time"

// ScoreRecord is one completed interview+resume pairing. Records are
// append-only and never mutated after creation.
type ScoreRecord struct {
	ID                  uint      `gorm:"primaryKey" json:"-"`
	UserID              string    `gorm:"size:255;not null;index" json:"-"`
	JobRole             string    `gorm:"size:255;not null" json:"jobRole"`
	CorrectAnswers      int       `gorm:"not null" json:"correctAnswers"`
	ResumeAnalysisScore int       `gorm:"not null" json:"resumeAnalysisScore"`
	CreatedAt           time.Time `json:"-"`
}
