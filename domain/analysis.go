package domain

import "time"

// Analysis statuses for the async resume scoring path.
const (
	AnalysisQueued     = "queued"
	AnalysisProcessing = "processing"
	AnalysisCompleted  = "completed"
	AnalysisFailed     = "failed"
)

// ResumeAnalysis backs the asynchronous analysis path: a row is created
// queued when the upload is accepted, a worker fills in the report (or the
// failure) later.
type ResumeAnalysis struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     string    `gorm:"size:255;not null;index"`
	Status     string    `gorm:"type:enum('queued','processing','completed','failed');default:'queued'"`
	ReportJSON *string   `gorm:"type:json"`
	Error      string    `gorm:"type:text"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
