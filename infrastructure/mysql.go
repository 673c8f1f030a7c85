package infrastructure

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"resume-coach/domain"
)

func NewMySQLConnection() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set in environment")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto migrate schema
	if err := db.AutoMigrate(&domain.ScoreRecord{}, &domain.ResumeAnalysis{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	log.Info("✅ Connected to MySQL and migrated schema")
	return db
}

// Store implements domain.ScoreStore on MySQL and holds the async-analysis
// rows next to it.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AppendScore writes one record; gorm's Create is a single INSERT, so the
// append is atomic per record.
func (s *Store) AppendScore(ctx context.Context, rec *domain.ScoreRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// ListScoresByUser returns the user's records newest first. Ordering by
// created_at DESC, id DESC keeps the order stable for records created within
// the same second; the dashboard renders this order as-is.
func (s *Store) ListScoresByUser(ctx context.Context, userID string) ([]domain.ScoreRecord, error) {
	var records []domain.ScoreRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return records, nil
}

// CreateAnalysis inserts a queued analysis row.
func (s *Store) CreateAnalysis(ctx context.Context, userID string) (*domain.ResumeAnalysis, error) {
	analysis := &domain.ResumeAnalysis{UserID: userID, Status: domain.AnalysisQueued}
	if err := s.db.WithContext(ctx).Create(analysis).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return analysis, nil
}

// GetAnalysis loads one analysis row owned by the user.
func (s *Store) GetAnalysis(ctx context.Context, id uint, userID string) (*domain.ResumeAnalysis, error) {
	var analysis domain.ResumeAnalysis
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&analysis).Error
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

// UpdateAnalysisStatus flips a row to processing/failed.
func (s *Store) UpdateAnalysisStatus(ctx context.Context, id uint, status, errMsg string) error {
	return s.db.WithContext(ctx).
		Model(&domain.ResumeAnalysis{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "error": errMsg}).Error
}

// CompleteAnalysis stores the finished report JSON.
func (s *Store) CompleteAnalysis(ctx context.Context, id uint, reportJSON string) error {
	return s.db.WithContext(ctx).
		Model(&domain.ResumeAnalysis{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      domain.AnalysisCompleted,
			"report_json": &reportJSON,
			"error":       "",
		}).Error
}
