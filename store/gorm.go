package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pongarena/pongarena/game"
)

// User is the directory row the engine updates counters and presence on.
type User struct {
	UserID    string `gorm:"primaryKey"`
	Nickname  string `gorm:"uniqueIndex;not null"`
	WinCount  int    `gorm:"not null;default:0"`
	LossCount int    `gorm:"not null;default:0"`
	Online    bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchLog is one completed non-tournament match.
type MatchLog struct {
	ID           uint `gorm:"primaryKey"`
	StartedAt    time.Time
	EndedAt      time.Time
	Player1ID    string `gorm:"index;not null"`
	Player2ID    string `gorm:"index;not null"`
	Player1Score int
	Player2Score int
}

// TournamentLog is one completed bracket round.
type TournamentLog struct {
	ID             uint   `gorm:"primaryKey"`
	TournamentName string `gorm:"index;not null"`
	Round          int    `gorm:"not null"`
	IsFinal        bool   `gorm:"not null"`
	StartedAt      time.Time
	EndedAt        time.Time
	Player1ID      string `gorm:"index;not null"`
	Player2ID      string `gorm:"index;not null"`
	Player1Score   int
	Player2Score   int
}

// GormStore persists to Postgres through GORM.
type GormStore struct {
	db *gorm.DB
}

// OpenGorm connects to Postgres and migrates the schema.
func OpenGorm(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	if err := db.AutoMigrate(&User{}, &MatchLog{}, &TournamentLog{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// NewGormStore wraps an existing DB handle (tests inject sqlite or mocks).
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) SetPresence(ctx context.Context, userID string, online bool) error {
	return s.db.WithContext(ctx).
		Model(&User{}).
		Where("user_id = ?", userID).
		Update("online", online).Error
}

func (s *GormStore) SaveMatch(ctx context.Context, result game.MatchResult) error {
	log := MatchLog{
		StartedAt:    result.StartedAt,
		EndedAt:      result.EndedAt,
		Player1ID:    result.Player1ID,
		Player2ID:    result.Player2ID,
		Player1Score: result.Score1,
		Player2Score: result.Score2,
	}
	return s.db.WithContext(ctx).Create(&log).Error
}

func (s *GormStore) SaveTournamentMatch(ctx context.Context, result game.TournamentResult) error {
	log := TournamentLog{
		TournamentName: result.TournamentName,
		Round:          result.Round,
		IsFinal:        result.IsFinal,
		StartedAt:      result.StartedAt,
		EndedAt:        result.EndedAt,
		Player1ID:      result.Player1ID,
		Player2ID:      result.Player2ID,
		Player1Score:   result.Score1,
		Player2Score:   result.Score2,
	}
	return s.db.WithContext(ctx).Create(&log).Error
}

func (s *GormStore) RecordOutcome(ctx context.Context, winnerID, loserID string) error {
	if winnerID == "" || loserID == "" || winnerID == loserID {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&User{}).
			Where("user_id = ?", winnerID).
			Update("win_count", gorm.Expr("win_count + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&User{}).
			Where("user_id = ?", loserID).
			Update("loss_count", gorm.Expr("loss_count + 1")).Error
	})
}

func (s *GormStore) TournamentNameUsed(ctx context.Context, name string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&TournamentLog{}).
		Where("tournament_name = ?", name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
