// Package store persists finished games and the word list in postgres. The
// session core only ever calls Record, best-effort; everything else serves
// the peripheral score/history API.
package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/parlorgames/parlor-backend/internal/types"
)

type Word struct {
	ID   uint   `gorm:"primaryKey" json:"-"`
	Text string `gorm:"uniqueIndex" json:"word"`
}

type HangmanResult struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	GuesserName   string    `json:"guesser_name"`
	SetterName    string    `json:"setter_name"`
	Word          string    `json:"word"`
	Won           bool      `json:"won"`
	WrongAttempts int       `json:"wrong_attempts"`
	Round         int       `json:"round"`
	CreatedAt     time.Time `json:"created_at"`
}

type SpeedResult struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	WinnerName string    `json:"winner_name"`
	LoserName  string    `json:"loser_name"`
	Remaining  int       `json:"remaining"`
	CreatedAt  time.Time `json:"created_at"`
}

type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open connects and migrates. The server runs without a store when no DSN is
// configured; callers handle a nil *Store themselves.
func Open(dsn string, log *zap.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&Word{}, &HangmanResult{}, &SpeedResult{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// Record implements session.Recorder.
func (s *Store) Record(ctx context.Context, o types.Outcome) error {
	switch o.Game {
	case "hangman":
		res := HangmanResult{
			GuesserName:   o.GuesserName,
			SetterName:    o.SetterName,
			Word:          o.Word,
			Won:           o.Won,
			WrongAttempts: o.WrongCount,
			Round:         o.Round,
		}
		return s.db.WithContext(ctx).Create(&res).Error
	case "speed":
		res := SpeedResult{
			WinnerName: o.WinnerName,
			LoserName:  o.LoserName,
			Remaining:  o.Remaining,
		}
		return s.db.WithContext(ctx).Create(&res).Error
	default:
		return fmt.Errorf("unknown game %q", o.Game)
	}
}

// RandomWord implements session.WordSource.
func (s *Store) RandomWord(ctx context.Context) (string, error) {
	var w Word
	if err := s.db.WithContext(ctx).Order("RANDOM()").Take(&w).Error; err != nil {
		return "", fmt.Errorf("random word: %w", err)
	}
	return w.Text, nil
}

// SeedWords inserts the sample word list once; reruns are no-ops. Returns the
// number of words inserted.
func (s *Store) SeedWords(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Word{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	words := make([]Word, len(sampleWords))
	for i, w := range sampleWords {
		words[i] = Word{Text: w}
	}
	if err := s.db.WithContext(ctx).Create(&words).Error; err != nil {
		return 0, fmt.Errorf("seed words: %w", err)
	}
	s.log.Info("seeded word list", zap.Int("count", len(words)))
	return len(words), nil
}

// HangmanScores lists every recorded hangman round, newest first.
func (s *Store) HangmanScores(ctx context.Context) ([]HangmanResult, error) {
	var out []HangmanResult
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

// SpeedHistory lists speed games a player took part in, newest first.
func (s *Store) SpeedHistory(ctx context.Context, name string) ([]SpeedResult, error) {
	var out []SpeedResult
	err := s.db.WithContext(ctx).
		Where("winner_name = ? OR loser_name = ?", name, name).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

var sampleWords = []string{
	"javascript", "python", "computer", "programming", "hangman",
	"database", "algorithm", "function", "variable", "keyboard",
	"monitor", "internet", "software", "hardware", "technology",
	"application", "development", "framework", "library", "server",
	"client", "network", "security", "encryption", "password",
	"debugging", "compiler", "syntax", "runtime", "terminal",
}
