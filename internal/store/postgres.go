package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Postgres is the gorm-backed Store.
type Postgres struct {
	db *gorm.DB
}

func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.AutoMigrate(&PlayerRecord{}, &GameRecord{}, &PlayerToken{}); err != nil {
		return nil, fmt.Errorf("migrating: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) CreatePlayer(ctx context.Context, nickname string) (PlayerRecord, error) {
	rec := PlayerRecord{Nickname: nickname}
	err := p.db.WithContext(ctx).Create(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return PlayerRecord{}, ErrDuplicateNickname
		}
		return PlayerRecord{}, err
	}
	return rec, nil
}

func (p *Postgres) FindPlayer(ctx context.Context, nickname string) (PlayerRecord, error) {
	var rec PlayerRecord
	err := p.db.WithContext(ctx).Where("nickname = ?", nickname).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PlayerRecord{}, ErrNotFound
	}
	return rec, err
}

func (p *Postgres) IssueToken(ctx context.Context, playerID int) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	if err := p.db.WithContext(ctx).Create(&PlayerToken{Value: token, PlayerID: playerID}).Error; err != nil {
		return "", err
	}
	return token, nil
}

func (p *Postgres) ResolveToken(ctx context.Context, token string) (PlayerRecord, error) {
	var t PlayerToken
	err := p.db.WithContext(ctx).Where("value = ?", token).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PlayerRecord{}, ErrNotFound
	}
	if err != nil {
		return PlayerRecord{}, err
	}
	var rec PlayerRecord
	err = p.db.WithContext(ctx).First(&rec, t.PlayerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PlayerRecord{}, ErrNotFound
	}
	return rec, err
}

// RecordResult writes the finished game and folds each player's score into
// their running total, in one transaction.
func (p *Postgres) RecordResult(ctx context.Context, roomCode string, winnerID int, scores map[int]int) error {
	now := time.Now().UTC()
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := GameRecord{RoomCode: roomCode, Finished: true, WinnerID: winnerID, StartedAt: now, EndedAt: now}
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		for playerID, score := range scores {
			err := tx.Model(&PlayerRecord{}).
				Where("id = ?", playerID).
				UpdateColumn("total_score", gorm.Expr("total_score + ?", score)).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *Postgres) ListGames(ctx context.Context) ([]GameRecord, error) {
	var recs []GameRecord
	err := p.db.WithContext(ctx).Where("finished = ?", true).Order("id desc").Find(&recs).Error
	return recs, err
}
