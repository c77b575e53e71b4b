package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("store: not found")
	ErrDuplicateNickname = errors.New("store: nickname already taken")
)

// PlayerRecord is a registered player. TotalScore accumulates across games.
type PlayerRecord struct {
	ID         int    `gorm:"primaryKey" json:"player_id"`
	Nickname   string `gorm:"uniqueIndex;size:100" json:"nickname"`
	TotalScore int    `json:"total_score"`
}

// GameRecord is one finished (or abandoned) game.
type GameRecord struct {
	ID        int       `gorm:"primaryKey" json:"game_id"`
	RoomCode  string    `gorm:"size:16" json:"room_code"`
	Finished  bool      `json:"finished"`
	WinnerID  int       `json:"winner_id"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// PlayerToken maps an opaque connection token to a player.
type PlayerToken struct {
	Value    string `gorm:"primaryKey;size:64"`
	PlayerID int    `gorm:"index"`
}

// Store is the narrow persistence surface the core consumes: resolve a
// nickname or token to a stable player identity, and persist final results.
type Store interface {
	CreatePlayer(ctx context.Context, nickname string) (PlayerRecord, error)
	FindPlayer(ctx context.Context, nickname string) (PlayerRecord, error)
	IssueToken(ctx context.Context, playerID int) (string, error)
	ResolveToken(ctx context.Context, token string) (PlayerRecord, error)
	RecordResult(ctx context.Context, roomCode string, winnerID int, scores map[int]int) error
	ListGames(ctx context.Context) ([]GameRecord, error)
}

func newToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
