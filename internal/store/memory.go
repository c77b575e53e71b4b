package store

import (
	"context"
	"sync"
	"time"
)

// Memory is the Store used when no database is configured, and by tests.
type Memory struct {
	mu      sync.Mutex
	players map[int]*PlayerRecord
	byName  map[string]int
	tokens  map[string]int
	games   []GameRecord
	nextID  int
}

func NewMemory() *Memory {
	return &Memory{
		players: make(map[int]*PlayerRecord),
		byName:  make(map[string]int),
		tokens:  make(map[string]int),
	}
}

func (m *Memory) CreatePlayer(_ context.Context, nickname string) (PlayerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[nickname]; ok {
		return PlayerRecord{}, ErrDuplicateNickname
	}
	m.nextID++
	rec := &PlayerRecord{ID: m.nextID, Nickname: nickname}
	m.players[rec.ID] = rec
	m.byName[nickname] = rec.ID
	return *rec, nil
}

func (m *Memory) FindPlayer(_ context.Context, nickname string) (PlayerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byName[nickname]
	if !ok {
		return PlayerRecord{}, ErrNotFound
	}
	return *m.players[id], nil
}

func (m *Memory) IssueToken(_ context.Context, playerID int) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = playerID
	return token, nil
}

func (m *Memory) ResolveToken(_ context.Context, token string) (PlayerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.tokens[token]
	if !ok {
		return PlayerRecord{}, ErrNotFound
	}
	rec, ok := m.players[id]
	if !ok {
		return PlayerRecord{}, ErrNotFound
	}
	return *rec, nil
}

func (m *Memory) RecordResult(_ context.Context, roomCode string, winnerID int, scores map[int]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	m.games = append(m.games, GameRecord{
		ID:        len(m.games) + 1,
		RoomCode:  roomCode,
		Finished:  true,
		WinnerID:  winnerID,
		StartedAt: now,
		EndedAt:   now,
	})
	for playerID, score := range scores {
		if rec, ok := m.players[playerID]; ok {
			rec.TotalScore += score
		}
	}
	return nil
}

func (m *Memory) ListGames(_ context.Context) ([]GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]GameRecord, len(m.games))
	copy(out, m.games)
	return out, nil
}
