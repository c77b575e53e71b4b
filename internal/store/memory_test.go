package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndFindPlayer(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	rec, err := m.CreatePlayer(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "ana", rec.Nickname)
	assert.NotZero(t, rec.ID)

	_, err = m.CreatePlayer(ctx, "ana")
	assert.ErrorIs(t, err, ErrDuplicateNickname)

	found, err := m.FindPlayer(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, found.ID)

	_, err = m.FindPlayer(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	rec, err := m.CreatePlayer(ctx, "ana")
	require.NoError(t, err)

	token, err := m.IssueToken(ctx, rec.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	resolved, err := m.ResolveToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, resolved.ID)

	_, err = m.ResolveToken(ctx, "bogus")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordResultAccumulatesScores(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	ana, err := m.CreatePlayer(ctx, "ana")
	require.NoError(t, err)
	bo, err := m.CreatePlayer(ctx, "bo")
	require.NoError(t, err)

	require.NoError(t, m.RecordResult(ctx, "ABC123", ana.ID, map[int]int{ana.ID: 14, bo.ID: 2}))
	require.NoError(t, m.RecordResult(ctx, "ABC123", bo.ID, map[int]int{ana.ID: 3, bo.ID: 13}))

	found, err := m.FindPlayer(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, 17, found.TotalScore)
	found, err = m.FindPlayer(ctx, "bo")
	require.NoError(t, err)
	assert.Equal(t, 15, found.TotalScore)

	games, err := m.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, ana.ID, games[0].WinnerID)
	assert.True(t, games[0].Finished)
	assert.Equal(t, "ABC123", games[1].RoomCode)
}

func TestRecordResultIgnoresUnknownPlayers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.RecordResult(ctx, "XYZ999", 42, map[int]int{42: 10}))
	games, err := m.ListGames(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 1)
}
