package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virusthegame/backend/internal/engine"
)

func TestCardPlayIntentAttack(t *testing.T) {
	in, err := CardPlayIntent(map[string]any{
		"action": "attack", "card_id": float64(4), "target_id": float64(2), "target_stack": float64(9),
	})
	require.NoError(t, err)
	assert.Equal(t, engine.Intent{Action: "attack", CardID: 4, TargetPlayer: 2, TargetStack: 9}, in)
}

func TestCardPlayIntentHealAliases(t *testing.T) {
	// vaccinate is a synonym, and target_id is the legacy stack field.
	in, err := CardPlayIntent(map[string]any{
		"action": "vaccinate", "card_id": float64(5), "target_id": float64(11),
	})
	require.NoError(t, err)
	assert.Equal(t, "vaccinate", in.Action)
	assert.Equal(t, 11, in.TargetStack)

	in, err = CardPlayIntent(map[string]any{
		"action": "heal", "card_id": float64(5), "target_stack": float64(12),
	})
	require.NoError(t, err)
	assert.Equal(t, 12, in.TargetStack)
}

func TestCardPlayIntentDiscardKeys(t *testing.T) {
	for _, key := range []string{"discard_cards_ids", "discard_cards", "cards"} {
		in, err := CardPlayIntent(map[string]any{
			"action": "discard", key: []any{float64(1), float64(2)},
		})
		require.NoError(t, err, key)
		assert.Equal(t, []int{1, 2}, in.DiscardIDs, key)
	}

	_, err := CardPlayIntent(map[string]any{"action": "discard"})
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestCardPlayIntentSpecial(t *testing.T) {
	cases := []struct {
		name string
		data map[string]any
		want engine.Intent
	}{
		{
			name: "organ swap",
			data: map[string]any{
				"action": "special", "card_id": float64(3), "card_type": "organ swap",
				"player_stack": float64(1), "target_id": float64(2), "target_stack": float64(7),
			},
			want: engine.Intent{Action: "special", CardID: 3, CardType: "organ swap", OwnStack: 1, TargetPlayer: 2, TargetStack: 7},
		},
		{
			name: "legacy thieft spelling",
			data: map[string]any{
				"action": "special", "card_id": float64(3), "card_type": "thieft",
				"target_id": float64(2), "target_stack": float64(7),
			},
			want: engine.Intent{Action: "special", CardID: 3, CardType: "theft", TargetPlayer: 2, TargetStack: 7},
		},
		{
			name: "latex glove needs nothing else",
			data: map[string]any{"action": "special", "card_id": float64(3), "card_type": "latex glove"},
			want: engine.Intent{Action: "special", CardID: 3, CardType: "latex glove"},
		},
		{
			name: "kind omitted carries addressing fields",
			data: map[string]any{"action": "special", "card_id": float64(3), "target_id": float64(2)},
			want: engine.Intent{Action: "special", CardID: 3, TargetPlayer: 2},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in, err := CardPlayIntent(tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.want, in)
		})
	}
}

func TestCardPlayIntentEpidemy(t *testing.T) {
	in, err := CardPlayIntent(map[string]any{
		"action": "special", "card_id": float64(3), "card_type": "epidemy",
		"virus_cards":    []any{float64(10), float64(11)},
		"player_stacks":  []any{float64(1), float64(2)},
		"target_stacks":  []any{float64(5), float64(6)},
		"target_players": []any{float64(2), float64(3)},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11}, in.VirusCards)
	assert.Equal(t, []int{1, 2}, in.SourceStacks)
	assert.Equal(t, []int{5, 6}, in.TargetStacks)
	assert.Equal(t, []int{2, 3}, in.TargetPlayers)

	// Mismatched list lengths are rejected at the boundary.
	_, err = CardPlayIntent(map[string]any{
		"action": "special", "card_id": float64(3), "card_type": "epidemy",
		"virus_cards":    []any{float64(10)},
		"player_stacks":  []any{float64(1), float64(2)},
		"target_stacks":  []any{float64(5)},
		"target_players": []any{float64(2)},
	})
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestCardPlayIntentRejections(t *testing.T) {
	cases := []struct {
		name string
		data map[string]any
	}{
		{name: "missing action", data: map[string]any{"card_id": float64(1)}},
		{name: "unknown action", data: map[string]any{"action": "banana"}},
		{name: "attack without target", data: map[string]any{"action": "attack", "card_id": float64(1)}},
		{name: "fractional card id", data: map[string]any{"action": "organ", "card_id": 1.5}},
		{name: "card id wrong type", data: map[string]any{"action": "organ", "card_id": "7"}},
		{name: "unknown special kind", data: map[string]any{"action": "special", "card_id": float64(1), "card_type": "wildcard"}},
		{name: "organ swap missing own stack", data: map[string]any{
			"action": "special", "card_id": float64(1), "card_type": "organ swap",
			"target_id": float64(2), "target_stack": float64(3),
		}},
		{name: "discard list wrong type", data: map[string]any{"action": "discard", "cards": []any{"a"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CardPlayIntent(tc.data)
			assert.ErrorIs(t, err, ErrProtocol)
		})
	}
}
