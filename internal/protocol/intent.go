package protocol

import (
	"fmt"
	"math"

	"github.com/virusthegame/backend/internal/engine"
)

// CardPlayIntent validates a card_play payload's fields and shapes it into a
// typed intent. Field vocabulary: action, card_id, target_id, target_stack,
// player_stack, virus_cards, player_stacks, target_stacks, target_players,
// and one of discard_cards_ids/discard_cards/cards for discards. Card
// references are resolved later, by the owning player.
func CardPlayIntent(data map[string]any) (engine.Intent, error) {
	action, ok := data["action"].(string)
	if !ok || action == "" {
		return engine.Intent{}, fmt.Errorf("%w: missing/invalid 'action' in card_play data", ErrProtocol)
	}
	in := engine.Intent{Action: action}

	switch action {
	case "attack":
		var err error
		if in.CardID, err = requireInt(data, "card_id"); err != nil {
			return engine.Intent{}, err
		}
		if in.TargetPlayer, err = requireInt(data, "target_id"); err != nil {
			return engine.Intent{}, err
		}
		if in.TargetStack, err = requireInt(data, "target_stack"); err != nil {
			return engine.Intent{}, err
		}
		return in, nil

	case "heal", "vaccinate":
		var err error
		if in.CardID, err = requireInt(data, "card_id"); err != nil {
			return engine.Intent{}, err
		}
		// Target stack arrives as target_stack or, from older clients,
		// target_id.
		if in.TargetStack, err = optionalInt(data, "target_stack"); err != nil {
			return engine.Intent{}, err
		}
		if in.TargetStack == 0 {
			if in.TargetStack, err = requireInt(data, "target_id"); err != nil {
				return engine.Intent{}, err
			}
		}
		return in, nil

	case "organ":
		var err error
		if in.CardID, err = requireInt(data, "card_id"); err != nil {
			return engine.Intent{}, err
		}
		return in, nil

	case "discard":
		for _, key := range []string{"discard_cards_ids", "discard_cards", "cards"} {
			ids, err := optionalIntList(data, key)
			if err != nil {
				return engine.Intent{}, err
			}
			if len(ids) > 0 {
				in.DiscardIDs = ids
				return in, nil
			}
		}
		return engine.Intent{}, fmt.Errorf(
			"%w: discard requires card ids in one of 'discard_cards_ids', 'discard_cards' or 'cards'", ErrProtocol)

	case "special":
		return specialIntent(data, in)

	default:
		return engine.Intent{}, fmt.Errorf("%w: unknown action %q", ErrProtocol, action)
	}
}

func specialIntent(data map[string]any, in engine.Intent) (engine.Intent, error) {
	var err error
	if in.CardID, err = requireInt(data, "card_id"); err != nil {
		return engine.Intent{}, err
	}

	if raw, present := data["card_type"]; present && raw != nil {
		kind, ok := raw.(string)
		if !ok {
			return engine.Intent{}, fmt.Errorf("%w: 'card_type' must be a string", ErrProtocol)
		}
		if kind == "thieft" { // legacy frontend spelling
			kind = string(engine.Theft)
		}
		in.CardType = kind
	}

	// Field requirements are only checkable here when the client named the
	// kind; otherwise the player boundary re-checks after inferring it from
	// the hand.
	switch engine.SpecialKind(in.CardType) {
	case engine.OrganSwap:
		if in.OwnStack, err = requireInt(data, "player_stack"); err != nil {
			return engine.Intent{}, err
		}
		if in.TargetPlayer, err = requireInt(data, "target_id"); err != nil {
			return engine.Intent{}, err
		}
		if in.TargetStack, err = requireInt(data, "target_stack"); err != nil {
			return engine.Intent{}, err
		}
		return in, nil

	case engine.Theft:
		if in.TargetPlayer, err = requireInt(data, "target_id"); err != nil {
			return engine.Intent{}, err
		}
		if in.TargetStack, err = requireInt(data, "target_stack"); err != nil {
			return engine.Intent{}, err
		}
		return in, nil

	case engine.BodySwap:
		if in.TargetPlayer, err = requireInt(data, "target_id"); err != nil {
			return engine.Intent{}, err
		}
		return in, nil

	case engine.LatexGlove:
		return in, nil

	case engine.Epidemy:
		if in.VirusCards, err = requireIntList(data, "virus_cards"); err != nil {
			return engine.Intent{}, err
		}
		if in.SourceStacks, err = requireIntList(data, "player_stacks"); err != nil {
			return engine.Intent{}, err
		}
		if in.TargetStacks, err = requireIntList(data, "target_stacks"); err != nil {
			return engine.Intent{}, err
		}
		if in.TargetPlayers, err = requireIntList(data, "target_players"); err != nil {
			return engine.Intent{}, err
		}
		n := len(in.VirusCards)
		if len(in.SourceStacks) != n || len(in.TargetStacks) != n || len(in.TargetPlayers) != n {
			return engine.Intent{}, fmt.Errorf(
				"%w: epidemy lists must have equal length: virus_cards/player_stacks/target_stacks/target_players", ErrProtocol)
		}
		return in, nil

	case engine.SpecialNone:
		// Kind inferred from hand later; carry any addressing fields given.
		if in.OwnStack, err = optionalInt(data, "player_stack"); err != nil {
			return engine.Intent{}, err
		}
		if in.TargetPlayer, err = optionalInt(data, "target_id"); err != nil {
			return engine.Intent{}, err
		}
		if in.TargetStack, err = optionalInt(data, "target_stack"); err != nil {
			return engine.Intent{}, err
		}
		if in.VirusCards, err = optionalIntList(data, "virus_cards"); err != nil {
			return engine.Intent{}, err
		}
		if in.SourceStacks, err = optionalIntList(data, "player_stacks"); err != nil {
			return engine.Intent{}, err
		}
		if in.TargetStacks, err = optionalIntList(data, "target_stacks"); err != nil {
			return engine.Intent{}, err
		}
		if in.TargetPlayers, err = optionalIntList(data, "target_players"); err != nil {
			return engine.Intent{}, err
		}
		return in, nil

	default:
		return engine.Intent{}, fmt.Errorf("%w: unknown special card_type %q", ErrProtocol, in.CardType)
	}
}

// asInt accepts JSON numbers that are whole; encoding/json delivers them as
// float64.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

func requireInt(data map[string]any, key string) (int, error) {
	raw, present := data[key]
	if !present || raw == nil {
		return 0, fmt.Errorf("%w: missing required field %q", ErrProtocol, key)
	}
	n, ok := asInt(raw)
	if !ok {
		return 0, fmt.Errorf("%w: field %q must be an integer", ErrProtocol, key)
	}
	return n, nil
}

func optionalInt(data map[string]any, key string) (int, error) {
	raw, present := data[key]
	if !present || raw == nil {
		return 0, nil
	}
	n, ok := asInt(raw)
	if !ok {
		return 0, fmt.Errorf("%w: field %q must be an integer", ErrProtocol, key)
	}
	return n, nil
}

func optionalIntList(data map[string]any, key string) ([]int, error) {
	raw, present := data[key]
	if !present || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: field %q must be a list of integers", ErrProtocol, key)
	}
	out := make([]int, 0, len(list))
	for _, item := range list {
		n, ok := asInt(item)
		if !ok {
			return nil, fmt.Errorf("%w: field %q must be a list of integers", ErrProtocol, key)
		}
		out = append(out, n)
	}
	return out, nil
}

func requireIntList(data map[string]any, key string) ([]int, error) {
	out, err := optionalIntList(data, key)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: field %q must be a non-empty list of integers", ErrProtocol, key)
	}
	return out, nil
}
