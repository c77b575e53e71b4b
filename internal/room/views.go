package room

import (
	"github.com/virusthegame/backend/internal/engine"
)

// Wire views for the host->player state envelopes. Special cards serialize
// with color "special" and their sentinel value.

func cardView(c engine.Card) map[string]any {
	color := string(c.Color)
	if c.IsSpecial() {
		color = "special"
	}
	return map[string]any{
		"card_id":   c.ID,
		"color":     color,
		"value":     c.Value,
		"card_type": string(c.Kind),
	}
}

func stackView(s *engine.Stack) map[string]any {
	return map[string]any{
		"stack_id": s.ID,
		"color":    string(s.Color),
		"value":    s.Value,
	}
}

func handState(p *engine.Player) map[string]any {
	cards := make([]any, 0, len(p.Hand))
	for _, c := range p.Hand {
		cards = append(cards, cardView(c))
	}
	return map[string]any{"cards": cards}
}

func stacksState(p *engine.Player) map[string]any {
	stacks := make([]any, 0, len(p.LaidOut))
	for _, s := range p.LaidOut {
		stacks = append(stacks, stackView(s))
	}
	return map[string]any{"stacks": stacks}
}

// othersState lists every seat except viewerID, in seating order. A viewer
// id of 0 (the host) sees all seats.
func othersState(g *engine.Game, viewerID int) map[string]any {
	players := make([]any, 0, len(g.Order))
	for _, id := range g.Order {
		if id == viewerID {
			continue
		}
		p := g.Players[id]
		stacks := make([]any, 0, len(p.LaidOut))
		for _, s := range p.LaidOut {
			stacks = append(stacks, stackView(s))
		}
		players = append(players, map[string]any{
			"player_id":   p.ID,
			"player_name": p.Name,
			"stacks":      stacks,
		})
	}
	return map[string]any{"players": players}
}

func turnState(g *engine.Game, playerID int) map[string]any {
	return map[string]any{"turn": g.Phase == engine.PhaseInProgress && g.CurrentPlayer() == playerID}
}
