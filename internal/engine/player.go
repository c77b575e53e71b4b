package engine

import (
	"fmt"
	"slices"
)

// MaxHand is the hand cap a player is refilled to at end of turn.
const MaxHand = 3

// Player is one seat at the table: a hand of cards and the stacks laid out
// in front of it. Stack ownership is exclusive to the player; organ swap,
// theft and body swap relocate whole stacks between players.
type Player struct {
	ID      int
	Name    string
	Hand    []Card
	LaidOut []*Stack
	Won     bool
}

func NewPlayer(id int, name string) *Player {
	return &Player{ID: id, Name: name}
}

func (p *Player) cardInHand(id int) (Card, error) {
	for _, c := range p.Hand {
		if c.ID == id {
			return c, nil
		}
	}
	return Card{}, fmt.Errorf("%w (card %d)", ErrCardNotInHand, id)
}

func (p *Player) removeFromHand(id int) {
	p.Hand = slices.DeleteFunc(p.Hand, func(c Card) bool { return c.ID == id })
}

func (p *Player) stackByID(id int) (*Stack, error) {
	for _, s := range p.LaidOut {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w (stack %d)", ErrStackNotFound, id)
}

func (p *Player) removeStack(id int) {
	p.LaidOut = slices.DeleteFunc(p.LaidOut, func(s *Stack) bool { return s.ID == id })
}

func (p *Player) hasColor(color Color) bool {
	return slices.ContainsFunc(p.LaidOut, func(s *Stack) bool { return s.Color == color })
}

// BuildAttempt translates an intent into one of the Attempt variants,
// resolving card references against the hand. For specials the kind comes
// from the intent when the client sent one, otherwise from the card itself.
func (p *Player) BuildAttempt(in Intent) (Attempt, error) {
	switch in.Action {
	case "attack":
		card, err := p.cardInHand(in.CardID)
		if err != nil {
			return nil, err
		}
		if !card.IsVirus() {
			return nil, fmt.Errorf("%w: attack needs a virus card", ErrValidation)
		}
		return AttackAttempt{Card: card, TargetPlayer: in.TargetPlayer, TargetStack: in.TargetStack}, nil

	case "heal", "vaccinate":
		card, err := p.cardInHand(in.CardID)
		if err != nil {
			return nil, err
		}
		if !card.IsVaccine() {
			return nil, fmt.Errorf("%w: heal needs a vaccine card", ErrValidation)
		}
		return HealAttempt{Card: card, TargetStack: in.TargetStack}, nil

	case "organ":
		card, err := p.cardInHand(in.CardID)
		if err != nil {
			return nil, err
		}
		if !card.IsOrgan() {
			return nil, ErrInvalidCardKind
		}
		return OrganAttempt{Card: card}, nil

	case "discard":
		cards := make([]Card, 0, len(in.DiscardIDs))
		seen := make(map[int]bool, len(in.DiscardIDs))
		for _, id := range in.DiscardIDs {
			if seen[id] {
				return nil, fmt.Errorf("%w: card %d listed twice", ErrValidation, id)
			}
			seen[id] = true
			card, err := p.cardInHand(id)
			if err != nil {
				return nil, err
			}
			cards = append(cards, card)
		}
		if len(cards) == 0 {
			return nil, fmt.Errorf("%w: nothing to discard", ErrValidation)
		}
		return DiscardAttempt{Cards: cards}, nil

	case "special":
		return p.buildSpecial(in)

	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownAction, in.Action)
	}
}

func (p *Player) buildSpecial(in Intent) (Attempt, error) {
	card, err := p.cardInHand(in.CardID)
	if err != nil {
		return nil, err
	}
	if !card.IsSpecial() {
		return nil, fmt.Errorf("%w: card %d is not a special card", ErrValidation, card.ID)
	}
	if in.CardType != "" && SpecialKind(in.CardType) != card.Kind {
		return nil, fmt.Errorf("%w: card %d is %q, not %q", ErrValidation, card.ID, card.Kind, in.CardType)
	}

	switch card.Kind {
	case OrganSwap:
		if in.OwnStack == 0 || in.TargetPlayer == 0 || in.TargetStack == 0 {
			return nil, fmt.Errorf("%w: organ swap needs own stack, target player and target stack", ErrValidation)
		}
		return OrganSwapAttempt{Card: card, OwnStack: in.OwnStack, TargetPlayer: in.TargetPlayer, TargetStack: in.TargetStack}, nil
	case Theft:
		if in.TargetPlayer == 0 || in.TargetStack == 0 {
			return nil, fmt.Errorf("%w: theft needs target player and target stack", ErrValidation)
		}
		return TheftAttempt{Card: card, TargetPlayer: in.TargetPlayer, TargetStack: in.TargetStack}, nil
	case BodySwap:
		if in.TargetPlayer == 0 {
			return nil, fmt.Errorf("%w: body swap needs a target player", ErrValidation)
		}
		return BodySwapAttempt{Card: card, TargetPlayer: in.TargetPlayer}, nil
	case LatexGlove:
		return LatexGloveAttempt{Card: card}, nil
	case Epidemy:
		n := len(in.VirusCards)
		if n == 0 || len(in.SourceStacks) != n || len(in.TargetStacks) != n || len(in.TargetPlayers) != n {
			return nil, fmt.Errorf("%w: epidemy needs equal-length virus, source, target stack and target player lists", ErrValidation)
		}
		return EpidemyAttempt{
			Card:          card,
			Viruses:       in.VirusCards,
			SourceStacks:  in.SourceStacks,
			TargetStacks:  in.TargetStacks,
			TargetPlayers: in.TargetPlayers,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown special kind %q", ErrValidation, card.Kind)
	}
}

// LayOutOrgan founds a new stack from an organ in front of the player.
// A non-rainbow organ is rejected when a stack of the same color already
// exists; rainbow organs are exempt from the duplicate check.
func (p *Player) LayOutOrgan(card Card) (*Stack, error) {
	if card.Color != Rainbow && p.hasColor(card.Color) {
		return nil, ErrDuplicateOrganColor
	}
	stack, err := NewStack(card)
	if err != nil {
		return nil, err
	}
	p.LaidOut = append(p.LaidOut, stack)
	return stack, nil
}

// CheckWin reports whether the player holds at least four stacks, none of
// them sick. Sets the won flag; idempotent.
func (p *Player) CheckWin() bool {
	if p.Won {
		return true
	}
	if len(p.LaidOut) < 4 {
		return false
	}
	for _, s := range p.LaidOut {
		switch s.Status {
		case Healthy, Vaccinated, Immune:
		default:
			return false
		}
	}
	p.Won = true
	return true
}
