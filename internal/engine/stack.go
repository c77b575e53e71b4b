package engine

import (
	"fmt"
	"slices"
)

// Stack is one laid-out organ and everything attached to it. Its color is
// fixed at creation from the founding organ; only its owner may change.
type Stack struct {
	ID     int
	Color  Color
	Value  int
	Status Status
	Cards  []Card
}

// NewStack founds a stack from an organ card. The stack's id is the founding
// card's id.
func NewStack(organ Card) (*Stack, error) {
	if !organ.IsOrgan() {
		return nil, ErrInvalidCardKind
	}
	return &Stack{
		ID:     organ.ID,
		Color:  organ.Color,
		Value:  0,
		Status: Healthy,
		Cards:  []Card{organ},
	}, nil
}

// CanAdd validates c against the stack without mutating anything, so callers
// can check every precondition of an attempt before applying any of it.
func (s *Stack) CanAdd(c Card) error {
	if c.IsSpecial() {
		return fmt.Errorf("%w: special cards cannot join a stack", ErrValidation)
	}
	if !colorsCompatible(c.Color, s.Color) {
		return ErrColorMismatch
	}
	if s.Status == Immune {
		return ErrStackImmune
	}
	return nil
}

// Add attaches c, folds its value in and recomputes status. The stack is
// unchanged on error.
func (s *Stack) Add(c Card) error {
	if err := s.CanAdd(c); err != nil {
		return err
	}
	status, err := statusFor(s.Value + c.Value)
	if err != nil {
		return err
	}
	s.Value += c.Value
	s.Status = status
	s.Cards = append(s.Cards, c)
	return nil
}

// Remove is the inverse of Add: engine-internal bookkeeping for epidemy
// transfers and vaccine/virus cancellation, never driven by a client directly.
func (s *Stack) Remove(c Card) error {
	i := slices.IndexFunc(s.Cards, func(on Card) bool { return on.ID == c.ID })
	if i < 0 {
		return fmt.Errorf("%w: card %d is not on stack %d", ErrNotFound, c.ID, s.ID)
	}
	status, err := statusFor(s.Value - c.Value)
	if err != nil {
		return err
	}
	s.Value -= c.Value
	s.Status = status
	s.Cards = slices.Delete(s.Cards, i, i+1)
	return nil
}

// detach drops the card reference without touching the stack value. Used for
// the vaccine bookkeeping where the card is discarded immediately but its +1
// stays counted.
func (s *Stack) detach(cardID int) (Card, bool) {
	i := slices.IndexFunc(s.Cards, func(on Card) bool { return on.ID == cardID })
	if i < 0 {
		return Card{}, false
	}
	c := s.Cards[i]
	s.Cards = slices.Delete(s.Cards, i, i+1)
	return c, true
}

// firstVirus returns the attached virus card, if any.
func (s *Stack) firstVirus() (Card, bool) {
	for _, c := range s.Cards {
		if c.IsVirus() {
			return c, true
		}
	}
	return Card{}, false
}
