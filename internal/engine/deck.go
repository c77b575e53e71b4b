package engine

import (
	"math/rand"
	"slices"
)

// Deck owns the draw pool and the discard pool. Cards enter play only
// through Draw and leave it only through Discard; the 68-card total is
// constant for the lifetime of a started game.
type Deck struct {
	draw    []Card
	discard []Card
	shuffle func([]Card)
}

func NewDeck() *Deck {
	return &Deck{
		shuffle: func(cards []Card) {
			rand.Shuffle(len(cards), func(i, j int) {
				cards[i], cards[j] = cards[j], cards[i]
			})
		},
	}
}

// NewDeckWithShuffle takes the shuffle function directly so tests can pin a
// deterministic draw order.
func NewDeckWithShuffle(shuffle func([]Card)) *Deck {
	return &Deck{shuffle: shuffle}
}

// InitializeStandard builds the 68-card pool: per non-rainbow color 5 organs,
// 4 viruses and 4 vaccines; rainbow 1 organ, 1 virus, 4 vaccines; then
// 3 organ swaps, 3 thefts, 1 body swap, 1 latex glove and 2 epidemies.
// Ids are assigned 1..68 before shuffling.
func (d *Deck) InitializeStandard() {
	id := 0
	next := func() int { id++; return id }

	for _, color := range []Color{Red, Green, Blue, Yellow} {
		for n := 0; n < 5; n++ {
			d.draw = append(d.draw, Card{ID: next(), Color: color, Value: ValueOrgan})
		}
		for n := 0; n < 4; n++ {
			d.draw = append(d.draw, Card{ID: next(), Color: color, Value: ValueVirus})
		}
		for n := 0; n < 4; n++ {
			d.draw = append(d.draw, Card{ID: next(), Color: color, Value: ValueVaccine})
		}
	}

	d.draw = append(d.draw, Card{ID: next(), Color: Rainbow, Value: ValueOrgan})
	d.draw = append(d.draw, Card{ID: next(), Color: Rainbow, Value: ValueVirus})
	for n := 0; n < 4; n++ {
		d.draw = append(d.draw, Card{ID: next(), Color: Rainbow, Value: ValueVaccine})
	}

	specials := []struct {
		kind  SpecialKind
		count int
	}{
		{OrganSwap, 3},
		{Theft, 3},
		{BodySwap, 1},
		{LatexGlove, 1},
		{Epidemy, 2},
	}
	for _, s := range specials {
		for n := 0; n < s.count; n++ {
			d.draw = append(d.draw, Card{ID: next(), Value: ValueSpecial, Kind: s.kind})
		}
	}

	d.shuffle(d.draw)
}

// Draw takes the top card, folding the discard pile back into the draw pool
// first when the pool is empty. ErrDeckExhausted only when both are empty,
// which cannot happen while any card is in play.
func (d *Deck) Draw() (Card, error) {
	if len(d.draw) == 0 {
		if len(d.discard) == 0 {
			return Card{}, ErrDeckExhausted
		}
		d.draw = append(d.draw, d.discard...)
		d.discard = d.discard[:0]
		d.shuffle(d.draw)
	}
	c := d.draw[len(d.draw)-1]
	d.draw = d.draw[:len(d.draw)-1]
	return c, nil
}

// Discard moves a card into the discard pile. Discarding the same card twice
// is a programming error, not a user error.
func (d *Deck) Discard(c Card) error {
	if slices.ContainsFunc(d.discard, func(on Card) bool { return on.ID == c.ID }) {
		return ErrDoubleDiscard
	}
	d.discard = append(d.discard, c)
	return nil
}

func (d *Deck) DrawCount() int    { return len(d.draw) }
func (d *Deck) DiscardCount() int { return len(d.discard) }
