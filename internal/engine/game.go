package engine

import (
	"fmt"
	"slices"
)

// MaxPlayers is the seat cap per room.
const MaxPlayers = 8

type Phase string

const (
	PhaseLobby      Phase = "lobby"
	PhaseInProgress Phase = "in_progress"
	PhaseFinished   Phase = "finished"
)

// Game is one room's authoritative state: all players, the deck and the turn
// order. Exactly one goroutine (the room actor) may hold a reference to it.
type Game struct {
	Phase   Phase
	Players map[int]*Player
	Order   []int
	Turn    int // index into Order
	Turns   int // completed turns
	Winner  int // fixed on InProgress -> Finished
	Deck    *Deck
}

func NewGame() *Game {
	return &Game{
		Phase:   PhaseLobby,
		Players: make(map[int]*Player),
		Deck:    NewDeck(),
	}
}

// NewGameWithDeck is the deterministic-seam constructor for tests.
func NewGameWithDeck(deck *Deck) *Game {
	g := NewGame()
	g.Deck = deck
	return g
}

// AddPlayer seats a player. Legal only in the lobby.
func (g *Game) AddPlayer(id int, name string) error {
	if g.Phase != PhaseLobby {
		return fmt.Errorf("%w: cannot join after start", ErrValidation)
	}
	if len(g.Players) >= MaxPlayers {
		return ErrRoomFull
	}
	if _, ok := g.Players[id]; ok {
		return ErrDuplicatePlayer
	}
	g.Players[id] = NewPlayer(id, name)
	g.Order = append(g.Order, id)
	return nil
}

// RemovePlayer unseats a player. In the lobby the seat simply disappears;
// mid-game the player's cards go to the discard pile (keeping the 68-card
// total) and the turn index is re-anchored: seats before the current one
// shift it down, and it is reduced modulo the new seat count.
func (g *Game) RemovePlayer(id int) error {
	p, ok := g.Players[id]
	if !ok {
		return ErrPlayerNotFound
	}
	seat := slices.Index(g.Order, id)

	if g.Phase == PhaseInProgress {
		for _, c := range p.Hand {
			if err := g.Deck.Discard(c); err != nil {
				return err
			}
		}
		for _, s := range p.LaidOut {
			for _, c := range s.Cards {
				if err := g.Deck.Discard(c); err != nil {
					return err
				}
			}
		}
	}

	delete(g.Players, id)
	g.Order = slices.Delete(g.Order, seat, seat+1)

	if len(g.Order) == 0 {
		g.Turn = 0
		return nil
	}
	if seat < g.Turn {
		g.Turn--
	}
	g.Turn %= len(g.Order)
	return nil
}

// Start deals three cards to each seated player in seating order and begins
// turn rotation.
func (g *Game) Start() error {
	if g.Phase != PhaseLobby {
		return fmt.Errorf("%w: game already started", ErrValidation)
	}
	if len(g.Players) < 2 {
		return ErrTooFewPlayers
	}
	g.Deck.InitializeStandard()
	for _, id := range g.Order {
		p := g.Players[id]
		for len(p.Hand) < MaxHand {
			c, err := g.Deck.Draw()
			if err != nil {
				return err
			}
			p.Hand = append(p.Hand, c)
		}
	}
	g.Phase = PhaseInProgress
	return nil
}

// CurrentPlayer returns the id of the seat whose turn it is.
func (g *Game) CurrentPlayer() int {
	if len(g.Order) == 0 {
		return 0
	}
	return g.Order[g.Turn]
}

// AdvanceTurn ends the current player's turn: refills their hand to the cap,
// then moves the turn index forward.
func (g *Game) AdvanceTurn(playerID int) error {
	if g.Phase != PhaseInProgress {
		return ErrNotInProgress
	}
	if playerID != g.CurrentPlayer() {
		return ErrWrongTurn
	}
	p := g.Players[playerID]
	for len(p.Hand) < MaxHand {
		c, err := g.Deck.Draw()
		if err != nil {
			// Every remaining card is in play; the player continues short.
			break
		}
		p.Hand = append(p.Hand, c)
	}
	g.Turn = (g.Turn + 1) % len(g.Order)
	g.Turns++
	return nil
}

// Resolve validates and applies one attempt. Each attempt either fully
// applies or returns an error with the game unchanged.
func (g *Game) Resolve(playerID int, attempt Attempt) error {
	switch g.Phase {
	case PhaseLobby:
		return ErrNotInProgress
	case PhaseFinished:
		return ErrGameFinished
	}
	p, ok := g.Players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	if playerID != g.CurrentPlayer() {
		return ErrWrongTurn
	}

	var err error
	switch a := attempt.(type) {
	case AttackAttempt:
		err = g.resolveAttack(p, a)
	case HealAttempt:
		err = g.resolveHeal(p, a)
	case OrganAttempt:
		err = g.resolveOrgan(p, a)
	case DiscardAttempt:
		err = g.resolveDiscard(p, a)
	case OrganSwapAttempt:
		err = g.resolveOrganSwap(p, a)
	case TheftAttempt:
		err = g.resolveTheft(p, a)
	case BodySwapAttempt:
		err = g.resolveBodySwap(p, a)
	case LatexGloveAttempt:
		err = g.resolveLatexGlove(p, a)
	case EpidemyAttempt:
		err = g.resolveEpidemy(p, a)
	default:
		err = fmt.Errorf("%w: unsupported attempt %T", ErrValidation, attempt)
	}
	if err != nil {
		return err
	}

	g.checkWinners(p)
	return nil
}

// checkWinners evaluates the win condition, acting player first. The first
// player found winning fixes the winner and freezes the game.
func (g *Game) checkWinners(actor *Player) {
	if actor.CheckWin() {
		g.finish(actor.ID)
		return
	}
	for _, id := range g.Order {
		if id == actor.ID {
			continue
		}
		if g.Players[id].CheckWin() {
			g.finish(id)
			return
		}
	}
}

func (g *Game) finish(winnerID int) {
	g.Phase = PhaseFinished
	g.Winner = winnerID
}

// Scores returns the per-player final tally: one point per laid-out stack,
// ten bonus points for the winner.
func (g *Game) Scores() map[int]int {
	scores := make(map[int]int, len(g.Players))
	for id, p := range g.Players {
		scores[id] = len(p.LaidOut)
		if g.Phase == PhaseFinished && id == g.Winner {
			scores[id] += 10
		}
	}
	return scores
}

// CardCount is the conservation check: cards across both pools, all hands
// and all stacks.
func (g *Game) CardCount() int {
	n := g.Deck.DrawCount() + g.Deck.DiscardCount()
	for _, p := range g.Players {
		n += len(p.Hand)
		for _, s := range p.LaidOut {
			n += len(s.Cards)
		}
	}
	return n
}

// ---- attempt resolution ----

func (g *Game) resolveAttack(p *Player, a AttackAttempt) error {
	target, ok := g.Players[a.TargetPlayer]
	if !ok {
		return ErrPlayerNotFound
	}
	stack, err := target.stackByID(a.TargetStack)
	if err != nil {
		return err
	}
	if err := stack.Add(a.Card); err != nil {
		return err
	}
	p.removeFromHand(a.Card.ID)
	if stack.Status == Dead {
		return g.buryStack(target, stack)
	}
	return nil
}

// buryStack removes a dead stack from its owner and discards every card that
// was on it, in the same resolution that produced -2.
func (g *Game) buryStack(owner *Player, stack *Stack) error {
	owner.removeStack(stack.ID)
	for _, c := range stack.Cards {
		if err := g.Deck.Discard(c); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) resolveHeal(p *Player, a HealAttempt) error {
	stack, err := p.stackByID(a.TargetStack)
	if err != nil {
		return err
	}
	if err := stack.Add(a.Card); err != nil {
		return err
	}
	p.removeFromHand(a.Card.ID)

	if stack.Status == Healthy {
		// The vaccine canceled a virus: both leave the stack and are
		// discarded, restoring the pre-infection value.
		virus, ok := stack.firstVirus()
		if !ok {
			return fmt.Errorf("%w: healthy after heal but no virus on stack %d", ErrInvariant, stack.ID)
		}
		if err := stack.Remove(a.Card); err != nil {
			return err
		}
		if err := stack.Remove(virus); err != nil {
			return err
		}
		if err := g.Deck.Discard(a.Card); err != nil {
			return err
		}
		return g.Deck.Discard(virus)
	}

	// Vaccinated or immune: the card is discarded immediately but its +1
	// stays counted in the stack value.
	stack.detach(a.Card.ID)
	return g.Deck.Discard(a.Card)
}

func (g *Game) resolveOrgan(p *Player, a OrganAttempt) error {
	if _, err := p.LayOutOrgan(a.Card); err != nil {
		return err
	}
	p.removeFromHand(a.Card.ID)
	return nil
}

func (g *Game) resolveDiscard(p *Player, a DiscardAttempt) error {
	for _, c := range a.Cards {
		p.removeFromHand(c.ID)
		if err := g.Deck.Discard(c); err != nil {
			return err
		}
	}
	return nil
}

// spendSpecial moves the played special card out of the hand and into the
// discard pile after a successful special action.
func (g *Game) spendSpecial(p *Player, card Card) error {
	p.removeFromHand(card.ID)
	return g.Deck.Discard(card)
}

func (g *Game) resolveOrganSwap(p *Player, a OrganSwapAttempt) error {
	target, ok := g.Players[a.TargetPlayer]
	if !ok {
		return ErrPlayerNotFound
	}
	own, err := p.stackByID(a.OwnStack)
	if err != nil {
		return err
	}
	theirs, err := target.stackByID(a.TargetStack)
	if err != nil {
		return err
	}
	if own.Status == Immune || theirs.Status == Immune {
		return ErrStackImmune
	}
	if own.Color != theirs.Color && own.Color != Rainbow && theirs.Color != Rainbow {
		// Swapping different colors must not leave either player with two
		// stacks of the same color.
		for _, s := range p.LaidOut {
			if s.ID != own.ID && s.Color == theirs.Color {
				return ErrDuplicateOrganColor
			}
		}
		for _, s := range target.LaidOut {
			if s.ID != theirs.ID && s.Color == own.Color {
				return ErrDuplicateOrganColor
			}
		}
	}

	p.removeStack(own.ID)
	target.removeStack(theirs.ID)
	p.LaidOut = append(p.LaidOut, theirs)
	target.LaidOut = append(target.LaidOut, own)
	return g.spendSpecial(p, a.Card)
}

func (g *Game) resolveTheft(p *Player, a TheftAttempt) error {
	target, ok := g.Players[a.TargetPlayer]
	if !ok {
		return ErrPlayerNotFound
	}
	stack, err := target.stackByID(a.TargetStack)
	if err != nil {
		return err
	}
	if stack.Status == Immune {
		return ErrStackImmune
	}
	if len(stack.Cards) == 0 {
		return fmt.Errorf("%w: stack %d is empty", ErrValidation, stack.ID)
	}
	if p.hasColor(stack.Color) {
		return ErrDuplicateOrganColor
	}

	target.removeStack(stack.ID)
	p.LaidOut = append(p.LaidOut, stack)
	return g.spendSpecial(p, a.Card)
}

func (g *Game) resolveBodySwap(p *Player, a BodySwapAttempt) error {
	target, ok := g.Players[a.TargetPlayer]
	if !ok {
		return ErrPlayerNotFound
	}
	p.LaidOut, target.LaidOut = target.LaidOut, p.LaidOut
	return g.spendSpecial(p, a.Card)
}

func (g *Game) resolveLatexGlove(p *Player, a LatexGloveAttempt) error {
	for _, id := range g.Order {
		if id == p.ID {
			continue
		}
		other := g.Players[id]
		for _, c := range other.Hand {
			if err := g.Deck.Discard(c); err != nil {
				return err
			}
		}
		other.Hand = nil
	}
	return g.spendSpecial(p, a.Card)
}

func (g *Game) resolveEpidemy(p *Player, a EpidemyAttempt) error {
	type transfer struct {
		virus Card
		src   *Stack
		dst   *Stack
	}

	// Validate every tuple against the pre-attempt state before moving
	// anything, so a bad tuple leaves the game untouched.
	transfers := make([]transfer, 0, len(a.Viruses))
	seen := make(map[int]bool, len(a.Viruses))
	perDst := make(map[*Stack]int, len(a.Viruses))
	for i, virusID := range a.Viruses {
		if seen[virusID] {
			return fmt.Errorf("%w: virus %d listed twice", ErrValidation, virusID)
		}
		seen[virusID] = true

		src, err := p.stackByID(a.SourceStacks[i])
		if err != nil {
			return err
		}
		var virus Card
		found := false
		for _, c := range src.Cards {
			if c.ID == virusID {
				virus, found = c, true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: card %d is not on stack %d", ErrNotFound, virusID, src.ID)
		}
		if !virus.IsVirus() {
			return fmt.Errorf("%w: card %d is not a virus", ErrValidation, virusID)
		}

		target, ok := g.Players[a.TargetPlayers[i]]
		if !ok {
			return ErrPlayerNotFound
		}
		dst, err := target.stackByID(a.TargetStacks[i])
		if err != nil {
			return err
		}
		if dst.Status != Healthy {
			return fmt.Errorf("%w: destination stack %d is not healthy", ErrValidation, dst.ID)
		}
		if !colorsCompatible(virus.Color, dst.Color) {
			return ErrColorMismatch
		}
		// A healthy stack dies at two viruses; a third would push the value
		// past the floor after the stack is already buried.
		perDst[dst]++
		if perDst[dst] > 2 {
			return fmt.Errorf("%w: stack %d cannot take a third virus", ErrValidation, dst.ID)
		}
		transfers = append(transfers, transfer{virus: virus, src: src, dst: dst})
	}

	for i, t := range transfers {
		if err := t.src.Remove(t.virus); err != nil {
			return err
		}
		if err := t.dst.Add(t.virus); err != nil {
			return err
		}
		// Two viruses aimed at the same stack can kill it mid-attempt.
		if t.dst.Status == Dead {
			target := g.Players[a.TargetPlayers[i]]
			if err := g.buryStack(target, t.dst); err != nil {
				return err
			}
		}
	}
	return g.spendSpecial(p, a.Card)
}
