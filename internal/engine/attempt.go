package engine

// Intent is the raw, field-validated description of a client action, as
// produced by the protocol layer. Ids are positive; zero means absent.
type Intent struct {
	Action        string
	CardID        int
	CardType      string
	TargetPlayer  int
	TargetStack   int
	OwnStack      int
	DiscardIDs    []int
	VirusCards    []int
	SourceStacks  []int
	TargetStacks  []int
	TargetPlayers []int
}

// Attempt is the closed union of engine-ready actions. Intents are resolved
// into an Attempt exactly once, at the player boundary, so Game.Resolve is an
// exhaustive type switch.
type Attempt interface{ isAttempt() }

type AttackAttempt struct {
	Card         Card
	TargetPlayer int
	TargetStack  int
}

type HealAttempt struct {
	Card        Card
	TargetStack int
}

type OrganAttempt struct {
	Card Card
}

type DiscardAttempt struct {
	Cards []Card
}

type OrganSwapAttempt struct {
	Card         Card
	OwnStack     int
	TargetPlayer int
	TargetStack  int
}

type TheftAttempt struct {
	Card         Card
	TargetPlayer int
	TargetStack  int
}

type BodySwapAttempt struct {
	Card         Card
	TargetPlayer int
}

type LatexGloveAttempt struct {
	Card Card
}

type EpidemyAttempt struct {
	Card          Card
	Viruses       []int
	SourceStacks  []int
	TargetStacks  []int
	TargetPlayers []int
}

func (AttackAttempt) isAttempt()     {}
func (HealAttempt) isAttempt()       {}
func (OrganAttempt) isAttempt()      {}
func (DiscardAttempt) isAttempt()    {}
func (OrganSwapAttempt) isAttempt()  {}
func (TheftAttempt) isAttempt()      {}
func (BodySwapAttempt) isAttempt()   {}
func (LatexGloveAttempt) isAttempt() {}
func (EpidemyAttempt) isAttempt()    {}
