package engine

// Color of a basic card or stack. Special cards carry no color.
type Color string

const (
	Red     Color = "red"
	Green   Color = "green"
	Blue    Color = "blue"
	Yellow  Color = "yellow"
	Rainbow Color = "rainbow"
)

// Card values.
const (
	ValueVirus   = -1
	ValueOrgan   = 0
	ValueVaccine = 1

	// ValueSpecial is the wire sentinel for action cards; it is never
	// added to a stack value.
	ValueSpecial = 100
)

// SpecialKind identifies an action card. Empty for basic cards.
type SpecialKind string

const (
	SpecialNone SpecialKind = ""
	OrganSwap   SpecialKind = "organ swap"
	Theft       SpecialKind = "theft"
	BodySwap    SpecialKind = "body swap"
	LatexGlove  SpecialKind = "latex glove"
	Epidemy     SpecialKind = "epidemy"
)

// Card is an immutable value record. IDs are unique within a game and never
// reused; at any moment a card is owned by exactly one of the draw pool, a
// hand, a stack, or the discard pool.
type Card struct {
	ID    int
	Color Color
	Value int
	Kind  SpecialKind
}

func (c Card) IsSpecial() bool { return c.Kind != SpecialNone }
func (c Card) IsOrgan() bool   { return !c.IsSpecial() && c.Value == ValueOrgan }
func (c Card) IsVirus() bool   { return !c.IsSpecial() && c.Value == ValueVirus }
func (c Card) IsVaccine() bool { return !c.IsSpecial() && c.Value == ValueVaccine }

// colorsCompatible reports whether a card of color a may be played onto a
// stack of color b. Rainbow is a wildcard on either side.
func colorsCompatible(a, b Color) bool {
	return a == b || a == Rainbow || b == Rainbow
}

// Status of a stack, a pure function of its value.
type Status string

const (
	Healthy    Status = "healthy"
	Vaccinated Status = "vaccinated"
	Sick       Status = "sick"
	Immune     Status = "immune"
	Dead       Status = "dead"
)

func statusFor(value int) (Status, error) {
	switch value {
	case 0:
		return Healthy, nil
	case 1:
		return Vaccinated, nil
	case -1:
		return Sick, nil
	case 2:
		return Immune, nil
	case -2:
		return Dead, nil
	default:
		return "", ErrStackValueRange
	}
}
