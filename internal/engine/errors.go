package engine

import (
	"errors"
	"fmt"
)

// Umbrella categories. Specific failures wrap one of these so the session
// layer can classify with errors.Is: validation and not-found errors are
// answered to the acting player, invariant violations are fatal to the room.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrInvariant  = errors.New("invariant violation")
)

var (
	ErrInvalidCardKind     = fmt.Errorf("%w: first card of a stack must be an organ", ErrValidation)
	ErrColorMismatch       = fmt.Errorf("%w: wrong color", ErrValidation)
	ErrStackImmune         = fmt.Errorf("%w: stack is immune", ErrValidation)
	ErrUnknownAction       = fmt.Errorf("%w: unknown action", ErrValidation)
	ErrCardNotInHand       = fmt.Errorf("%w: card not in hand", ErrNotFound)
	ErrDuplicateOrganColor = fmt.Errorf("%w: organ of that color already laid out", ErrValidation)
	ErrRoomFull            = fmt.Errorf("%w: room is full", ErrValidation)
	ErrDuplicatePlayer     = fmt.Errorf("%w: player already seated", ErrValidation)
	ErrTooFewPlayers       = fmt.Errorf("%w: need at least two players", ErrValidation)
	ErrNotInProgress       = fmt.Errorf("%w: game is not in progress", ErrValidation)
	ErrGameFinished        = fmt.Errorf("%w: game already finished", ErrValidation)
	ErrWrongTurn           = fmt.Errorf("%w: not your turn", ErrValidation)
	ErrPlayerNotFound      = fmt.Errorf("%w: no such player", ErrNotFound)
	ErrStackNotFound       = fmt.Errorf("%w: no such stack", ErrNotFound)

	// Programming-error class: not reachable from any client input.
	ErrStackValueRange = fmt.Errorf("%w: stack value outside [-2,2]", ErrInvariant)
	ErrDoubleDiscard   = fmt.Errorf("%w: card discarded twice", ErrInvariant)
	ErrDeckExhausted   = fmt.Errorf("%w: both draw and discard piles are empty", ErrInvariant)
)
