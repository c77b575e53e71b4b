package engine

import (
	"errors"
	"testing"
)

func TestBuildAttempt(t *testing.T) {
	hand := []Card{
		{ID: 1, Color: Red, Value: ValueVirus},
		{ID: 2, Color: Red, Value: ValueVaccine},
		{ID: 3, Color: Blue, Value: ValueOrgan},
		{ID: 4, Value: ValueSpecial, Kind: Theft},
		{ID: 5, Value: ValueSpecial, Kind: Epidemy},
	}

	cases := []struct {
		name    string
		intent  Intent
		want    Attempt
		wantErr error
	}{
		{
			name:   "attack",
			intent: Intent{Action: "attack", CardID: 1, TargetPlayer: 2, TargetStack: 9},
			want:   AttackAttempt{Card: hand[0], TargetPlayer: 2, TargetStack: 9},
		},
		{
			name:   "vaccinate is heal",
			intent: Intent{Action: "vaccinate", CardID: 2, TargetStack: 9},
			want:   HealAttempt{Card: hand[1], TargetStack: 9},
		},
		{
			name:   "organ",
			intent: Intent{Action: "organ", CardID: 3},
			want:   OrganAttempt{Card: hand[2]},
		},
		{
			name:    "attack with a non-virus card",
			intent:  Intent{Action: "attack", CardID: 3, TargetPlayer: 2, TargetStack: 9},
			wantErr: ErrValidation,
		},
		{
			name:    "card not in hand",
			intent:  Intent{Action: "attack", CardID: 99, TargetPlayer: 2, TargetStack: 9},
			wantErr: ErrCardNotInHand,
		},
		{
			name:    "unknown action",
			intent:  Intent{Action: "sneeze", CardID: 1},
			wantErr: ErrUnknownAction,
		},
		{
			name:   "special kind inferred from hand",
			intent: Intent{Action: "special", CardID: 4, TargetPlayer: 2, TargetStack: 9},
			want:   TheftAttempt{Card: hand[3], TargetPlayer: 2, TargetStack: 9},
		},
		{
			name:    "special kind mismatch",
			intent:  Intent{Action: "special", CardID: 4, CardType: "body swap"},
			wantErr: ErrValidation,
		},
		{
			name:    "discard listing a card twice",
			intent:  Intent{Action: "discard", DiscardIDs: []int{1, 1}},
			wantErr: ErrValidation,
		},
		{
			name:    "epidemy list lengths must agree",
			intent:  Intent{Action: "special", CardID: 5, VirusCards: []int{1, 2}, SourceStacks: []int{3}, TargetStacks: []int{4, 5}, TargetPlayers: []int{2, 2}},
			wantErr: ErrValidation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPlayer(1, "ana")
			p.Hand = append([]Card(nil), hand...)

			got, err := p.BuildAttempt(tc.intent)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			switch want := tc.want.(type) {
			case AttackAttempt:
				if got != want {
					t.Fatalf("got %+v, want %+v", got, want)
				}
			case HealAttempt:
				if got != want {
					t.Fatalf("got %+v, want %+v", got, want)
				}
			case OrganAttempt:
				if got != want {
					t.Fatalf("got %+v, want %+v", got, want)
				}
			case TheftAttempt:
				if got != want {
					t.Fatalf("got %+v, want %+v", got, want)
				}
			}
		})
	}
}

func TestLayOutOrganDuplicateColor(t *testing.T) {
	p := NewPlayer(1, "ana")

	if _, err := p.LayOutOrgan(Card{ID: 1, Color: Red, Value: ValueOrgan}); err != nil {
		t.Fatalf("first red organ: %v", err)
	}
	if _, err := p.LayOutOrgan(Card{ID: 2, Color: Red, Value: ValueOrgan}); !errors.Is(err, ErrDuplicateOrganColor) {
		t.Fatalf("second red organ: want ErrDuplicateOrganColor, got %v", err)
	}

	// Rainbow organs are exempt from the duplicate check.
	if _, err := p.LayOutOrgan(Card{ID: 3, Color: Rainbow, Value: ValueOrgan}); err != nil {
		t.Fatalf("first rainbow organ: %v", err)
	}
	if _, err := p.LayOutOrgan(Card{ID: 4, Color: Rainbow, Value: ValueOrgan}); err != nil {
		t.Fatalf("second rainbow organ: %v", err)
	}
}

func TestCheckWin(t *testing.T) {
	stack := func(id int, color Color, value int) *Stack {
		status, err := statusFor(value)
		if err != nil {
			panic(err)
		}
		return &Stack{ID: id, Color: color, Value: value, Status: status}
	}

	cases := []struct {
		name    string
		laidOut []*Stack
		want    bool
	}{
		{
			name:    "three stacks is not enough",
			laidOut: []*Stack{stack(1, Red, 0), stack(2, Blue, 1), stack(3, Green, 2)},
			want:    false,
		},
		{
			name:    "four clean stacks win",
			laidOut: []*Stack{stack(1, Red, 0), stack(2, Blue, 1), stack(3, Green, 2), stack(4, Yellow, 0)},
			want:    true,
		},
		{
			name:    "a sick stack blocks the win",
			laidOut: []*Stack{stack(1, Red, -1), stack(2, Blue, 1), stack(3, Green, 2), stack(4, Yellow, 0)},
			want:    false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPlayer(1, "ana")
			p.LaidOut = tc.laidOut
			if got := p.CheckWin(); got != tc.want {
				t.Fatalf("CheckWin = %v, want %v", got, tc.want)
			}
			if p.Won != tc.want {
				t.Fatalf("won flag = %v, want %v", p.Won, tc.want)
			}
			// Idempotent.
			if got := p.CheckWin(); got != tc.want {
				t.Fatalf("second CheckWin = %v, want %v", got, tc.want)
			}
		})
	}
}
