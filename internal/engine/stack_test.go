package engine

import (
	"errors"
	"testing"
)

func TestNewStackRequiresOrgan(t *testing.T) {
	cases := []struct {
		name    string
		card    Card
		wantErr bool
	}{
		{name: "organ founds a stack", card: Card{ID: 1, Color: Red, Value: ValueOrgan}, wantErr: false},
		{name: "virus rejected", card: Card{ID: 2, Color: Red, Value: ValueVirus}, wantErr: true},
		{name: "vaccine rejected", card: Card{ID: 3, Color: Red, Value: ValueVaccine}, wantErr: true},
		{name: "special rejected", card: Card{ID: 4, Value: ValueSpecial, Kind: Theft}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewStack(tc.card)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidCardKind) {
					t.Fatalf("want ErrInvalidCardKind, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if s.Color != tc.card.Color || s.Value != 0 || s.Status != Healthy {
				t.Fatalf("bad initial stack: %+v", s)
			}
			if s.ID != tc.card.ID || len(s.Cards) != 1 {
				t.Fatalf("founding card not recorded: %+v", s)
			}
		})
	}
}

func TestStackAdd(t *testing.T) {
	cases := []struct {
		name       string
		stackColor Color
		preValue   int
		card       Card
		wantErr    error
		wantValue  int
		wantStatus Status
	}{
		{
			name: "virus makes healthy sick", stackColor: Red, preValue: 0,
			card: Card{ID: 10, Color: Red, Value: ValueVirus}, wantValue: -1, wantStatus: Sick,
		},
		{
			name: "vaccine makes healthy vaccinated", stackColor: Red, preValue: 0,
			card: Card{ID: 11, Color: Red, Value: ValueVaccine}, wantValue: 1, wantStatus: Vaccinated,
		},
		{
			name: "vaccine makes vaccinated immune", stackColor: Red, preValue: 1,
			card: Card{ID: 12, Color: Red, Value: ValueVaccine}, wantValue: 2, wantStatus: Immune,
		},
		{
			name: "virus kills a sick stack", stackColor: Red, preValue: -1,
			card: Card{ID: 13, Color: Red, Value: ValueVirus}, wantValue: -2, wantStatus: Dead,
		},
		{
			name: "wrong color rejected", stackColor: Red, preValue: 0,
			card: Card{ID: 14, Color: Blue, Value: ValueVirus}, wantErr: ErrColorMismatch,
		},
		{
			name: "rainbow card matches any stack", stackColor: Red, preValue: 0,
			card: Card{ID: 15, Color: Rainbow, Value: ValueVirus}, wantValue: -1, wantStatus: Sick,
		},
		{
			name: "any card matches a rainbow stack", stackColor: Rainbow, preValue: 0,
			card: Card{ID: 16, Color: Green, Value: ValueVaccine}, wantValue: 1, wantStatus: Vaccinated,
		},
		{
			name: "immune stack rejects everything", stackColor: Red, preValue: 2,
			card: Card{ID: 17, Color: Red, Value: ValueVirus}, wantErr: ErrStackImmune,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &Stack{ID: 1, Color: tc.stackColor, Value: tc.preValue}
			status, err := statusFor(tc.preValue)
			if err != nil {
				t.Fatalf("bad test setup: %v", err)
			}
			s.Status = status

			err = s.Add(tc.card)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				if s.Value != tc.preValue || len(s.Cards) != 0 {
					t.Fatalf("stack mutated on rejected add: %+v", s)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if s.Value != tc.wantValue || s.Status != tc.wantStatus {
				t.Fatalf("got value=%d status=%s, want value=%d status=%s", s.Value, s.Status, tc.wantValue, tc.wantStatus)
			}
		})
	}
}

func TestStackRemoveInvertsAdd(t *testing.T) {
	organ := Card{ID: 1, Color: Red, Value: ValueOrgan}
	virus := Card{ID: 2, Color: Red, Value: ValueVirus}

	s, err := NewStack(organ)
	if err != nil {
		t.Fatalf("NewStack: %v", err)
	}
	if err := s.Add(virus); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Remove(virus); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.Value != 0 || s.Status != Healthy || len(s.Cards) != 1 {
		t.Fatalf("remove did not invert add: %+v", s)
	}

	if err := s.Remove(virus); !errors.Is(err, ErrNotFound) {
		t.Fatalf("removing an absent card: want ErrNotFound, got %v", err)
	}
}

func TestStatusTable(t *testing.T) {
	want := map[int]Status{-2: Dead, -1: Sick, 0: Healthy, 1: Vaccinated, 2: Immune}
	for value, status := range want {
		got, err := statusFor(value)
		if err != nil || got != status {
			t.Fatalf("statusFor(%d) = %s, %v; want %s", value, got, err, status)
		}
	}
	for _, value := range []int{-3, 3, 100} {
		if _, err := statusFor(value); !errors.Is(err, ErrInvariant) {
			t.Fatalf("statusFor(%d): want invariant violation, got %v", value, err)
		}
	}
}
