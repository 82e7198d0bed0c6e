package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_NewID(t *testing.T) {
	g := NewUUIDGenerator()

	first, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("expected uuid, got %q: %v", first, err)
	}

	second, _ := g.NewID()
	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
}

func TestSequenceGenerator_NewID(t *testing.T) {
	g := NewSequenceGenerator("team")

	for _, want := range []string{"team-1", "team-2", "team-3"} {
		got, err := g.NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if got != want {
			t.Fatalf("unexpected id: want=%s got=%s", want, got)
		}
	}
}
