package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesSentinel(t *testing.T) {
	err := New(KindNotFound, "get issue", nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is(err, ErrNotFound) to hold")
	}
	if errors.Is(err, ErrConflict) {
		t.Fatalf("expected errors.Is(err, ErrConflict) to be false")
	}
}

func TestErrorUnwrapsUnderlyingCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := New(KindIO, "open db", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be unwrapped")
	}
}

func TestAmbiguousErrorCarriesCandidates(t *testing.T) {
	err := &AmbiguousError{Input: "c", Candidates: []string{"bd-cab", "bd-caf"}}
	if !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("expected AmbiguousError to match ErrAmbiguous")
	}
	if len(err.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(err.Candidates))
	}
}

func TestKindly(t *testing.T) {
	if Kindly(New(KindCycle, "add dep", nil)) != KindCycle {
		t.Fatalf("expected KindCycle")
	}
	if Kindly(&AmbiguousError{}) != KindAmbiguous {
		t.Fatalf("expected KindAmbiguous")
	}
	if Kindly(fmt.Errorf("plain")) != KindIO {
		t.Fatalf("expected KindIO fallback")
	}
}
