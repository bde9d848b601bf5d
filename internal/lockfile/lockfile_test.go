package lockfile

import (
	"context"
	"testing"
	"time"
)

func TestAcquireAndRelease(t *testing.T) {
	path := t.TempDir() + "/beads.lock"
	l := New(path)
	if err := l.Acquire(context.Background(), 0); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := l.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
}

func TestAcquireFailsWhenAlreadyHeld(t *testing.T) {
	path := t.TempDir() + "/beads.lock"
	first := New(path)
	if err := first.Acquire(context.Background(), 0); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	defer first.Release()

	second := New(path)
	if err := second.Acquire(context.Background(), 0); err == nil {
		t.Fatal("expected a contended zero-timeout acquire to fail")
	}
}

func TestAcquireTimesOutWhenContended(t *testing.T) {
	path := t.TempDir() + "/beads.lock"
	first := New(path)
	if err := first.Acquire(context.Background(), 0); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	defer first.Release()

	second := New(path)
	start := time.Now()
	err := second.Acquire(context.Background(), 50*time.Millisecond)
	if err == nil {
		t.Fatal("expected the contended acquire to time out")
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("returned after %v, expected it to wait out the timeout", elapsed)
	}
}
