package store

import "testing"

// newTestStore opens a fresh file-backed Store for the test's temp dir.
// File-based databases, not ":memory:", match the single-connection pool
// model Open enforces in production.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir()+"/test.db", "bd")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Fatalf("close test store: %v", err)
		}
	})
	return s
}
