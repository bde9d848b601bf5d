package sync

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/beads-core/beads/internal/store"
)

// ExportOptions controls which issues an export writes.
type ExportOptions struct {
	// Full exports every non-tombstone issue instead of just the dirty set.
	Full bool
	// IncludeTombstones includes tombstoned issues in a Full export.
	IncludeTombstones bool
}

// ExportResult summarizes a completed export.
type ExportResult struct {
	Count int
}

// Export streams each selected issue as one JSON line to w, in a fixed
// field order, never holding more than one issue in memory at a time.
// On success it records the freshly exported content hash for every
// issue so GetDirtyIDs reflects only what changed since this call.
func Export(ctx context.Context, s *store.Store, w io.Writer, opts ExportOptions) (*ExportResult, error) {
	ids, err := s.ExportIDs(ctx, store.ExportFilter{
		Dirty:             !opts.Full,
		IncludeTombstones: opts.IncludeTombstones,
	})
	if err != nil {
		return nil, fmt.Errorf("list issues to export: %w", err)
	}

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	exported := make([]string, 0, len(ids))
	hashes := make([]string, 0, len(ids))
	for _, id := range ids {
		issue, err := s.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetch issue %q for export: %w", id, err)
		}
		if err := enc.Encode(issue); err != nil {
			return nil, fmt.Errorf("encode issue %q: %w", id, err)
		}
		exported = append(exported, issue.ID)
		hashes = append(hashes, issue.ContentHash)
	}

	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("flush export stream: %w", err)
	}

	for i, id := range exported {
		if err := s.RecordExportHash(ctx, id, hashes[i]); err != nil {
			return nil, fmt.Errorf("record export hash for %q: %w", id, err)
		}
	}
	if err := s.ClearDirty(ctx, exported); err != nil {
		return nil, fmt.Errorf("clear dirty set after export: %w", err)
	}

	return &ExportResult{Count: len(exported)}, nil
}

// ExportToFile writes the export atomically (temp file + rename) to
// path, then writes a manifest sidecar next to it.
func ExportToFile(ctx context.Context, s *store.Store, path string, opts ExportOptions) (*ExportResult, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return nil, fmt.Errorf("create temp export file: %w", err)
	}
	tempPath := tempFile.Name()
	defer func() {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
	}()

	result, err := Export(ctx, s, tempFile, opts)
	if err != nil {
		return nil, err
	}
	if err := tempFile.Close(); err != nil {
		return nil, fmt.Errorf("close temp export file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return nil, fmt.Errorf("replace export file: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return nil, fmt.Errorf("set export file permissions: %w", err)
	}

	if err := WriteManifest(path, &Manifest{IssueCount: result.Count, Full: opts.Full}); err != nil {
		return nil, fmt.Errorf("write export manifest: %w", err)
	}

	return result, nil
}

// WriteManifest writes the manifest sidecar atomically, deriving its
// path from jsonlPath by replacing the .jsonl suffix.
func WriteManifest(jsonlPath string, m *Manifest) error {
	manifestPath := strings.TrimSuffix(jsonlPath, ".jsonl") + ".manifest.json"
	m.ExportedAt = time.Now().UTC()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	dir := filepath.Dir(manifestPath)
	tempFile, err := os.CreateTemp(dir, filepath.Base(manifestPath)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp manifest file: %w", err)
	}
	tempPath := tempFile.Name()
	defer func() {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp manifest file: %w", err)
	}
	if err := os.Rename(tempPath, manifestPath); err != nil {
		return fmt.Errorf("replace manifest file: %w", err)
	}
	return os.Chmod(manifestPath, 0o600)
}
