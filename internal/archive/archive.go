// Package archive maintains the ordered collection of produced verdicts,
// keyed by identity, with an optional persisted mirror.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "saham-workbench/internal/errors"
	"saham-workbench/internal/logging"
	"saham-workbench/internal/models"
)

// Mirror is the persisted copy of the archive. Mirror writes are
// best-effort: a failed flush is logged and never affects core invariants.
type Mirror interface {
	SaveVault(ctx context.Context, entries []models.AnalysisResult) error
}

// Archive is an ordered sequence of results, most recent first. Mutation is
// guarded by a mutex so the uniqueness invariant holds under concurrent use.
type Archive struct {
	mu       sync.Mutex
	entries  []models.AnalysisResult
	selected map[string]struct{}
	mirror   Mirror
	logger   zerolog.Logger

	// overridable in tests
	now   func() time.Time
	newID func() string
}

// New creates an empty archive. The mirror may be nil.
func New(mirror Mirror, logger zerolog.Logger) *Archive {
	return &Archive{
		selected: make(map[string]struct{}),
		mirror:   mirror,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Load replaces the archive contents, assigning a fresh id to any legacy
// entry that lacks one (the migration rule: identity is assigned at first
// read). Used to hydrate from the persisted mirror at startup.
func (a *Archive) Load(entries []models.AnalysisResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries = make([]models.AnalysisResult, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			e.ID = a.newID()
		}
		if _, dup := seen[e.ID]; dup {
			e.ID = a.newID()
		}
		seen[e.ID] = struct{}{}
		a.entries = append(a.entries, e)
	}
}

// Add re-keys the result with a fresh id and the current time, prepends it,
// and flushes the mirror. Returns the stored copy.
func (a *Archive) Add(result models.AnalysisResult) models.AnalysisResult {
	a.mu.Lock()
	result.ID = a.newID()
	result.Timestamp = a.now().UnixMilli()
	a.entries = append([]models.AnalysisResult{result}, a.entries...)
	snapshot := a.copyEntriesLocked()
	a.mu.Unlock()

	logging.LogArchive(a.logger, "add", result.ID, len(snapshot))
	a.flush(snapshot)
	return result
}

// Remove deletes the entry whose identity key equals key. A removal also
// prunes the key from the active selection, so an open selection never
// references an entry the archive no longer contains. No-op when absent.
func (a *Archive) Remove(key string) bool {
	a.mu.Lock()
	removed := false
	for i, e := range a.entries {
		if e.IdentityKey() == key {
			a.entries = append(a.entries[:i], a.entries[i+1:]...)
			removed = true
			break
		}
	}
	if removed {
		delete(a.selected, key)
	}
	snapshot := a.copyEntriesLocked()
	a.mu.Unlock()

	if removed {
		logging.LogArchive(a.logger, "remove", key, len(snapshot))
		a.flush(snapshot)
	}
	return removed
}

// List returns a copy of the archive in display order.
func (a *Archive) List() []models.AnalysisResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.copyEntriesLocked()
}

// Len returns the number of archived entries.
func (a *Archive) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// Export serializes the archive as a pretty-printed JSON array, order
// preserved.
func (a *Archive) Export() ([]byte, error) {
	a.mu.Lock()
	entries := a.copyEntriesLocked()
	a.mu.Unlock()

	if entries == nil {
		entries = []models.AnalysisResult{}
	}
	return json.MarshalIndent(entries, "", "  ")
}

// Import merges a snapshot. The import is atomic: if the snapshot is not a
// JSON array of result-shaped records, an ImportError is returned and the
// archive is unchanged. Imported entries lacking an id get a fresh one,
// duplicates are re-keyed rather than rejected, and everything is appended
// after the existing entries. Returns the number of entries merged.
func (a *Archive) Import(snapshot []byte) (int, error) {
	// json.Unmarshal accepts a top-level null into a slice; only a real
	// array counts as a snapshot.
	trimmed := bytes.TrimSpace(snapshot)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return 0, apperrors.NewImportError("snapshot is not a JSON array of results", nil)
	}

	var incoming []models.AnalysisResult
	if err := json.Unmarshal(trimmed, &incoming); err != nil {
		return 0, apperrors.NewImportError("snapshot is not a JSON array of results", err)
	}
	for i, e := range incoming {
		if e.Ticker == "" {
			return 0, apperrors.NewImportError(fmt.Sprintf("entry %d is not an analysis result: missing ticker", i), nil)
		}
	}

	a.mu.Lock()
	keys := make(map[string]struct{}, len(a.entries))
	for _, e := range a.entries {
		keys[e.IdentityKey()] = struct{}{}
	}
	for _, e := range incoming {
		if e.ID == "" {
			e.ID = a.newID()
		}
		if _, dup := keys[e.IdentityKey()]; dup {
			e.ID = a.newID()
		}
		keys[e.IdentityKey()] = struct{}{}
		a.entries = append(a.entries, e)
	}
	snapshotCopy := a.copyEntriesLocked()
	a.mu.Unlock()

	a.logger.Info().Int("merged", len(incoming)).Msg("Imported archive snapshot")
	a.flush(snapshotCopy)
	return len(incoming), nil
}

// SelectSubset filters to the entries whose identity key is in keys,
// preserving archive order. All selected entries must share one ticker;
// this is enforced here, not just in the UI, so the consistency engine can
// trust its input.
func (a *Archive) SelectSubset(keys []string) ([]models.AnalysisResult, error) {
	want := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	var subset []models.AnalysisResult
	ticker := ""
	for _, e := range a.entries {
		if _, ok := want[e.IdentityKey()]; !ok {
			continue
		}
		if ticker == "" {
			ticker = e.Ticker
		} else if e.Ticker != ticker {
			return nil, apperrors.NewSelectionError(
				fmt.Sprintf("selection mixes tickers %s and %s", ticker, e.Ticker))
		}
		subset = append(subset, e)
	}
	return subset, nil
}

// Select marks a key as part of the active selection.
func (a *Archive) Select(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selected[key] = struct{}{}
}

// Deselect removes a key from the active selection.
func (a *Archive) Deselect(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.selected, key)
}

// ClearSelection empties the active selection.
func (a *Archive) ClearSelection() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selected = make(map[string]struct{})
}

// Selection returns the active selection keys in archive order.
func (a *Archive) Selection() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var keys []string
	for _, e := range a.entries {
		if _, ok := a.selected[e.IdentityKey()]; ok {
			keys = append(keys, e.IdentityKey())
		}
	}
	return keys
}

// copyEntriesLocked returns a copy of the entries. Caller must hold the lock.
func (a *Archive) copyEntriesLocked() []models.AnalysisResult {
	out := make([]models.AnalysisResult, len(a.entries))
	copy(out, a.entries)
	return out
}

// flush writes the snapshot to the mirror, best-effort.
func (a *Archive) flush(entries []models.AnalysisResult) {
	if a.mirror == nil {
		return
	}
	if err := a.mirror.SaveVault(context.Background(), entries); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to mirror archive")
	}
}
