// Package baseline persists accepted finding sets and classifies how a
// current scan drifts from them. A snapshot is immutable once written;
// accepting a new scan always produces a new document.
package baseline

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/vulndelta/vulndelta/pkg/finding"
	"github.com/vulndelta/vulndelta/pkg/jsonutil"
)

// Version is the current snapshot file format version.
const Version = "1.0"

// ErrNotFound is returned when a snapshot file does not exist.
var ErrNotFound = errors.New("baseline snapshot not found")

// ErrInvalid is returned when a snapshot file is malformed.
var ErrInvalid = errors.New("invalid baseline snapshot")

// Snapshot is a versioned, immutable collection of accepted findings.
// Entries carry a status so a finding that was marked fixed and later
// reappears can be told apart from a brand-new one.
type Snapshot struct {
	Version     string            `json:"version"`
	GeneratedAt time.Time         `json:"generated_at"`
	Findings    []finding.Finding `json:"findings"`
}

// Load reads and validates a snapshot from path. Returns ErrNotFound if
// the file does not exist and ErrInvalid if it cannot be parsed.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var s Snapshot
	if err := jsonutil.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if s.Version == "" {
		return nil, fmt.Errorf("%w: missing version field", ErrInvalid)
	}
	return &s, nil
}

// Save writes the snapshot to path. Writes to a temporary file first,
// then renames, so a crash never leaves a truncated snapshot behind.
func (s *Snapshot) Save(path string) error {
	data, err := jsonutil.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming snapshot: %w", err)
	}
	return nil
}

// Accept builds the snapshot that records current as the new baseline.
// Current findings are stored with status open. Prior entries with no
// current match are carried forward with status fixed, which is what
// lets a later scan that reproduces one of them count as a regression
// instead of a new finding.
func Accept(current []finding.Finding, prior *Snapshot, now time.Time) *Snapshot {
	snap := &Snapshot{
		Version:     Version,
		GeneratedAt: now.UTC(),
		Findings:    make([]finding.Finding, 0, len(current)),
	}
	for _, f := range current {
		entry := f.Clone()
		entry.Status = finding.StatusOpen
		snap.Findings = append(snap.Findings, entry)
	}
	if prior == nil {
		return snap
	}
	for _, old := range prior.Findings {
		if matchIndex(old, current) >= 0 {
			continue
		}
		carried := old.Clone()
		carried.Status = finding.StatusFixed
		snap.Findings = append(snap.Findings, carried)
	}
	return snap
}
