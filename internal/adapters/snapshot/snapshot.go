// Package snapshot writes compressed point-in-time copies of the tracked
// world to disk, alongside the database. Snapshots are plain JSON under
// zstd so they double as an offline backup a human can inspect.
package snapshot

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/mateuspires/basetracker-go/internal/domain/village"
)

// FileV1 is the on-disk snapshot shape
type FileV1 struct {
	Version    int           `json:"version"`
	SavedAt    time.Time     `json:"saved_at"`
	Accounts   []AccountV1   `json:"accounts"`
	Structures []StructureV1 `json:"structures"`
}

// AccountV1 is one account in a snapshot file
type AccountV1 struct {
	ID            string                  `json:"id"`
	Label         string                  `json:"label"`
	Tier          int                     `json:"tier"`
	Notes         string                  `json:"notes,omitempty"`
	Builders      int                     `json:"builders"`
	SixthUnlocked bool                    `json:"sixth_unlocked,omitempty"`
	Gold          int64                   `json:"gold"`
	Elixir        int64                   `json:"elixir"`
	DarkElixir    int64                   `json:"dark_elixir"`
	ActiveUpgrade *village.AccountUpgrade `json:"active_upgrade,omitempty"`
}

// StructureV1 is one structure instance in a snapshot file
type StructureV1 struct {
	AccountID     string     `json:"account_id"`
	FamilyID      string     `json:"family_id"`
	Slot          int        `json:"slot"`
	Level         int        `json:"level"`
	TierAtCapture int        `json:"tier_at_capture"`
	WorkEndsAt    *time.Time `json:"work_ends_at,omitempty"`
	Note          string     `json:"note,omitempty"`
}

// Store writes and reads snapshot files under one directory
type Store struct {
	dir  string
	keep int
}

// NewStore creates a snapshot store. keep bounds the number of retained
// files; older ones are pruned after each write.
func NewStore(dir string, keep int) *Store {
	if keep < 1 {
		keep = 1
	}
	return &Store{dir: dir, keep: keep}
}

// Write serializes the state to a timestamped file and prunes old ones
func (s *Store) Write(state *village.State, now time.Time) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, fmt.Sprintf("state-%s.json.zst", now.UTC().Format("20060102T150405Z")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return "", err
	}

	bw := bufio.NewWriter(enc)
	if err := json.NewEncoder(bw).Encode(stateToFile(state, now)); err != nil {
		enc.Close()
		return "", fmt.Errorf("snapshot encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}

	return path, s.prune()
}

// Read restores a state from one snapshot file
func (s *Store) Read(path string) (*village.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var file FileV1
	if err := json.NewDecoder(bufio.NewReader(dec)).Decode(&file); err != nil {
		return nil, fmt.Errorf("snapshot decode: %w", err)
	}
	return fileToState(&file)
}

// Latest returns the newest snapshot path, or empty when none exist
func (s *Store) Latest() string {
	paths := s.list()
	if len(paths) == 0 {
		return ""
	}
	return paths[len(paths)-1]
}

// list returns snapshot paths sorted oldest first. Timestamped names sort
// lexically in time order.
func (s *Store) list() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) == ".zst" {
			paths = append(paths, filepath.Join(s.dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths
}

func (s *Store) prune() error {
	paths := s.list()
	for len(paths) > s.keep {
		if err := os.Remove(paths[0]); err != nil {
			return err
		}
		paths = paths[1:]
	}
	return nil
}

func stateToFile(state *village.State, now time.Time) *FileV1 {
	file := &FileV1{Version: 1, SavedAt: now.UTC()}

	for _, acc := range state.Roster.Accounts() {
		file.Accounts = append(file.Accounts, AccountV1{
			ID:            acc.ID(),
			Label:         acc.Label(),
			Tier:          acc.Tier(),
			Notes:         acc.Notes(),
			Builders:      acc.Builders().Count(),
			SixthUnlocked: acc.Builders().SixthUnlocked(),
			Gold:          acc.Ledger().Gold(),
			Elixir:        acc.Ledger().Elixir(),
			DarkElixir:    acc.Ledger().DarkElixir(),
			ActiveUpgrade: acc.ActiveUpgrade(),
		})
	}

	for _, inst := range state.Structures.All() {
		row := StructureV1{
			AccountID:     inst.AccountID(),
			FamilyID:      inst.FamilyID(),
			Slot:          inst.Slot(),
			Level:         inst.Level(),
			TierAtCapture: inst.TierAtCapture(),
			Note:          inst.Note(),
		}
		if endsAt, ok := inst.Work().EndsAt(); ok {
			utc := endsAt.UTC()
			row.WorkEndsAt = &utc
		}
		file.Structures = append(file.Structures, row)
	}
	return file
}

func fileToState(file *FileV1) (*village.State, error) {
	state := village.NewState()

	for _, row := range file.Accounts {
		builders := village.RestoreBuilderPool(row.Builders, row.SixthUnlocked)
		ledger := village.RestoreResourceLedger(row.Gold, row.Elixir, row.DarkElixir)
		acc := village.RestoreAccount(row.ID, row.Label, row.Tier, row.Notes, builders, ledger)
		acc.SetActiveUpgrade(row.ActiveUpgrade)
		if err := state.Roster.Add(acc); err != nil {
			return nil, fmt.Errorf("snapshot account %s: %w", row.ID, err)
		}
	}

	for _, row := range file.Structures {
		work := village.IdleWork()
		if row.WorkEndsAt != nil {
			work = village.InProgressWork(row.WorkEndsAt.UTC())
		}
		state.Structures.Restore(village.RestoreStructureInstance(
			row.AccountID, row.FamilyID, row.Slot, row.Level,
			row.TierAtCapture, work, row.Note,
		))
	}
	return state, nil
}
