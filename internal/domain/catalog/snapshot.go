package catalog

import (
	"fmt"
	"sync"
)

// Snapshot is an immutable view of the whole catalog: every known family
// definition plus any warnings collected while loading them. Reloading the
// catalog produces a new Snapshot value; an existing snapshot never changes,
// so availability results stay deterministic for a given snapshot reference
// and the snapshot is safe for any number of concurrent readers.
type Snapshot struct {
	families map[string]*FamilyDef
	order    []string
	warnings []string

	mu         sync.Mutex
	availCache map[int]TierAvailability
}

// NewSnapshot builds a snapshot from loaded family definitions. Warnings
// describe families whose documents were absent or unreadable; those
// families are expected to be present as unavailable placeholders.
func NewSnapshot(families []*FamilyDef, warnings []string) (*Snapshot, error) {
	s := &Snapshot{
		families:   make(map[string]*FamilyDef, len(families)),
		order:      make([]string, 0, len(families)),
		warnings:   append([]string(nil), warnings...),
		availCache: make(map[int]TierAvailability),
	}
	for _, f := range families {
		if f == nil {
			return nil, fmt.Errorf("nil family definition")
		}
		if _, exists := s.families[f.ID()]; exists {
			return nil, fmt.Errorf("duplicate family definition: %s", f.ID())
		}
		s.families[f.ID()] = f
		s.order = append(s.order, f.ID())
	}
	return s, nil
}

// Family looks up one family definition by id.
func (s *Snapshot) Family(id string) (*FamilyDef, bool) {
	f, ok := s.families[id]
	return f, ok
}

// Families returns all definitions in load order.
func (s *Snapshot) Families() []*FamilyDef {
	out := make([]*FamilyDef, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.families[id])
	}
	return out
}

// Warnings reports the per-family load problems carried by this snapshot.
func (s *Snapshot) Warnings() []string {
	return append([]string(nil), s.warnings...)
}
