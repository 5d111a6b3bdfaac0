package village

import "context"

// State is the whole persisted world: every account plus every structure
// instance. The persistence boundary is snapshot-shaped: one full load at
// startup, one full save per committed mutation (or batched at the store's
// discretion).
type State struct {
	Roster     *Roster
	Structures *Collection
}

// NewState creates an empty state.
func NewState() *State {
	return &State{
		Roster:     NewRoster(),
		Structures: NewCollection(),
	}
}

// StateStore is the persistence boundary.
type StateStore interface {
	// Load reads the whole snapshot. An empty backing store yields an
	// empty state, not an error.
	Load(ctx context.Context) (*State, error)

	// Save writes the whole snapshot.
	Save(ctx context.Context, state *State) error
}
