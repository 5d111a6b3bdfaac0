package village

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mateuspires/basetracker-go/internal/domain/catalog"
	"github.com/mateuspires/basetracker-go/internal/domain/shared"
)

// BuilderPool is an account's concurrent-work capacity. The sixth builder
// is a separate unlock; while it is locked the pool caps at five.
type BuilderPool struct {
	count         int
	sixthUnlocked bool
}

// NewBuilderPool validates the count against the unlock state.
func NewBuilderPool(count int, sixthUnlocked bool) (BuilderPool, error) {
	p := BuilderPool{sixthUnlocked: sixthUnlocked}
	if err := p.SetCount(count); err != nil {
		return BuilderPool{}, err
	}
	return p, nil
}

func (p BuilderPool) Count() int          { return p.count }
func (p BuilderPool) SixthUnlocked() bool { return p.sixthUnlocked }

// Cap returns the maximum builder count under the current unlock state.
func (p BuilderPool) Cap() int {
	if p.sixthUnlocked {
		return 6
	}
	return 5
}

// SetCount changes the builder count within [1, Cap].
func (p *BuilderPool) SetCount(count int) error {
	if count < 1 || count > p.Cap() {
		return shared.NewValidationError("builders", fmt.Sprintf("count must be between 1 and %d, got %d", p.Cap(), count))
	}
	p.count = count
	return nil
}

// SetSixthUnlocked toggles the sixth-builder unlock. Revoking the unlock
// while six builders are configured clamps the count to five; work already
// in progress is not cancelled, the scheduler simply admits no new work
// until the load drops below the cap.
func (p *BuilderPool) SetSixthUnlocked(unlocked bool) {
	p.sixthUnlocked = unlocked
	if !unlocked && p.count > 5 {
		p.count = 5
	}
}

// ResourceLedger holds an account's stockpiles, each bounded by the
// capacity computed from tier and built storages.
type ResourceLedger struct {
	gold       int64
	elixir     int64
	darkElixir int64
}

func (l ResourceLedger) Gold() int64       { return l.gold }
func (l ResourceLedger) Elixir() int64     { return l.elixir }
func (l ResourceLedger) DarkElixir() int64 { return l.darkElixir }

// Amount returns the stored value for one resource.
func (l ResourceLedger) Amount(r catalog.Resource) int64 {
	switch r {
	case catalog.ResourceGold:
		return l.gold
	case catalog.ResourceElixir:
		return l.elixir
	case catalog.ResourceDarkElixir:
		return l.darkElixir
	}
	return 0
}

// Set stores a clamped value: negative values clamp to zero, values above
// the resource's cap clamp to the cap.
func (l *ResourceLedger) Set(r catalog.Resource, value int64, caps catalog.ResourceCaps) {
	clamped := catalog.Clamp(value, r, caps)
	switch r {
	case catalog.ResourceGold:
		l.gold = clamped
	case catalog.ResourceElixir:
		l.elixir = clamped
	case catalog.ResourceDarkElixir:
		l.darkElixir = clamped
	}
}

// ReclampAll re-applies the caps to every stored value. Called when tier or
// storage levels change.
func (l *ResourceLedger) ReclampAll(caps catalog.ResourceCaps) {
	l.gold = catalog.Clamp(l.gold, catalog.ResourceGold, caps)
	l.elixir = catalog.Clamp(l.elixir, catalog.ResourceElixir, caps)
	l.darkElixir = catalog.Clamp(l.darkElixir, catalog.ResourceDarkElixir, caps)
}

// Account is one tracked game account: its tier, builder pool and resource
// ledger. Structure instances live in the Collection, keyed by account id.
type Account struct {
	id            string
	label         string
	tier          int
	notes         string
	builders      BuilderPool
	ledger        ResourceLedger
	activeUpgrade *AccountUpgrade
}

// NewAccount creates an account. An empty id gets a generated uuid.
func NewAccount(id, label string, tier int) (*Account, error) {
	if strings.TrimSpace(label) == "" {
		return nil, shared.NewValidationError("label", "cannot be empty")
	}
	if tier < 1 {
		return nil, shared.NewValidationError("tier", fmt.Sprintf("must be at least 1, got %d", tier))
	}
	if id == "" {
		id = uuid.NewString()
	}

	builders, err := NewBuilderPool(1, false)
	if err != nil {
		return nil, err
	}

	return &Account{
		id:       id,
		label:    label,
		tier:     tier,
		builders: builders,
	}, nil
}

func (a *Account) ID() string             { return a.id }
func (a *Account) Label() string          { return a.label }
func (a *Account) Tier() int              { return a.tier }
func (a *Account) Notes() string          { return a.notes }
func (a *Account) Builders() BuilderPool  { return a.builders }
func (a *Account) Ledger() ResourceLedger { return a.ledger }

// Rename changes the display label.
func (a *Account) Rename(label string) error {
	if strings.TrimSpace(label) == "" {
		return shared.NewValidationError("label", "cannot be empty")
	}
	a.label = label
	return nil
}

// SetNotes replaces the free-form notes.
func (a *Account) SetNotes(notes string) {
	a.notes = notes
}

// SetTier raises the account's tier. Tier never decreases in this model;
// lowering is rejected so instance counts and levels stay legal.
func (a *Account) SetTier(tier int) error {
	if tier < a.tier {
		return shared.NewValidationError("tier", fmt.Sprintf("cannot decrease from %d to %d", a.tier, tier))
	}
	a.tier = tier
	return nil
}

// SetBuilders replaces the builder count.
func (a *Account) SetBuilders(count int) error {
	return a.builders.SetCount(count)
}

// SetSixthBuilderUnlocked toggles the sixth-builder unlock, clamping the
// count when revoked.
func (a *Account) SetSixthBuilderUnlocked(unlocked bool) {
	a.builders.SetSixthUnlocked(unlocked)
}

// SetResource stores a clamped resource value.
func (a *Account) SetResource(r catalog.Resource, value int64, caps catalog.ResourceCaps) {
	a.ledger.Set(r, value, caps)
}

// ReclampResources re-applies capacity bounds after tier or storage changes.
func (a *Account) ReclampResources(caps catalog.ResourceCaps) {
	a.ledger.ReclampAll(caps)
}

// RestoreAccount rebuilds an account from persisted state without
// re-validating tier history. Only repositories and the snapshot store
// should call this.
func RestoreAccount(id, label string, tier int, notes string, builders BuilderPool, ledger ResourceLedger) *Account {
	return &Account{
		id:       id,
		label:    label,
		tier:     tier,
		notes:    notes,
		builders: builders,
		ledger:   ledger,
	}
}

// RestoreBuilderPool rebuilds a pool from persisted counts, clamping into
// the legal range instead of failing on dirty data.
func RestoreBuilderPool(count int, sixthUnlocked bool) BuilderPool {
	p := BuilderPool{sixthUnlocked: sixthUnlocked}
	max := p.Cap()
	if count < 1 {
		count = 1
	}
	if count > max {
		count = max
	}
	p.count = count
	return p
}

// RestoreResourceLedger rebuilds a ledger from persisted values.
func RestoreResourceLedger(gold, elixir, darkElixir int64) ResourceLedger {
	clampZero := func(v int64) int64 {
		if v < 0 {
			return 0
		}
		return v
	}
	return ResourceLedger{
		gold:       clampZero(gold),
		elixir:     clampZero(elixir),
		darkElixir: clampZero(darkElixir),
	}
}
