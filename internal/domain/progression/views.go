// Package progression holds the read-only derived views consumed by
// reporting: builder-load distribution, soonest completion and the
// due-soon window. Everything here is pure: recomputed from the instance
// store and account metadata, never mutating either.
package progression

import (
	"sort"
	"time"

	"github.com/mateuspires/basetracker-go/internal/domain/village"
)

// BuildersBucket is one row of the builder-load distribution.
type BuildersBucket struct {
	Builders int
	Accounts int
}

// BuildersDistribution groups accounts by builder count, sorted descending
// by builders, ties broken by account count descending.
func BuildersDistribution(accounts []*village.Account) []BuildersBucket {
	counts := make(map[int]int)
	for _, acc := range accounts {
		counts[acc.Builders().Count()]++
	}

	buckets := make([]BuildersBucket, 0, len(counts))
	for builders, n := range counts {
		buckets = append(buckets, BuildersBucket{Builders: builders, Accounts: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Builders != buckets[j].Builders {
			return buckets[i].Builders > buckets[j].Builders
		}
		return buckets[i].Accounts > buckets[j].Accounts
	})
	return buckets
}

// UpgradeEvent is one running upgrade joined with its account metadata.
type UpgradeEvent struct {
	InstanceID   string
	AccountID    string
	AccountLabel string
	Tier         int
	FamilyID     string
	Slot         int
	EndsAt       time.Time
	Remaining    time.Duration
}

// NextCompletion returns the running upgrade with the smallest end time
// strictly after now, or nil when nothing is running.
func NextCompletion(roster *village.Roster, structures *village.Collection, now time.Time) *UpgradeEvent {
	var next *UpgradeEvent
	for _, inst := range structures.InProgressAll() {
		endsAt, ok := inst.Work().EndsAt()
		if !ok || !endsAt.After(now) {
			continue
		}
		if next == nil || endsAt.Before(next.EndsAt) {
			event := newEvent(roster, inst, endsAt, now)
			next = &event
		}
	}
	return next
}

// DueWithin returns every running upgrade finishing inside the horizon
// (including ones already due), sorted ascending by remaining time.
func DueWithin(roster *village.Roster, structures *village.Collection, now time.Time, horizon time.Duration) []UpgradeEvent {
	var due []UpgradeEvent
	for _, inst := range structures.InProgressAll() {
		endsAt, ok := inst.Work().EndsAt()
		if !ok {
			continue
		}
		remaining := endsAt.Sub(now)
		if remaining < 0 || remaining > horizon {
			continue
		}
		due = append(due, newEvent(roster, inst, endsAt, now))
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].Remaining != due[j].Remaining {
			return due[i].Remaining < due[j].Remaining
		}
		return due[i].InstanceID < due[j].InstanceID
	})
	return due
}

// ActiveAccounts reports how many accounts have at least one upgrade still
// running, against the roster total.
func ActiveAccounts(roster *village.Roster, structures *village.Collection, now time.Time) (active, total int) {
	running := make(map[string]bool)
	for _, inst := range structures.InProgressAll() {
		if endsAt, ok := inst.Work().EndsAt(); ok && endsAt.After(now) {
			running[inst.AccountID()] = true
		}
	}
	return len(running), roster.Len()
}

func newEvent(roster *village.Roster, inst *village.StructureInstance, endsAt time.Time, now time.Time) UpgradeEvent {
	event := UpgradeEvent{
		InstanceID:   inst.ID(),
		AccountID:    inst.AccountID(),
		AccountLabel: inst.AccountID(),
		Tier:         inst.TierAtCapture(),
		FamilyID:     inst.FamilyID(),
		Slot:         inst.Slot(),
		EndsAt:       endsAt,
	}
	if remaining := endsAt.Sub(now); remaining > 0 {
		event.Remaining = remaining
	}
	if acc, ok := roster.Account(inst.AccountID()); ok {
		event.AccountLabel = acc.Label()
		event.Tier = acc.Tier()
	}
	return event
}
