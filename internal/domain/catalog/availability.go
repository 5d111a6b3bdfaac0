package catalog

import "sort"

// Availability is the derived per-tier view of one family.
// MaxLevel/MaxCount carry their own presence flags instead of pointers so
// the zero value is meaningful.
type Availability struct {
	FamilyID    string
	Label       string
	MaxLevel    int
	HasMaxLevel bool
	MaxCount    int
	HasMaxCount bool
	Available   bool
}

// TierAvailability is the categorized availability snapshot for one tier.
// Each list is sorted by label for deterministic presentation.
type TierAvailability struct {
	Army      []Availability
	Resources []Availability
	Defenses  []Availability
	Traps     []Availability
}

// AvailabilityForTier derives the categorized availability of every known
// family at the given tier. The result is fully determined by the snapshot
// and the tier, so it is memoized per tier.
func (s *Snapshot) AvailabilityForTier(tier int) TierAvailability {
	s.mu.Lock()
	cached, ok := s.availCache[tier]
	s.mu.Unlock()
	if ok {
		return cached
	}

	var result TierAvailability
	for _, id := range s.order {
		f := s.families[id]
		entry := availabilityFor(f, tier)
		switch f.Category() {
		case CategoryArmy:
			result.Army = append(result.Army, entry)
		case CategoryResources:
			result.Resources = append(result.Resources, entry)
		case CategoryDefenses:
			result.Defenses = append(result.Defenses, entry)
		case CategoryTraps:
			result.Traps = append(result.Traps, entry)
		}
	}

	sortByLabel(result.Army)
	sortByLabel(result.Resources)
	sortByLabel(result.Defenses)
	sortByLabel(result.Traps)

	s.mu.Lock()
	s.availCache[tier] = result
	s.mu.Unlock()
	return result
}

func availabilityFor(f *FamilyDef, tier int) Availability {
	entry := Availability{
		FamilyID: f.ID(),
		Label:    f.Label(),
	}

	maxLevel, ok := f.MaxLevelForTier(tier)
	entry.Available = ok
	if ok {
		entry.MaxLevel = maxLevel
		entry.HasMaxLevel = true
	}

	if count, ok := f.CountForTier(tier); ok {
		entry.MaxCount = count
		entry.HasMaxCount = true
	} else if entry.Available {
		// Singleton default: available families with no count table are
		// limited to one instance.
		entry.MaxCount = 1
		entry.HasMaxCount = true
	}

	return entry
}

func sortByLabel(list []Availability) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].Label < list[j].Label
	})
}

// MaxCountForTier resolves the effective instance cap of a family at a
// tier, applying the singleton default. Returns false when the family is
// unknown or unavailable.
func (s *Snapshot) MaxCountForTier(familyID string, tier int) (int, bool) {
	f, ok := s.families[familyID]
	if !ok {
		return 0, false
	}
	if _, available := f.MaxLevelForTier(tier); !available {
		return 0, false
	}
	if count, ok := f.CountForTier(tier); ok {
		return count, true
	}
	return 1, true
}

// MaxLevelForTier resolves the level cap of a family at a tier. Returns
// false when the family is unknown or unavailable.
func (s *Snapshot) MaxLevelForTier(familyID string, tier int) (int, bool) {
	f, ok := s.families[familyID]
	if !ok {
		return 0, false
	}
	return f.MaxLevelForTier(tier)
}
