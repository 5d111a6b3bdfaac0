package catalog

// MaxLevelForTier scans all rows whose tier requirement is satisfied and
// returns the greatest level among them. The second return is false when no
// row qualifies, meaning the family is not available at that tier.
func MaxLevelForTier(rows []LevelRow, tier int) (int, bool) {
	max := 0
	found := false
	for _, row := range rows {
		if row.TierRequired > tier {
			continue
		}
		if !found || row.Level > max {
			max = row.Level
			found = true
		}
	}
	return max, found
}

// CountForTier is an exact-match lookup in a per-tier instance-count table.
// The second return is false when the table is absent or carries no row for
// the tier; the caller then applies the singleton default.
func CountForTier(table []CountRow, tier int) (int, bool) {
	for _, row := range table {
		if row.Tier == tier {
			return row.Count, true
		}
	}
	return 0, false
}
