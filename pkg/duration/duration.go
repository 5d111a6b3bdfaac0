package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Catalog documents express build times as compact strings like "7d12h",
// "2h 30m", "45m" or "10s". time.ParseDuration has no day unit, so the
// codec lives here instead.

var pattern = regexp.MustCompile(`^(?:(\d+)d)?\s*(?:(\d+)h)?\s*(?:(\d+)m)?\s*(?:(\d+)s)?$`)

// Parse converts a duration string into a time.Duration.
// Units may appear in any combination but must stay in d/h/m/s order.
func Parse(input string) (time.Duration, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, fmt.Errorf("empty duration string")
	}

	m := pattern.FindStringSubmatch(strings.ToLower(trimmed))
	if m == nil {
		return 0, fmt.Errorf("malformed duration string: %q", input)
	}

	var total time.Duration
	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second}
	matched := false
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("malformed duration string: %q", input)
		}
		total += time.Duration(n) * unit
		matched = true
	}
	if !matched {
		return 0, fmt.Errorf("malformed duration string: %q", input)
	}

	return total, nil
}

// Format renders a duration as a compact string, dropping zero units.
// Sub-second remainders are discarded. Zero and negative durations
// render as "0s".
func Format(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	if len(parts) == 0 {
		return "0s"
	}
	return strings.Join(parts, " ")
}
