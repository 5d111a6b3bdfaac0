package duration_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateuspires/basetracker-go/pkg/duration"
)

func TestParse_CombinedUnits(t *testing.T) {
	d, err := duration.Parse("1d4h30m")
	require.NoError(t, err)
	assert.Equal(t, 28*time.Hour+30*time.Minute, d)
}

func TestParse_SpacesBetweenUnits(t *testing.T) {
	d, err := duration.Parse("12d 12h")
	require.NoError(t, err)
	assert.Equal(t, 12*24*time.Hour+12*time.Hour, d)
}

func TestParse_SingleUnit(t *testing.T) {
	d, err := duration.Parse("10s")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)
}

func TestParse_Malformed(t *testing.T) {
	for _, input := range []string{"", "abc", "4x", "h4", "1.5h"} {
		_, err := duration.Parse(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestFormat_DropsZeroUnits(t *testing.T) {
	assert.Equal(t, "1d 4h 30m", duration.Format(28*time.Hour+30*time.Minute))
	assert.Equal(t, "45m", duration.Format(45*time.Minute))
	assert.Equal(t, "0s", duration.Format(0))
	assert.Equal(t, "0s", duration.Format(-time.Minute))
}

func TestFormat_RoundTripsParse(t *testing.T) {
	d, err := duration.Parse("7d6h")
	require.NoError(t, err)
	assert.Equal(t, "7d 6h", duration.Format(d))
}
