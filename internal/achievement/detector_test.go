package achievement

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadencehq/cadence/internal/models"
)

func TestDetect_SingleThreshold(t *testing.T) {
	t.Parallel()

	badge, ok := Detect(5, 8, DefaultCatalog()).Get()
	require.True(t, ok)
	assert.Equal(t, 7, badge.ThresholdDays)
}

func TestDetect_MultiThresholdJumpEmitsLowest(t *testing.T) {
	t.Parallel()

	// 5 -> 35 crosses 7, 14 and 30 at once; only the lowest newly
	// crossed badge is reported.
	badge, ok := Detect(5, 35, DefaultCatalog()).Get()
	require.True(t, ok)
	assert.Equal(t, 7, badge.ThresholdDays)
}

func TestDetect_NoCrossing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		prev, nw int
	}{
		{"below first threshold", 0, 2},
		{"no improvement", 7, 7},
		{"already past threshold", 10, 12},
		{"regression", 10, 4},
		{"past entire catalog", 150, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.True(t, Detect(tt.prev, tt.nw, DefaultCatalog()).IsAbsent())
		})
	}
}

func TestDetect_ExactThreshold(t *testing.T) {
	t.Parallel()

	badge, ok := Detect(2, 3, DefaultCatalog()).Get()
	require.True(t, ok)
	assert.Equal(t, 3, badge.ThresholdDays)
}

func TestDetect_Stateless(t *testing.T) {
	t.Parallel()

	// Same inputs, same answer: the detector holds no memory between
	// calls. Idempotence across sessions is the caller's job via the
	// persisted previous best.
	first := Detect(5, 8, DefaultCatalog())
	second := Detect(5, 8, DefaultCatalog())
	assert.Equal(t, first, second)
}

func TestValidateCatalog(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateCatalog(DefaultCatalog()))
	assert.Error(t, ValidateCatalog(nil))
	assert.Error(t, ValidateCatalog([]models.Badge{
		{ThresholdDays: 7, Label: "a"},
		{ThresholdDays: 3, Label: "b"},
	}))
	assert.Error(t, ValidateCatalog([]models.Badge{
		{ThresholdDays: 0, Label: "zero"},
	}))
	assert.Error(t, ValidateCatalog([]models.Badge{
		{ThresholdDays: 3},
	}))
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "badges.yaml")
	content := `badges:
  - threshold_days: 5
    label: "5-day streak"
    icon: flame
  - threshold_days: 10
    label: "10-day streak"
    icon: medal
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	assert.Equal(t, 5, catalog[0].ThresholdDays)
	assert.Equal(t, models.IconMedal, catalog[1].Icon)
}

func TestLoadCatalog_Invalid(t *testing.T) {
	t.Parallel()

	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("badges:\n  - threshold_days: -1\n    label: x\n"), 0o600))
	_, err = LoadCatalog(path)
	assert.Error(t, err)
}
