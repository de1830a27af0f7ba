package focus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_MissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestLoadSettings_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("focus_break_ratio: 4\nxp_cap: 0\n"), 0o644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, 4, settings.FocusBreakRatio)
	assert.Equal(t, 15, settings.XPCap, "an omitted or zero cap keeps the default")
	assert.Equal(t, 10, settings.BaseXPPerPomodoro)
	assert.Equal(t, 1500, settings.PomodoroBlockSeconds)
}

func TestLoadSettings_NegativeCapDisablesCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("xp_cap: -1\n"), 0o644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, -1, settings.XPCap)
}

func TestLoadSettings_ReplacingSkillsMovesDefaultSkill(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	data := `
skills:
  - name: writing
    main_stat: intelligence
  - name: running
    main_stat: vitality
    secondary_stat: willpower
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "writing", settings.DefaultSkill)
	assert.Len(t, settings.Skills, 2)
	assert.Equal(t, "willpower", settings.Skills[1].SecondaryStat)
}

func TestLoadSettings_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{name: "bad yaml", data: "focus_break_ratio: [1"},
		{name: "seed without main stat", data: "skills:\n  - name: writing\n"},
		{name: "unknown default skill", data: "default_skill: juggling\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.data), 0o644))

			settings, err := LoadSettings(path)
			assert.Error(t, err)
			assert.Equal(t, DefaultSettings(), settings)
		})
	}
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	want := DefaultSettings()
	want.FocusBreakRatio = 5
	want.DefaultSkill = "studying"

	require.NoError(t, SaveSettings(path, want))
	got, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
