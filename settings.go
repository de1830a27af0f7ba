package focus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SkillSeed describes a skill created on first use.
type SkillSeed struct {
	Name          string `yaml:"name"`
	MainStat      string `yaml:"main_stat"`
	SecondaryStat string `yaml:"secondary_stat,omitempty"`
}

// Settings are the user tunables for focus accounting.
type Settings struct {
	FocusBreakRatio      int         `yaml:"focus_break_ratio"`
	BaseXPPerPomodoro    int         `yaml:"base_xp_per_pomodoro"`
	PomodoroBlockSeconds int         `yaml:"pomodoro_block_seconds"`
	XPCap                int         `yaml:"xp_cap"` // negative means uncapped
	DefaultSkill         string      `yaml:"default_skill"`
	Skills               []SkillSeed `yaml:"skills"`
}

func DefaultSettings() Settings {
	return Settings{
		FocusBreakRatio:      3,
		BaseXPPerPomodoro:    10,
		PomodoroBlockSeconds: 25 * 60,
		XPCap:                15,
		DefaultSkill:         "reading",
		Skills: []SkillSeed{
			{Name: "reading", MainStat: "intelligence", SecondaryStat: "willpower"},
			{Name: "studying", MainStat: "intelligence"},
			{Name: "exercising", MainStat: "vitality", SecondaryStat: "willpower"},
			{Name: "meditating", MainStat: "willpower", SecondaryStat: "vitality"},
			{Name: "crafting", MainStat: "dexterity"},
		},
	}
}

// LoadSettings reads settings from YAML. A missing file yields defaults;
// non-positive numbers in the file keep their default.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData Settings
	if err := yaml.Unmarshal(raw, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applySettings(&settings, fileData)
	if err := settings.Validate(); err != nil {
		return DefaultSettings(), err
	}
	return settings, nil
}

// SaveSettings writes settings to YAML, creating the parent directory.
func SaveSettings(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	serialized, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func (s Settings) Validate() error {
	for _, seed := range s.Skills {
		if strings.TrimSpace(seed.Name) == "" || strings.TrimSpace(seed.MainStat) == "" {
			return fmt.Errorf("skill seeds require 'name' and 'main_stat'")
		}
	}
	if s.DefaultSkill == "" {
		return nil
	}
	for _, seed := range s.Skills {
		if strings.EqualFold(seed.Name, s.DefaultSkill) {
			return nil
		}
	}
	return fmt.Errorf("default skill %q is not among configured skills", s.DefaultSkill)
}

func applySettings(settings *Settings, fileData Settings) {
	if fileData.FocusBreakRatio > 0 {
		settings.FocusBreakRatio = fileData.FocusBreakRatio
	}
	if fileData.BaseXPPerPomodoro > 0 {
		settings.BaseXPPerPomodoro = fileData.BaseXPPerPomodoro
	}
	if fileData.PomodoroBlockSeconds > 0 {
		settings.PomodoroBlockSeconds = fileData.PomodoroBlockSeconds
	}
	// an omitted cap reads as 0; a negative one turns the cap off
	if fileData.XPCap != 0 {
		settings.XPCap = fileData.XPCap
	}
	if len(fileData.Skills) > 0 {
		settings.Skills = fileData.Skills
		// keep the default skill valid when the list is replaced
		settings.DefaultSkill = fileData.Skills[0].Name
	}
	if fileData.DefaultSkill != "" {
		settings.DefaultSkill = fileData.DefaultSkill
	}
}
