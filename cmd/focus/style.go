package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/benjamonnguyen/focus-go/clock"
	"github.com/benjamonnguyen/focus-go/events"
	"github.com/benjamonnguyen/focus-go/progression"
	"github.com/benjamonnguyen/focus-go/session"
)

var (
	labelStyle   = lipgloss.NewStyle().Bold(true)
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	restStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	debtStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	levelUpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Bold(true).Padding(0, 1)
	goalStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// renderStatus is the one-line session display.
func renderStatus(c *session.Coordinator, skill string) string {
	var mode, timer string
	switch {
	case c.Focusing():
		mode = focusStyle.Render("focus")
		timer = clock.FormatSeconds(c.CurrentClockSeconds())
	case c.Resting():
		mode = restStyle.Render("break")
		timer = clock.FormatSeconds(c.CurrentClockSeconds())
	case c.Paused():
		mode = mutedStyle.Render("paused")
		timer = "--:--"
	default:
		mode = mutedStyle.Render("idle")
		timer = "--:--"
	}

	earned := c.ProjectedBreakSeconds()
	earnedText := clock.FormatSeconds(earned)
	if earned < 0 {
		earnedText = debtStyle.Render(earnedText)
		if c.Resting() {
			timer = debtStyle.Render(timer)
		}
	}

	return strings.Join([]string{
		mode + " " + timer,
		labelStyle.Render("skill") + " " + skill,
		labelStyle.Render("break") + " " + earnedText,
		labelStyle.Render("focused") + " " + clock.FormatSeconds(c.TotalFocusedSeconds()),
		labelStyle.Render("rested") + " " + clock.FormatSeconds(c.TotalRestedSeconds()),
	}, "  ")
}

func renderSettlement(s session.Settlement) string {
	var parts []string
	if s.FocusedSeconds > 0 {
		parts = append(parts, fmt.Sprintf("focused %s", clock.FormatSeconds(s.FocusedSeconds)))
	}
	if s.XP > 0 && s.Skill != nil {
		parts = append(parts, fmt.Sprintf("+%d xp %s (%d/%d)", s.XP, s.Skill.Name, s.Skill.XP, s.Skill.XPToNextLevel))
	}
	if s.CreditedSeconds > 0 {
		parts = append(parts, fmt.Sprintf("+%s break", clock.FormatSeconds(s.CreditedSeconds)))
	}
	if s.DebitedSeconds > 0 {
		parts = append(parts, fmt.Sprintf("-%s break", clock.FormatSeconds(s.DebitedSeconds)))
	}
	return strings.Join(parts, ", ")
}

// levelUpPrinter writes a banner for every LevelGained event.
func levelUpPrinter(w io.Writer) events.Handler {
	return func(_ context.Context, _ events.Kind, payload any) error {
		ev, ok := payload.(progression.LevelGained)
		if !ok {
			return fmt.Errorf("unexpected payload %T", payload)
		}
		_, err := fmt.Fprintln(w, levelUpStyle.Render(fmt.Sprintf("%s reached level %d", ev.Skill.Name, ev.Skill.Level)))
		return err
	}
}
