package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/benjamonnguyen/focus-go"
	"github.com/benjamonnguyen/focus-go/clock"
	"github.com/benjamonnguyen/focus-go/progression"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List skills with their level and stats",
	Args:  cobra.NoArgs,
	RunE:  withApp(runSkills),
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "List stats",
	Args:  cobra.NoArgs,
	RunE:  withApp(runStats),
}

var grantCmd = &cobra.Command{
	Use:   "grant <skill> <xp>",
	Short: "Grant XP to a skill",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runGrant),
}

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Manage goals",
}

// goals add
var goalsAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runGoalsAdd),
}

var (
	goalsAddSkill       string
	goalsAddSecondary   string
	goalsAddDifficulty  string
	goalsAddDescription string
	goalsAddMainStat    string
	goalsAddSecondStat  string
)

// goals list
var goalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open goals",
	Args:  cobra.NoArgs,
	RunE:  withApp(runGoalsList),
}

var goalsListAll bool

// goals complete
var goalsCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Complete a goal and exchange it for XP",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runGoalsComplete),
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the focus, break and pause totals of a day",
	Args:  cobra.NoArgs,
	RunE:  withApp(runHistory),
}

var historyDate string

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show settings, or write the defaults with --init",
	Args:  cobra.NoArgs,
	RunE:  withApp(runSettings),
}

var settingsInit bool

func init() {
	goalsAddCmd.Flags().StringVar(&goalsAddSkill, "skill", "", "main skill (required)")
	goalsAddCmd.Flags().StringVar(&goalsAddSecondary, "secondary", "", "secondary skill")
	goalsAddCmd.Flags().StringVar(&goalsAddDifficulty, "difficulty", string(focus.DifficultyEasy), "easy, medium, hard or project")
	goalsAddCmd.Flags().StringVarP(&goalsAddDescription, "description", "d", "", "description")
	goalsAddCmd.Flags().StringVar(&goalsAddMainStat, "main-stat", "", "main stat, creates the main skill if it does not exist")
	goalsAddCmd.Flags().StringVar(&goalsAddSecondStat, "secondary-stat", "", "stat for a secondary skill that does not exist")
	_ = goalsAddCmd.MarkFlagRequired("skill")

	goalsListCmd.Flags().BoolVarP(&goalsListAll, "all", "a", false, "include completed goals")

	historyCmd.Flags().StringVar(&historyDate, "date", "", "day as YYYY-MM-DD (default today, UTC)")

	settingsCmd.Flags().BoolVar(&settingsInit, "init", false, "write default settings if the file does not exist")

	goalsCmd.AddCommand(goalsAddCmd, goalsListCmd, goalsCompleteCmd)
	rootCmd.AddCommand(skillsCmd, statsCmd, grantCmd, goalsCmd, historyCmd, settingsCmd)
}

func runSkills(ctx context.Context, a *app, _ []string) error {
	skills, err := a.svc.Skills(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SKILL\tLEVEL\tXP\tMAIN\tSECONDARY") //nolint
	for _, s := range skills {
		secondary := "-"
		if s.SecondaryStat != nil {
			secondary = s.SecondaryStat.Name
		}
		fmt.Fprintf(w, "%s\t%d\t%d/%d\t%s\t%s\n", s.Name, s.Level, s.XP, s.XPToNextLevel, s.MainStat.Name, secondary) //nolint
	}
	return w.Flush()
}

func runStats(ctx context.Context, a *app, _ []string) error {
	stats, err := a.svc.Stats(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STAT\tVALUE") //nolint
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\n", s.Name, s.Value) //nolint
	}
	return w.Flush()
}

func runGrant(ctx context.Context, a *app, args []string) error {
	amount, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("xp must be a number: %w", err)
	}
	skill, err := a.svc.SkillByName(ctx, args[0])
	if err != nil {
		return fmt.Errorf("skill %q: %w", args[0], err)
	}

	unsubscribe := a.bus.Subscribe(progression.LevelGainedKind, levelUpPrinter(a.out))
	defer unsubscribe()

	updated, err := a.svc.GrantXP(ctx, skill.ID, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: level %d, %d/%d xp\n", updated.Name, updated.Level, updated.XP, updated.XPToNextLevel) //nolint
	return nil
}

func runGoalsAdd(ctx context.Context, a *app, args []string) error {
	difficulty, err := focus.ParseDifficulty(goalsAddDifficulty)
	if err != nil {
		return err
	}

	goal, err := a.svc.CreateGoal(ctx, progression.NewGoalRequest{
		Title:          args[0],
		Description:    goalsAddDescription,
		Difficulty:     difficulty,
		MainSkill:      goalsAddSkill,
		SecondarySkill: goalsAddSecondary,
		MainStat:       goalsAddMainStat,
		SecondaryStat:  goalsAddSecondStat,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "added goal %s (%s)\n", goal.ID, goal.Difficulty) //nolint
	return nil
}

func runGoalsList(ctx context.Context, a *app, _ []string) error {
	goals, err := a.svc.Goals(ctx, goalsListAll)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tDIFFICULTY\tSKILLS\tDONE") //nolint
	for _, g := range goals {
		skills := g.MainSkill.Name
		if g.SecondarySkill != nil {
			skills += ", " + g.SecondarySkill.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", g.ID, g.Title, g.Difficulty, skills, g.Completed) //nolint
	}
	return w.Flush()
}

func runGoalsComplete(ctx context.Context, a *app, args []string) error {
	unsubscribe := a.bus.Subscribe(progression.LevelGainedKind, levelUpPrinter(a.out))
	defer unsubscribe()

	goal, completed, err := a.svc.CompleteGoal(ctx, focus.GoalID(args[0]))
	if err != nil {
		return err
	}
	if !completed {
		fmt.Fprintf(a.out, "%q was already completed\n", goal.Title) //nolint
		return nil
	}
	fmt.Fprintln(a.out, goalStyle.Render("completed "+goal.Title)) //nolint
	return nil
}

func runHistory(ctx context.Context, a *app, _ []string) error {
	day := time.Now().UTC()
	if historyDate != "" {
		var err error
		if day, err = time.Parse(time.DateOnly, historyDate); err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}

	totals, err := a.history.GetDailyTotals(ctx, day)
	if err != nil {
		return err
	}
	lapses, err := a.history.GetLapses(ctx, totals.Date, totals.Date.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "START\tEND\tKIND\tDURATION") //nolint
	for _, l := range lapses {
		seconds := int(l.End.Sub(l.Start) / time.Second)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.Start.Format(time.TimeOnly), l.End.Format(time.TimeOnly), l.Kind, clock.FormatSeconds(seconds)) //nolint
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\n%s  focused %s  rested %s  paused %s\n", //nolint
		totals.Date.Format(time.DateOnly),
		clock.FormatSeconds(totals.FocusSeconds),
		clock.FormatSeconds(totals.RestSeconds),
		clock.FormatSeconds(totals.PauseSeconds),
	)
	return nil
}

func runSettings(_ context.Context, a *app, _ []string) error {
	if settingsInit {
		if _, err := os.Stat(a.cfg.SettingsPath); err == nil {
			return fmt.Errorf("settings file already exists: %s", a.cfg.SettingsPath)
		}
		if err := focus.SaveSettings(a.cfg.SettingsPath, focus.DefaultSettings()); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "wrote", a.cfg.SettingsPath) //nolint
		return nil
	}

	s := a.settings
	limit := "uncapped"
	if s.XPCap > 0 {
		limit = fmt.Sprintf("capped at %d", s.XPCap)
	}
	fmt.Fprintf(a.out, "path: %s\nfocus/break ratio: %d\nxp: %d per %s, %s\ndefault skill: %s\n", //nolint
		a.cfg.SettingsPath, s.FocusBreakRatio, s.BaseXPPerPomodoro, clock.FormatSeconds(s.PomodoroBlockSeconds), limit, s.DefaultSkill)
	return nil
}
