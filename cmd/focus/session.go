package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/benjamonnguyen/focus-go/progression"
	"github.com/benjamonnguyen/focus-go/session"
)

const clearLine = "\r\x1b[K"

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Run an interactive focus session",
	Long: `Run an interactive focus session.

Commands are read line by line from stdin:
  f       focus
  b       take a break (grants XP for the focus run)
  p       pause or unpause
  s NAME  switch the active skill
  q       settle the current interval and quit`,
	Args: cobra.NoArgs,
	RunE: withApp(runSession),
}

var sessionSkill string

func init() {
	sessionCmd.Flags().StringVarP(&sessionSkill, "skill", "s", "", "active skill (default from settings)")
	rootCmd.AddCommand(sessionCmd)
}

type skillFinder interface {
	SkillByName(ctx context.Context, name string) (progression.Skill, error)
}

type sessionLoop struct {
	coord  *session.Coordinator
	skills skillFinder
	skill  string
	out    io.Writer
	l      *log.Logger
}

func runSession(ctx context.Context, a *app, _ []string) error {
	name := sessionSkill
	if name == "" {
		name = a.settings.DefaultSkill
	}
	skill, err := a.svc.SkillByName(ctx, name)
	if err != nil {
		return fmt.Errorf("skill %q: %w", name, err)
	}

	coord := session.New(session.ConfigFromSettings(a.settings), a.svc, a.history, nil, a.l)
	coord.SetActiveSkill(skill.ID)

	unsubscribe := a.bus.Subscribe(progression.LevelGainedKind, levelUpPrinter(a.out))
	defer unsubscribe()

	loop := &sessionLoop{
		coord:  coord,
		skills: a.svc,
		skill:  skill.Name,
		out:    a.out,
		l:      a.l,
	}
	return loop.run(ctx, os.Stdin, time.Second)
}

// run serializes every coordinator call on the calling goroutine.
func (s *sessionLoop) run(ctx context.Context, in io.Reader, refresh time.Duration) error {
	// Scan cannot be interrupted, so after q or cancel the reader stays
	// blocked on stdin until the process exits.
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	s.println("f focus, b break, p pause, s NAME skill, q quit")
	for {
		select {
		case <-ctx.Done():
			s.quit(context.WithoutCancel(ctx))
			return ctx.Err()
		case <-ticker.C:
			s.render()
		case line, ok := <-lines:
			if !ok {
				s.quit(ctx)
				return nil
			}
			if s.handle(ctx, line) {
				return nil
			}
			s.render()
		}
	}
}

// handle runs one input line and reports whether the session is over.
func (s *sessionLoop) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch strings.ToLower(fields[0]) {
	case "f", "focus":
		s.report(s.coord.EnterFocus(ctx))
	case "b", "break", "r", "rest":
		settled, err := s.coord.EnterRest(ctx)
		if err != nil {
			s.fail(err)
			return false
		}
		s.report(settled)
	case "p", "pause":
		if s.coord.Paused() {
			s.coord.Unpause(ctx)
		} else {
			s.coord.Pause(ctx)
		}
	case "s", "skill":
		if len(fields) < 2 {
			s.println("usage: s NAME")
			return false
		}
		name := strings.Join(fields[1:], " ")
		skill, err := s.skills.SkillByName(ctx, name)
		if err != nil {
			s.fail(fmt.Errorf("skill %q: %w", name, err))
			return false
		}
		s.coord.SetActiveSkill(skill.ID)
		s.skill = skill.Name
		s.println("active skill " + skill.Name)
	case "q", "quit", "exit":
		return s.quit(ctx)
	case "h", "help", "?":
		s.println("f focus, b break, p pause, s NAME skill, q quit")
	default:
		s.println(fmt.Sprintf("unknown command %q", fields[0]))
	}
	return false
}

func (s *sessionLoop) quit(ctx context.Context) bool {
	settled, err := s.coord.End(ctx)
	if err != nil {
		s.fail(err)
		return false
	}
	s.report(settled)
	s.println(renderStatus(s.coord, s.skill))
	return true
}

func (s *sessionLoop) render() {
	fmt.Fprint(s.out, clearLine+renderStatus(s.coord, s.skill)) //nolint
}

func (s *sessionLoop) report(settled session.Settlement) {
	if msg := renderSettlement(settled); msg != "" {
		s.println(msg)
	}
}

func (s *sessionLoop) fail(err error) {
	s.l.Error("session command failed", "err", err)
	s.println(debtStyle.Render(err.Error()))
}

func (s *sessionLoop) println(msg string) {
	fmt.Fprintln(s.out, clearLine+msg) //nolint
}
