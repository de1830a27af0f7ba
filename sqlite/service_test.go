package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamonnguyen/focus-go"
	"github.com/benjamonnguyen/focus-go/events"
	"github.com/benjamonnguyen/focus-go/progression"
)

func TestProgressionService_Persists(t *testing.T) {
	tdb := openTestDB(t)
	repos := progression.Repos{
		Skills: NewSkillRepo(tdb.dbGetter, tdb.l),
		Stats:  NewStatRepo(tdb.dbGetter, tdb.l),
		Goals:  NewGoalRepo(tdb.dbGetter, tdb.l),
	}
	bus := events.NewBus(tdb.l)
	var kinds []events.Kind
	bus.SubscribeAll(func(_ context.Context, kind events.Kind, _ any) error {
		kinds = append(kinds, kind)
		return nil
	})
	svc := progression.NewService(repos, tdb.tx, bus, tdb.l)
	ctx := context.Background()

	for _, seed := range focus.DefaultSettings().Skills {
		_, err := svc.EnsureSkill(ctx, seed)
		require.NoError(t, err)
	}
	skills, err := svc.Skills(ctx)
	require.NoError(t, err)
	assert.Len(t, skills, len(focus.DefaultSettings().Skills))

	goal, err := svc.CreateGoal(ctx, progression.NewGoalRequest{
		Title:          "Finish the course",
		Difficulty:     focus.DifficultyHard,
		MainSkill:      "reading",
		SecondarySkill: "studying",
	})
	require.NoError(t, err)

	_, completed, err := svc.CompleteGoal(ctx, goal.ID)
	require.NoError(t, err)
	require.True(t, completed)

	reading, err := svc.SkillByName(ctx, "reading")
	require.NoError(t, err)
	assert.Equal(t, 3, reading.Level)
	assert.Equal(t, 150, reading.XP)

	studying, err := svc.SkillByName(ctx, "studying")
	require.NoError(t, err)
	assert.Equal(t, 2, studying.Level)

	// reading and studying both drive intelligence
	assert.Equal(t, 1+4+2, reading.MainStat.Value)
	assert.Equal(t, 1+2, reading.SecondaryStat.Value)

	assert.Equal(t, progression.GoalCompletedKind, kinds[len(kinds)-1])

	_, completed, err = svc.CompleteGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.False(t, completed)
}

func TestProgressionService_CreateGoalCreatesSkills(t *testing.T) {
	tdb := openTestDB(t)
	repos := progression.Repos{
		Skills: NewSkillRepo(tdb.dbGetter, tdb.l),
		Stats:  NewStatRepo(tdb.dbGetter, tdb.l),
		Goals:  NewGoalRepo(tdb.dbGetter, tdb.l),
	}
	svc := progression.NewService(repos, tdb.tx, nil, tdb.l)
	ctx := context.Background()

	// the secondary skill cannot be created, so the main one is rolled back
	_, err := svc.CreateGoal(ctx, progression.NewGoalRequest{
		Title:          "x",
		MainSkill:      "painting",
		MainStat:       "dexterity",
		SecondarySkill: "sculpting",
	})
	require.ErrorIs(t, err, focus.ErrNotFound)
	_, err = svc.SkillByName(ctx, "painting")
	require.ErrorIs(t, err, focus.ErrNotFound)

	goal, err := svc.CreateGoal(ctx, progression.NewGoalRequest{
		Title:          "Paint a portrait",
		MainSkill:      "painting",
		MainStat:       "dexterity",
		SecondarySkill: "sculpting",
		SecondaryStat:  "dexterity",
	})
	require.NoError(t, err)

	stored, err := svc.Goal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, "painting", stored.MainSkill.Name)
	assert.Equal(t, "sculpting", stored.SecondarySkill.Name)
	assert.Same(t, stored.MainSkill.MainStat, stored.SecondarySkill.MainStat)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Len(t, stats, 1)

	_, completed, err := svc.CompleteGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.True(t, completed)
}
