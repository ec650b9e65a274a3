package service

import (
	"testing"
	"time"

	"github.com/onegoal/onegoal/internal/model"
	"github.com/onegoal/onegoal/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInService_SubmitMergesSameDay(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com")
	goal := env.createGoal(t, user.ID, 30*24*time.Hour)

	first, created, err := env.checkIns.Submit(user.ID, CheckInInput{
		GoalID:   goal.ID,
		Progress: intPtr(20),
		Note:     "Ran 5k",
		Mood:     model.MoodGood,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, UTCMidnight(env.clock.Now()).Equal(first.Date))

	env.clock.now = env.clock.now.Add(2 * time.Hour)
	second, created, err := env.checkIns.Submit(user.ID, CheckInInput{GoalID: goal.ID, Progress: intPtr(30)})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 30, second.Progress)
	assert.Equal(t, "Ran 5k", second.Note)
	assert.Equal(t, model.MoodGood, second.Mood)

	third, _, err := env.checkIns.Submit(user.ID, CheckInInput{GoalID: goal.ID, Progress: intPtr(35), Mood: model.MoodGreat})
	require.NoError(t, err)
	assert.Equal(t, "Ran 5k", third.Note)
	assert.Equal(t, model.MoodGreat, third.Mood)

	reloaded, err := env.goalRepo.ByID(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 35, reloaded.Progress)

	checkIns, err := env.checkIns.CheckIns(user.ID, goal.ID)
	require.NoError(t, err)
	assert.Len(t, checkIns, 1)
}

func TestCheckInService_SubmitRejections(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	other := env.createUser(t, "other@example.com")
	goal := env.createGoal(t, owner.ID, 30*24*time.Hour)

	_, _, err := env.checkIns.Submit(other.ID, CheckInInput{GoalID: goal.ID, Progress: intPtr(10)})
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	_, _, err = env.checkIns.Submit(owner.ID, CheckInInput{GoalID: goal.ID})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "progress", vErr.Field)

	_, _, err = env.checkIns.Submit(owner.ID, CheckInInput{GoalID: goal.ID, Progress: intPtr(10), Mood: "ecstatic"})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "mood", vErr.Field)

	_, err = env.goals.Archive(owner.ID, goal.ID)
	require.NoError(t, err)

	_, _, err = env.checkIns.Submit(owner.ID, CheckInInput{GoalID: goal.ID, Progress: intPtr(10)})
	assert.ErrorIs(t, err, ErrGoalNotActive)
}

func TestCheckInService_StreakAndStats(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com")
	goal := env.createGoal(t, user.ID, 30*24*time.Hour)

	for _, progress := range []int{40, 60, 100} {
		env.checkIn(t, user.ID, goal.ID, progress)
		env.clock.advance(1)
	}

	// The last check-in was yesterday, so the streak survives.
	streak, err := env.checkIns.Streak(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)

	stats, err := env.checkIns.Stats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalCheckIns)
	assert.Equal(t, 67, stats.AvgProgress)

	env.clock.advance(1)
	streak, err = env.checkIns.Streak(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestCheckInService_WithoutActiveGoal(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com")

	streak, err := env.checkIns.Streak(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)

	stats, err := env.checkIns.Stats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalCheckIns)

	_, err = env.checkIns.Today(user.ID)
	assert.ErrorIs(t, err, ErrNoActiveGoal)
}

func TestCheckInService_Today(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ana@example.com")
	goal := env.createGoal(t, user.ID, 30*24*time.Hour)

	today, err := env.checkIns.Today(user.ID)
	require.NoError(t, err)
	assert.Equal(t, goal.ID, today.Goal.ID)
	assert.Nil(t, today.CheckIn)

	env.checkIn(t, user.ID, goal.ID, 15)

	today, err = env.checkIns.Today(user.ID)
	require.NoError(t, err)
	require.NotNil(t, today.CheckIn)
	assert.Equal(t, 15, today.CheckIn.Progress)
}
