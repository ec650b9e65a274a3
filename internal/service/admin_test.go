package service

import (
	"testing"
	"time"

	"github.com/onegoal/onegoal/internal/model"
	"github.com/onegoal/onegoal/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_SelfGuards(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com")
	require.NoError(t, env.users.UpdateRole(admin.ID, model.RoleAdmin))

	_, err := env.admin.UpdateUserRole(admin.ID, admin.ID, model.RoleUser)
	assert.ErrorIs(t, err, ErrCannotModifySelf)

	err = env.admin.DeleteUser(admin.ID, admin.ID)
	assert.ErrorIs(t, err, ErrCannotModifySelf)
}

func TestAdminService_ManageUsers(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com")
	member := env.createUser(t, "member@example.com")

	_, err := env.admin.UpdateUserRole(admin.ID, member.ID, "owner")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	promoted, err := env.admin.UpdateUserRole(admin.ID, member.ID, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, promoted.Role)

	_, err = env.admin.UpdateUserRole(admin.ID, "missing", model.RoleAdmin)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	require.NoError(t, env.admin.DeleteUser(admin.ID, member.ID))
	_, err = env.users.ByID(member.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestAdminService_Listings(t *testing.T) {
	env := newTestEnv(t)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		user := env.createUser(t, email)
		env.createGoal(t, user.ID, 72*time.Hour)
	}

	users, err := env.admin.Users(1, 2, "", "")
	require.NoError(t, err)
	assert.Len(t, users.Users, 2)
	assert.Equal(t, 3, users.Total)
	assert.Equal(t, 2, users.Pages)

	found, err := env.admin.Users(1, 0, "b@example", "")
	require.NoError(t, err)
	require.Len(t, found.Users, 1)
	assert.Equal(t, "b@example.com", found.Users[0].Email)

	goals, err := env.admin.Goals(0, 0, model.GoalStatusActive)
	require.NoError(t, err)
	assert.Len(t, goals.Goals, 3)
	assert.Equal(t, 1, goals.Page.Page)
	assert.Equal(t, 3, goals.Goals[0].DaysRemaining)
	assert.NotEmpty(t, goals.Goals[0].UserEmail)

	stats, err := env.admin.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 3, stats.ActiveGoals)
	assert.Equal(t, 3, stats.RecentSignups)
}

func TestWaitlistService(t *testing.T) {
	env := newTestEnv(t)

	entry, err := env.waitlist.Join(" Early@Example.com ", "")
	require.NoError(t, err)
	assert.Equal(t, "early@example.com", entry.Email)

	_, err = env.waitlist.Join("early@example.com", "Early Bird")
	assert.ErrorIs(t, err, ErrAlreadyOnWaitlist)

	_, err = env.waitlist.Join("nope", "")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.Field)

	entries, err := env.waitlist.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, env.waitlist.Remove("EARLY@example.com"))
	entries, err = env.waitlist.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)

	err = env.waitlist.Remove("early@example.com")
	assert.ErrorIs(t, err, repository.ErrWaitlistEntryNotFound)
}

func TestExportService(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	other := env.createUser(t, "other@example.com")
	goal := env.createGoal(t, owner.ID, 30*24*time.Hour)

	env.checkIn(t, owner.ID, goal.ID, 40)
	env.clock.advance(1)
	env.checkIn(t, owner.ID, goal.ID, 60)

	export, err := env.exports.Export(owner.ID, goal.ID)
	require.NoError(t, err)
	assert.Len(t, export.CheckIns, 2)
	assert.Equal(t, 50, export.Stats.AvgProgress)
	require.NotNil(t, export.Streak)
	assert.Equal(t, 2, *export.Streak)

	_, err = env.exports.Export(other.ID, goal.ID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	_, err = env.goals.Complete(owner.ID, goal.ID)
	require.NoError(t, err)
	export, err = env.exports.Export(owner.ID, goal.ID)
	require.NoError(t, err)
	assert.Nil(t, export.Streak)

	// Snapshots need object storage, which the test env does not configure.
	_, err = env.exports.Snapshot(owner.ID, goal.ID)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
