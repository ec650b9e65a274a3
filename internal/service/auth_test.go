package service

import (
	"testing"
	"time"

	"github.com/onegoal/onegoal/internal/model"
	"github.com/onegoal/onegoal/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct-horse-battery"

func registerUser(t *testing.T, env *testEnv, email string) *model.User {
	t.Helper()

	user, err := env.auth.Register(RegisterInput{
		Email:     email,
		Password:  testPassword,
		FirstName: "Ana",
		LastName:  "Lopez",
	})
	require.NoError(t, err)
	return user
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	user := registerUser(t, env, "  Ana@Example.com ")
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.Equal(t, "Ana Lopez", user.Name)
	assert.Len(t, env.mailer.sentOf(emailWelcome), 1)

	_, err := env.auth.Register(RegisterInput{
		Email:     "ANA@example.com",
		Password:  testPassword,
		FirstName: "Ana",
		LastName:  "Again",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	loggedIn, err := env.auth.Login("ana@example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	require.NotNil(t, loggedIn.LastLoginAt)

	_, err = env.auth.Login("ana@example.com", "wrong-password-entirely")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login("nobody@example.com", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{"bad email", RegisterInput{Email: "not-an-email", Password: testPassword, FirstName: "A", LastName: "B"}, "email"},
		{"missing first name", RegisterInput{Email: "a@example.com", Password: testPassword, LastName: "B"}, "firstName"},
		{"short password", RegisterInput{Email: "a@example.com", Password: "short", FirstName: "A", LastName: "B"}, "password"},
		{"common password", RegisterInput{Email: "a@example.com", Password: "mypassword1234", FirstName: "A", LastName: "B"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(tt.input)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestAuthService_OAuthAccountCannotUsePassword(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.AuthenticateOAuth("g@example.com", "Gil", "Ramos", model.AuthProviderGoogle)
	require.NoError(t, err)
	assert.False(t, user.HasPassword())

	again, err := env.auth.AuthenticateOAuth("G@example.com", "Gil", "Ramos", model.AuthProviderGoogle)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	_, err = env.auth.Login("g@example.com", testPassword)
	assert.ErrorIs(t, err, ErrOAuthAccount)
}

func TestAuthService_JWT(t *testing.T) {
	env := newTestEnv(t)
	env.clock.now = time.Now().UTC()
	user := env.createUser(t, "ana@example.com")

	token, expiresAt, err := env.auth.GenerateJWT(user)
	require.NoError(t, err)
	assert.WithinDuration(t, env.clock.Now().Add(time.Hour), expiresAt, time.Second)

	claims, err := env.auth.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)

	_, err = env.auth.VerifyJWT(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(env.users, nil, env.clock, "another-secret", time.Hour, false)
	_, err = other.VerifyJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	env.clock.now = time.Now().UTC().Add(-2 * time.Hour)
	expired, _, err := env.auth.GenerateJWT(user)
	require.NoError(t, err)
	_, err = env.auth.VerifyJWT(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserService_Password(t *testing.T) {
	env := newTestEnv(t)
	user := registerUser(t, env, "ana@example.com")

	err := env.userService.UpdatePassword(user.ID, "wrong-current-pass", "brand-new-secret-42")
	assert.ErrorIs(t, err, ErrInvalidCurrentPassword)

	err = env.userService.UpdatePassword(user.ID, testPassword, "short")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "newPassword", vErr.Field)

	require.NoError(t, env.userService.UpdatePassword(user.ID, testPassword, "brand-new-secret-42"))

	_, err = env.auth.Login("ana@example.com", "brand-new-secret-42")
	assert.NoError(t, err)

	oauthUser, err := env.auth.AuthenticateOAuth("g@example.com", "Gil", "Ramos", model.AuthProviderGoogle)
	require.NoError(t, err)
	err = env.userService.UpdatePassword(oauthUser.ID, "", "brand-new-secret-42")
	assert.ErrorIs(t, err, ErrPasswordlessAccount)
}

func TestUserService_UpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	user := registerUser(t, env, "ana@example.com")

	updated, err := env.userService.UpdateProfile(user.ID, " Ana María ", "Lopez")
	require.NoError(t, err)
	assert.Equal(t, "Ana María Lopez", updated.Name)

	_, err = env.userService.UpdateProfile(user.ID, "", "Lopez")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "firstName", vErr.Field)
}

func TestUserService_DeleteAccountCascades(t *testing.T) {
	env := newTestEnv(t)
	user := registerUser(t, env, "ana@example.com")
	goal := env.createGoal(t, user.ID, 72*time.Hour)
	env.checkIn(t, user.ID, goal.ID, 50)

	err := env.userService.DeleteAccount(user.ID, "not-the-password")
	assert.ErrorIs(t, err, ErrInvalidCurrentPassword)

	require.NoError(t, env.userService.DeleteAccount(user.ID, testPassword))

	_, err = env.users.ByID(user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = env.goalRepo.ByID(goal.ID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	checkIns, err := env.checkInRepo.CheckIns(goal.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, checkIns)

	assert.Len(t, env.mailer.sentOf(emailAccountDeleted), 1)
}
