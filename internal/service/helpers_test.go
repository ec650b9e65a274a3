package service

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/onegoal/onegoal/internal/db"
	"github.com/onegoal/onegoal/internal/model"
	"github.com/onegoal/onegoal/internal/repository"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func (c *fixedClock) advance(days int) {
	c.now = c.now.AddDate(0, 0, days)
}

type sentEmail struct {
	kind  string
	to    string
	value int
}

type fakeMailer struct {
	mu      sync.Mutex
	sent    []sentEmail
	failFor map[string]bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failFor: map[string]bool{}}
}

func (m *fakeMailer) record(kind, to string, value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failFor[to] {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, sentEmail{kind: kind, to: to, value: value})
	return nil
}

func (m *fakeMailer) sentOf(kind string) []sentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []sentEmail
	for _, e := range m.sent {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (m *fakeMailer) SendWelcome(email, name string) error {
	return m.record(emailWelcome, email, 0)
}

func (m *fakeMailer) SendAccountDeleted(email, name string) error {
	return m.record(emailAccountDeleted, email, 0)
}

func (m *fakeMailer) SendCheckInReminder(email, name string) error {
	return m.record(emailCheckInReminder, email, 0)
}

func (m *fakeMailer) SendStreakMilestone(email, name string, streak int) error {
	return m.record(emailStreakMilestone, email, streak)
}

func (m *fakeMailer) SendDeadlineWarning(email, name, goalTitle string, daysLeft, progress int) error {
	return m.record(emailDeadlineWarning, email, daysLeft)
}

func (m *fakeMailer) SendGoalCompleted(email, name, goalTitle string) error {
	return m.record(emailGoalCompleted, email, 0)
}

// testEnv wires the services over a migrated SQLite database.
type testEnv struct {
	db            *sqlx.DB
	clock         *fixedClock
	mailer        *fakeMailer
	users         repository.UserRepository
	goalRepo      repository.GoalRepository
	checkInRepo   repository.CheckInRepository
	auth          *AuthService
	userService   *UserService
	goals         *GoalService
	checkIns      *CheckInService
	exports       *ExportService
	admin         *AdminService
	waitlist      *WaitlistService
	notifications *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	database, err := db.Init(db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(database) })

	require.NoError(t, db.RunMigrations(database.DB, db.DriverSQLite))

	clock := &fixedClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	mailer := newFakeMailer()

	users := repository.NewUserRepository(database)
	goalRepo := repository.NewGoalRepository(database)
	checkInRepo := repository.NewCheckInRepository(database)
	files := NewFileService(repository.NewFileRepository(database), nil, clock)
	userService := NewUserService(users, files, mailer)

	return &testEnv{
		db:          database,
		clock:       clock,
		mailer:      mailer,
		users:       users,
		goalRepo:    goalRepo,
		checkInRepo: checkInRepo,
		auth:        NewAuthService(users, mailer, clock, "test-secret", time.Hour, false),
		userService: userService,
		goals:       NewGoalService(goalRepo, users, mailer, clock),
		checkIns:    NewCheckInService(goalRepo, checkInRepo, clock),
		exports:     NewExportService(goalRepo, checkInRepo, files, clock),
		admin: NewAdminService(
			users,
			goalRepo,
			repository.NewStatsRepository(database),
			userService,
			clock,
		),
		waitlist: NewWaitlistService(repository.NewWaitlistRepository(database), clock),
		notifications: NewNotificationService(
			goalRepo,
			checkInRepo,
			repository.NewNotificationRepository(database),
			mailer,
			clock,
		),
	}
}

// createUser inserts a user directly, skipping password hashing.
func (e *testEnv) createUser(t *testing.T, email string) *model.User {
	t.Helper()

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         "Test User",
		FirstName:    "Test",
		LastName:     "User",
		Role:         model.RoleUser,
		AuthProvider: model.AuthProviderEmail,
		CreatedAt:    e.clock.Now(),
	}
	require.NoError(t, e.users.Create(user))
	return user
}

func (e *testEnv) createGoal(t *testing.T, userID string, deadlineIn time.Duration) *model.Goal {
	t.Helper()

	goal, err := e.goals.Create(userID, GoalInput{
		Title:    "Run a marathon",
		Deadline: e.clock.Now().Add(deadlineIn),
	})
	require.NoError(t, err)
	return goal
}

func (e *testEnv) checkIn(t *testing.T, userID, goalID string, progress int) *model.CheckIn {
	t.Helper()

	checkIn, _, err := e.checkIns.Submit(userID, CheckInInput{GoalID: goalID, Progress: &progress})
	require.NoError(t, err)
	return checkIn
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}
