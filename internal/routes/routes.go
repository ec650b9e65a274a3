package routes

import (
	"net/http"

	"github.com/onegoal/onegoal/internal/app"
	"github.com/onegoal/onegoal/internal/handler"
	"github.com/onegoal/onegoal/internal/middleware"
	"github.com/onegoal/onegoal/internal/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes builds the API handler. limiter throttles the unauthenticated
// write endpoints; its cleanup loop is owned by the caller.
func SetupRoutes(app *app.App, limiter *middleware.RateLimiter) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg)
	user := handler.NewUserHandler(app.AuthService, app.UserService)
	goal := handler.NewGoalHandler(app.GoalService, app.ExportService)
	checkIn := handler.NewCheckInHandler(app.CheckInService)
	admin := handler.NewAdminHandler(app.AdminService)
	waitlist := handler.NewWaitlistHandler(app.WaitlistService)
	notification := handler.NewNotificationHandler(app.NotificationService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/health", health.Check)
	mux.Handle("GET /metrics", middleware.BasicAuth(app.Cfg.MetricsUser, app.Cfg.MetricsPassword, promhttp.Handler()))

	// Auth (rate limited)
	mux.HandleFunc("POST /api/auth/register", limiter.Limit(auth.Register))
	mux.HandleFunc("POST /api/auth/login", limiter.Limit(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("GET /api/auth/google", limiter.Limit(auth.GoogleAuth))
	mux.HandleFunc("GET /api/auth/google/callback", limiter.Limit(auth.GoogleCallback))

	// Waitlist
	mux.HandleFunc("POST /api/waitlist", limiter.Limit(waitlist.Join))

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(auth.Me))

	// Profile & account
	mux.HandleFunc("GET /api/users/profile", middleware.RequireAuth(user.Profile))
	mux.HandleFunc("PUT /api/users/profile", middleware.RequireAuth(user.UpdateProfile))
	mux.HandleFunc("PUT /api/users/password", middleware.RequireAuth(user.UpdatePassword))
	mux.HandleFunc("DELETE /api/users/account", middleware.RequireAuth(user.DeleteAccount))

	// Goals
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("GET /api/goals/active", middleware.RequireAuth(goal.Active))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goal.Get))
	mux.HandleFunc("PUT /api/goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))
	mux.HandleFunc("PUT /api/goals/{id}/complete", middleware.RequireAuth(goal.Complete))
	mux.HandleFunc("PUT /api/goals/{id}/archive", middleware.RequireAuth(goal.Archive))
	mux.HandleFunc("GET /api/goals/{id}/export", middleware.RequireAuth(goal.Export))
	mux.HandleFunc("POST /api/goals/{id}/export", middleware.RequireAuth(goal.Snapshot))

	// Check-ins
	mux.HandleFunc("POST /api/checkins", middleware.RequireAuth(checkIn.Submit))
	mux.HandleFunc("GET /api/checkins/today", middleware.RequireAuth(checkIn.Today))
	mux.HandleFunc("GET /api/checkins/streak", middleware.RequireAuth(checkIn.Streak))
	mux.HandleFunc("GET /api/checkins/stats", middleware.RequireAuth(checkIn.Stats))
	mux.HandleFunc("GET /api/checkins/{goalId}", middleware.RequireAuth(checkIn.List))

	// ============================================================================
	// ADMIN ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/admin/stats", middleware.RequireAdmin(admin.Stats))
	mux.HandleFunc("GET /api/admin/users", middleware.RequireAdmin(admin.Users))
	mux.HandleFunc("PUT /api/admin/users/{id}/role", middleware.RequireAdmin(admin.UpdateUserRole))
	mux.HandleFunc("DELETE /api/admin/users/{id}", middleware.RequireAdmin(admin.DeleteUser))
	mux.HandleFunc("GET /api/admin/goals", middleware.RequireAdmin(admin.Goals))

	mux.HandleFunc("GET /api/waitlist", middleware.RequireAdmin(waitlist.List))
	mux.HandleFunc("DELETE /api/waitlist/{email}", middleware.RequireAdmin(waitlist.Remove))

	mux.HandleFunc("POST /api/notifications/test/check-in", middleware.RequireAdmin(notification.CheckInReminders))
	mux.HandleFunc("POST /api/notifications/test/streak", middleware.RequireAdmin(notification.StreakMilestones))
	mux.HandleFunc("POST /api/notifications/test/deadline", middleware.RequireAdmin(notification.DeadlineWarnings))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		render.Message(w, http.StatusNotFound, "route not found")
	})

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.CORS(app.Cfg.CORSOrigins),
		middleware.Config(app.Cfg),
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService, app.UserService),
		middleware.CSRFProtection, // needs the session source set by AuthMiddleware
		middleware.Monitor,        // next to the mux so the matched pattern is visible
	)
}
