package app

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/onegoal/onegoal/internal/config"
	"github.com/onegoal/onegoal/internal/db"
	"github.com/onegoal/onegoal/internal/repository"
	"github.com/onegoal/onegoal/internal/service"
	"github.com/onegoal/onegoal/internal/storage"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	Clock               service.Clock
	AuthService         *service.AuthService
	UserService         *service.UserService
	EmailService        *service.EmailService
	FileService         *service.FileService
	GoalService         *service.GoalService
	CheckInService      *service.CheckInService
	ExportService       *service.ExportService
	AdminService        *service.AdminService
	WaitlistService     *service.WaitlistService
	NotificationService *service.NotificationService
	SchedulerService    *service.SchedulerService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	emailService, err := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email service: %w", err)
	}

	a := Build(cfg, database, fileStorage, emailService, service.SystemClock)
	a.EmailService = emailService
	return a, nil
}

// Build wires repositories and services over an open database. Storage may be nil.
func Build(cfg *config.Config, database *sqlx.DB, fileStorage storage.Storage, mailer service.Mailer, clock service.Clock) *App {
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	checkInRepository := repository.NewCheckInRepository(database)
	waitlistRepository := repository.NewWaitlistRepository(database)
	notificationRepository := repository.NewNotificationRepository(database)
	statsRepository := repository.NewStatsRepository(database)
	fileRepository := repository.NewFileRepository(database)

	fileService := service.NewFileService(fileRepository, fileStorage, clock)
	authService := service.NewAuthService(
		userRepository,
		mailer,
		clock,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.IsProduction(),
	)
	userService := service.NewUserService(userRepository, fileService, mailer)
	goalService := service.NewGoalService(goalRepository, userRepository, mailer, clock)
	checkInService := service.NewCheckInService(goalRepository, checkInRepository, clock)
	exportService := service.NewExportService(goalRepository, checkInRepository, fileService, clock)
	adminService := service.NewAdminService(userRepository, goalRepository, statsRepository, userService, clock)
	waitlistService := service.NewWaitlistService(waitlistRepository, clock)
	notificationService := service.NewNotificationService(
		goalRepository,
		checkInRepository,
		notificationRepository,
		mailer,
		clock,
	)
	schedulerService := service.NewSchedulerService(notificationService, time.UTC)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		Clock:               clock,
		AuthService:         authService,
		UserService:         userService,
		FileService:         fileService,
		GoalService:         goalService,
		CheckInService:      checkInService,
		ExportService:       exportService,
		AdminService:        adminService,
		WaitlistService:     waitlistService,
		NotificationService: notificationService,
		SchedulerService:    schedulerService,
	}
}

// StartScheduler registers the notification jobs and starts the cron runner.
func (a *App) StartScheduler() error {
	err := a.SchedulerService.RegisterNotificationJobs(
		a.Cfg.CheckInReminderTime,
		a.Cfg.StreakCheckTime,
		a.Cfg.DeadlineWarningTime,
	)
	if err != nil {
		return fmt.Errorf("failed to schedule notifications: %w", err)
	}

	a.SchedulerService.Start()
	return nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
