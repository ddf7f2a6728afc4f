package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/config"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/notification"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/session"
	appHTTP "github.com/cmlabs-hris/timesheet-portal/internal/handler/http"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/cron"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/database"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/email"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/jwt"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/oauth"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/sheets"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/sse"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/webhook"
	"github.com/cmlabs-hris/timesheet-portal/internal/repository/memory"
	"github.com/cmlabs-hris/timesheet-portal/internal/repository/postgresql"
	redisRepo "github.com/cmlabs-hris/timesheet-portal/internal/repository/redis"
	attendanceService "github.com/cmlabs-hris/timesheet-portal/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/timesheet-portal/internal/service/auth"
	employeeService "github.com/cmlabs-hris/timesheet-portal/internal/service/employee"
	notificationService "github.com/cmlabs-hris/timesheet-portal/internal/service/notification"
	"github.com/go-chi/httplog/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timesheet-portal"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	var db *database.DB
	if cfg.UsesPostgres() {
		db, err = database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			log.Fatal("Error connecting to database: ", err)
		}
	}

	var records attendance.RecordStoreProvider
	switch cfg.RecordStore.Type {
	case config.RecordStoreSheets:
		records = sheets.NewProvider(sheets.Config{
			SpreadsheetID: cfg.RecordStore.SpreadsheetID,
			Title:         cfg.RecordStore.SpreadsheetTitle,
			SheetName:     cfg.RecordStore.SheetName,
			ShareWith:     cfg.RecordStore.ShareWith,
		})
	case config.RecordStorePostgres:
		timesheetRepo := postgresql.NewTimesheetRepository(db)
		if err := timesheetRepo.EnsureSchema(context.Background()); err != nil {
			log.Fatal("Error preparing timesheet table: ", err)
		}
		records = timesheetRepo
	case config.RecordStoreMemory:
		records = memory.NewTimesheetStore()
	}
	slog.Info("Record store selected", "type", cfg.RecordStore.Type)

	var rdb *database.Redis
	var sessionRepo session.Repository
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		rdb, err = database.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
		if err != nil {
			log.Fatal("Error connecting to redis: ", err)
		}
		sessionRepo = redisRepo.NewSessionRepository(rdb)
	case config.SessionStorePostgres:
		pgSessions := postgresql.NewSessionRepository(db)
		if err := pgSessions.EnsureSchema(context.Background()); err != nil {
			log.Fatal("Error preparing sessions table: ", err)
		}
		sessionRepo = pgSessions
	default:
		sessionRepo = memory.NewSessionStore()
	}
	slog.Info("Session store selected", "type", cfg.Session.Store)

	var sinks notification.Sinks
	if cfg.Webhook.URL != "" {
		sinks = append(sinks, webhook.NewClient(cfg.Webhook.URL, cfg.Webhook.Format, cfg.Webhook.Timeout))
	}
	if cfg.SMTP.Host != "" {
		emailSink, err := email.NewSink(cfg.SMTP)
		if err != nil {
			log.Fatal("Failed to initialize email sink: ", err)
		}
		sinks = append(sinks, emailSink)
	}
	var sink notification.Sink
	if len(sinks) > 0 {
		sink = sinks
	}
	hub := sse.NewHub()
	notifier := notificationService.NewNotificationService(sink, hub, notificationService.Config{
		WorkerCount: cfg.Webhook.WorkerCount,
		QueueSize:   cfg.Webhook.QueueSize,
		SendTimeout: cfg.Webhook.Timeout,
	})

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.App.Env == "production")
	GoogleService := oauth.NewGoogleService(
		cfg.OAuth2Google.ClientID,
		cfg.OAuth2Google.ClientSecret,
		cfg.OAuth2Google.RedirectURL,
		cfg.OAuth2Google.Scopes,
		cfg.OAuth2Google.AuthURL,
		cfg.OAuth2Google.TokenURL,
	)

	employeeSvc := employeeService.NewEmployeeService(cfg.Employees)
	sessionSvc := serviceAuth.NewAuthService(GoogleService, sessionRepo, employeeSvc, cfg.Session.TTL)
	attendanceSvc := attendanceService.NewAttendanceService(sessionSvc, records, employeeSvc, notifier, cfg.Location())

	scheduler := cron.NewScheduler()
	cron.NewSessionJobs(sessionSvc, cfg.Session.CleanupInterval).RegisterJobs(scheduler)
	scheduler.Start()

	router := appHTTP.NewRouter(logger, cfg.App.AllowedOrigins, JWTService, sessionSvc, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(JWTService, sessionSvc, cfg.App.FrontendURL),
		Session:      appHTTP.NewSessionHandler(sessionSvc, JWTService),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc, JWTService),
		Notification: appHTTP.NewNotificationHandler(notifier),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server running", "addr", "http://localhost"+server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}

	scheduler.Stop()
	notifier.Stop()
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("Redis close error", "error", err)
		}
	}
	if db != nil {
		db.Close()
	}
}
