package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/session"
	"github.com/cmlabs-hris/timesheet-portal/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timesheet-portal/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth         AuthHandler
	Session      SessionHandler
	Employee     EmployeeHandler
	Attendance   AttendanceHandler
	Notification NotificationHandler
}

func NewRouter(
	logger *slog.Logger,
	allowedOrigins []string,
	JWTService jwt.Service,
	sessionService session.Service,
	h Handlers,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	verifier := jwtauth.Verify(JWTService.JWTAuth(), jwt.TokenFromCookie)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Get("/login/oauth/google", h.Auth.LoginWithGoogle)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)

			r.Group(func(r chi.Router) {
				r.Use(verifier)
				r.Post("/logout", h.Auth.Logout)

				r.With(middleware.SessionRequired(JWTService, sessionService)).
					Post("/confirm", h.Auth.Confirm)
			})
		})

		// Requires a session
		r.Group(func(r chi.Router) {
			r.Use(verifier)
			r.Use(middleware.SessionRequired(JWTService, sessionService))

			r.Get("/session", h.Session.Get)

			// Requires a confirmed sign-in
			r.Group(func(r chi.Router) {
				r.Use(middleware.ActiveRequired)

				r.Put("/session/employee", h.Session.SelectEmployee)
				r.Get("/employees", h.Employee.ListEmployees)

				r.Route("/attendance", func(r chi.Router) {
					r.Get("/today", h.Attendance.Today)
					r.Get("/events", h.Notification.Stream)
					r.Post("/{action}", h.Attendance.Perform)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
