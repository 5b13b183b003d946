package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/helpinghand-api/internal/application/auth"
	"github.com/helpinghand-api/internal/application/otp"
	"github.com/helpinghand-api/internal/config"
	"github.com/helpinghand-api/internal/transport/http/handler"
	appmiddleware "github.com/helpinghand-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.Issuer, deps.UserRepo)

	// 5 requests/second, burst of 10. Applied to public credential endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	otpSvc := otp.NewService(otp.ServiceDeps{
		OTPRepo:        deps.OTPRepo,
		SMSSender:      deps.SMSSender,
		Mailer:         deps.Mailer,
		TTL:            cfg.OTPExpiration,
		TokenLength:    cfg.RandomStringChars,
		DeveloperEmail: cfg.DeveloperEmail,
		Features:       cfg.Features,
	})
	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:        deps.UserRepo,
		Issuer:          deps.Issuer,
		OTPService:      otpSvc,
		Mailer:          deps.Mailer,
		AllowedAttempts: cfg.AllowedLoginAttempts,
		BlockDuration:   cfg.LoginBlockDuration,
		EmailCodeTTL:    cfg.EmailCodeExpiration,
		Features:        cfg.Features,
	})

	healthH := handler.NewHealthHandler()
	sessionH := handler.NewSessionHandler(authSvc, cfg.Features)
	userH := handler.NewUserHandler(authSvc, cfg.Features)
	phoneH := handler.NewPhoneVerificationHandler(otpSvc, cfg.Features)
	emailH := handler.NewEmailConfirmHandler(authSvc, cfg.Features)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/phone-verification/{action}", phoneH.Action)
		r.With(sensitiveRL.Limit).Post("/users/signup", userH.Signup)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)

			r.Get("/roles", handler.ListRoles)
			r.Get("/users/profile", userH.GetProfile)
			r.Put("/users/profile", userH.UpdateProfile)
			r.Post("/users/change-password", userH.ChangePassword)
			r.Post("/confirm-email/{action}", emailH.Action)
		})
	})

	return r
}
