package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/barzda/barbershop-api/internal/database"
	"github.com/barzda/barbershop-api/internal/http/handlers"
	imw "github.com/barzda/barbershop-api/internal/http/middleware"
	"github.com/barzda/barbershop-api/internal/platform/mailer"
	"github.com/barzda/barbershop-api/internal/repo/postgres"
	"github.com/barzda/barbershop-api/internal/scheduling"
	"github.com/barzda/barbershop-api/internal/service"
	"github.com/barzda/barbershop-api/pkg/config"
	"github.com/barzda/barbershop-api/pkg/events"
	"github.com/barzda/barbershop-api/pkg/logger"
	mw "github.com/barzda/barbershop-api/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.Shop.Timezone)
	if err != nil {
		logger.Error("Invalid business timezone", "timezone", cfg.Shop.Timezone, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if migration, err := os.ReadFile("db/migrations/001_init.sql"); err != nil {
		logger.Warn("Migration file not found, skipping", "error", err)
	} else if _, err := pool.Exec(ctx, string(migration)); err != nil {
		logger.Warn("Migration warning", "error", err)
	} else {
		logger.Info("Migration applied")
	}

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	var mail mailer.Service
	switch {
	case cfg.Email.DevMode:
		mail = mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		mail = mailer.NewMailerSend(cfg.Email.MailerSendKey, "Barbershop", cfg.Email.SMTPFrom)
	default:
		mail = mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPFrom, cfg.Email.SMTPUser, cfg.Email.SMTPPass)
	}

	apptRepo := postgres.NewAppointmentsRepo(pool)
	userRepo := postgres.NewUsersRepo(pool)

	calendar := scheduling.NewCalendar(loc)
	bookingService := service.NewBookingService(calendar, apptRepo, userRepo, eventBus, mail)
	authService := service.NewAuthService(userRepo, mail, eventBus, cfg)
	userDirectory := service.NewUserDirectory(userRepo)

	h := handlers.New(bookingService, authService, loc)
	admin := handlers.NewAdminHandler(bookingService, userDirectory)

	authLimiter := imw.NewRateLimiter(pool, imw.RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
	})

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/availability", h.GetAvailability)

	r.Route("/auth", func(r chi.Router) {
		r.Use(authLimiter.Middleware())
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Use(imw.RequireJWT(cfg.Auth.JWTSecret, ""))
		r.Post("/", h.CreateAppointment)
		r.Get("/", h.ListAppointments)
		r.Delete("/{id}", h.CancelAppointment)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(imw.RequireJWT(cfg.Auth.JWTSecret, "admin"))
		r.Get("/appointments", admin.ListAppointments)
		r.Get("/users", admin.ListUsers)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	}()

	logger.Info("Starting barbershop api", "port", cfg.Server.Port, "timezone", cfg.Shop.Timezone)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
