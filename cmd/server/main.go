package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/otcheredev/nurse-call-service/internal/cache"
	"github.com/otcheredev/nurse-call-service/internal/config"
	"github.com/otcheredev/nurse-call-service/internal/database"
	"github.com/otcheredev/nurse-call-service/internal/handlers"
	"github.com/otcheredev/nurse-call-service/internal/middleware"
	"github.com/otcheredev/nurse-call-service/internal/models"
	"github.com/otcheredev/nurse-call-service/internal/repository"
	"github.com/otcheredev/nurse-call-service/internal/services"
	"github.com/otcheredev/nurse-call-service/pkg/logger"
	"github.com/otcheredev/nurse-call-service/pkg/mailer"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting Nurse Call Service")

	// Connect to database
	dbConfig := database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		LogLevel: cfg.Database.LogLevel,
	}

	if err := database.Connect(dbConfig); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	// Initialize cache
	var cacheImpl cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Type == "redis" {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		cacheImpl, err = cache.NewRedisCache(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Msg("Redis cache initialized")
	} else {
		cacheImpl = cache.NewMemoryCache()
		log.Info().Msg("Memory cache initialized")
	}
	defer cacheImpl.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	resetRepo := repository.NewResetTokenRepository()
	facilityRepo := repository.NewFacilityRepository()
	staffingRepo := repository.NewStaffingRepository()
	callRepo := repository.NewCallRepository()
	patientRepo := repository.NewPatientRepository()

	// Outbound mail
	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
	})

	// Initialize services
	tokenService := services.NewTokenService(cfg.JWT)
	authService := services.NewAuthService(userRepo, resetRepo, mail, tokenService, cfg.Reset)
	facilityService := services.NewFacilityService(facilityRepo, staffingRepo)
	staffingService := services.NewStaffingService(staffingRepo, facilityRepo, cacheImpl)
	callService := services.NewCallService(callRepo, facilityRepo, staffingRepo, cacheImpl, cfg.Cache.TTL)
	patientService := services.NewPatientService(patientRepo, facilityRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cacheImpl)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(authService)
	facilityHandler := handlers.NewFacilityHandler(facilityService)
	staffingHandler := handlers.NewStaffingHandler(staffingService)
	callHandler := handlers.NewCallHandler(callService)
	patientHandler := handlers.NewPatientHandler(patientService)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints (no authentication required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	authn := middleware.Auth(tokenService)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	managers := middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor)

	r.Route("/api", func(r chi.Router) {
		// Account endpoints open to anonymous callers
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/reset-password", authHandler.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(authn)

			r.Get("/users/me", authHandler.Me)
			r.Put("/change-password", authHandler.ChangePassword)
			r.Patch("/change-password", authHandler.ChangePassword)

			// User administration
			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/users", userHandler.Create)
				r.Get("/users", userHandler.List)
				r.Get("/users/{id}", userHandler.Get)
				r.Put("/users/{id}", userHandler.Update)
				r.Patch("/users/{id}", userHandler.Update)
				r.Delete("/users/{id}", userHandler.Delete)
			})

			// Facility topology reads
			r.Get("/hospitals", facilityHandler.ListHospitals)
			r.Get("/hospitals/{id}", facilityHandler.GetHospital)
			r.Get("/buildings", facilityHandler.ListBuildings)
			r.Get("/buildings/{id}", facilityHandler.GetBuilding)
			r.Get("/floors", facilityHandler.ListFloors)
			r.Get("/floors/{id}", facilityHandler.GetFloor)
			r.Get("/wards", facilityHandler.ListWards)
			r.Get("/wards/{id}", facilityHandler.GetWard)
			r.Get("/beds", facilityHandler.ListBeds)
			r.Get("/beds/{id}", facilityHandler.GetBed)
			r.Get("/devices", facilityHandler.ListDevices)
			r.Get("/devices/{id}", facilityHandler.GetDevice)

			// Staffing reads
			r.Get("/staff-teams", staffingHandler.ListTeams)
			r.Get("/staff-teams/{id}", staffingHandler.GetTeam)
			r.Get("/nurses", staffingHandler.ListNurses)
			r.Get("/nurses/{id}", staffingHandler.GetNurse)
			r.Get("/team-assignments", staffingHandler.ListAssignments)
			r.Get("/team-assignments/{id}", staffingHandler.GetAssignment)

			// Facility and staffing mutations
			r.Group(func(r chi.Router) {
				r.Use(managers)

				r.Post("/hospitals", facilityHandler.CreateHospital)
				r.Put("/hospitals/{id}", facilityHandler.UpdateHospital)
				r.Patch("/hospitals/{id}", facilityHandler.UpdateHospital)
				r.Delete("/hospitals/{id}", facilityHandler.DeleteHospital)

				r.Post("/buildings", facilityHandler.CreateBuilding)
				r.Put("/buildings/{id}", facilityHandler.UpdateBuilding)
				r.Patch("/buildings/{id}", facilityHandler.UpdateBuilding)
				r.Delete("/buildings/{id}", facilityHandler.DeleteBuilding)

				r.Post("/floors", facilityHandler.CreateFloor)
				r.Put("/floors/{id}", facilityHandler.UpdateFloor)
				r.Patch("/floors/{id}", facilityHandler.UpdateFloor)
				r.Delete("/floors/{id}", facilityHandler.DeleteFloor)

				r.Post("/wards", facilityHandler.CreateWard)
				r.Put("/wards/{id}", facilityHandler.UpdateWard)
				r.Patch("/wards/{id}", facilityHandler.UpdateWard)
				r.Delete("/wards/{id}", facilityHandler.DeleteWard)

				r.Post("/beds", facilityHandler.CreateBed)
				r.Put("/beds/{id}", facilityHandler.UpdateBed)
				r.Patch("/beds/{id}", facilityHandler.UpdateBed)
				r.Delete("/beds/{id}", facilityHandler.DeleteBed)

				r.Post("/devices", facilityHandler.CreateDevice)
				r.Put("/devices/{id}", facilityHandler.UpdateDevice)
				r.Patch("/devices/{id}", facilityHandler.UpdateDevice)
				r.Delete("/devices/{id}", facilityHandler.DeleteDevice)

				r.Post("/staff-teams", staffingHandler.CreateTeam)
				r.Put("/staff-teams/{id}", staffingHandler.UpdateTeam)
				r.Patch("/staff-teams/{id}", staffingHandler.UpdateTeam)
				r.Delete("/staff-teams/{id}", staffingHandler.DeleteTeam)

				r.Post("/nurses", staffingHandler.CreateNurse)
				r.Put("/nurses/{id}", staffingHandler.UpdateNurse)
				r.Patch("/nurses/{id}", staffingHandler.UpdateNurse)
				r.Delete("/nurses/{id}", staffingHandler.DeleteNurse)

				r.Post("/team-assignments", staffingHandler.CreateAssignment)
				r.Put("/team-assignments/{id}", staffingHandler.UpdateAssignment)
				r.Patch("/team-assignments/{id}", staffingHandler.UpdateAssignment)
				r.Delete("/team-assignments/{id}", staffingHandler.DeleteAssignment)
			})

			// Calls
			r.Post("/calls", callHandler.Create)
			r.Get("/calls", callHandler.List)
			r.Get("/calls/{id}", callHandler.Get)
			r.Put("/calls/{id}", callHandler.Update)
			r.Patch("/calls/{id}", callHandler.Update)
			r.Post("/calls/{id}/assign", callHandler.Assign)
			r.Post("/calls/{id}/resolve", callHandler.Resolve)
			r.Delete("/calls/{id}", callHandler.Delete)

			// Patients
			r.Post("/patients", patientHandler.Create)
			r.Get("/patients", patientHandler.List)
			r.Get("/patients/{id}", patientHandler.Get)
			r.Put("/patients/{id}", patientHandler.Update)
			r.Patch("/patients/{id}", patientHandler.Update)
			r.Delete("/patients/{id}", patientHandler.Delete)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
