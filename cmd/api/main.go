package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"datavisapi/internal/config"
	"datavisapi/internal/database"
	"datavisapi/internal/middleware"
	"datavisapi/internal/modules/auth"
	"datavisapi/internal/modules/health"
	"datavisapi/internal/modules/measurement"
	"datavisapi/internal/modules/series"
	"datavisapi/internal/pkg/authcrypt"
	"datavisapi/internal/pkg/clock"
	jwtsvc "datavisapi/internal/pkg/jwt"
	"datavisapi/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	clk := clock.System()
	crypto := authcrypt.New(cfg.KDFIterations, cfg.EmailHashSalt)
	jwt := jwtsvc.New(cfg.JWTSecret, cfg.AccessTokenTTL, clk)

	userRepo := repository.NewUserRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db, clk, cfg.RefreshTokenTTL)
	seriesRepo := repository.NewSeriesRepository(db)
	measurementRepo := repository.NewMeasurementRepository(db)

	authService := auth.NewService(userRepo, refreshRepo, crypto, jwt, clk, cfg.EmailHashVersion)
	authHandler := auth.NewHandler(authService)

	seriesService := series.NewService(seriesRepo, clk)
	seriesHandler := series.NewHandler(seriesService)

	hub := measurement.NewHub()
	defer hub.Close()
	measurementService := measurement.NewService(measurementRepo, seriesRepo, hub, clk)
	measurementHandler := measurement.NewHandler(measurementService, hub)

	healthHandler := health.NewHandler(db)

	r := gin.Default()
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		healthHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(jwt))
		{
			authHandler.RegisterProtectedRoutes(protected)
			seriesHandler.RegisterRoutes(protected)
			measurementHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
