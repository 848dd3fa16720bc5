package main

import (
	"log"
	"net/http"
	"os"

	_ "calcapi/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"calcapi/internal/auth"
	"calcapi/internal/cache"
	"calcapi/internal/calc"
	"calcapi/internal/config"
	"calcapi/internal/db"
	"calcapi/internal/handler"
	"calcapi/internal/model"
	"calcapi/internal/repository"
	"calcapi/internal/router"
	"calcapi/internal/service"
)

// @title Calculations API
// @version 1.0
// @description CRUD API for per-user arithmetic calculations with JWT authentication.
// @host localhost:8000
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		for _, table := range []interface{}{&model.Calculation{}, &model.User{}} {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(&model.User{}, &model.Calculation{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	calcRepo := repository.NewCalculationRepository(gormDB)

	// Initialize auth components and the variant registry
	tokenService := auth.NewTokenService(cfg)
	registry := calc.Default()

	// Initialize services
	authService := service.NewAuthService(userRepo, tokenService, cfg.BcryptRounds)
	userService := service.NewUserService(userRepo, cfg.BcryptRounds)
	calcService := service.NewCalculationService(calcRepo, registry, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	calcHandler := handler.NewCalculationHandler(calcService)

	// Register routes
	router.Register(e, cfg, userRepo, authHandler, userHandler, calcHandler)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
