package main

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"calcapi/internal/calc"
	"calcapi/internal/config"
	"calcapi/internal/db"
	"calcapi/internal/model"
	"calcapi/internal/repository"
)

const (
	demoUsername = "janedoe"
	demoEmail    = "jane.doe@example.com"
	demoPassword = "SecurePass123"
)

// Seeds a demo user with one calculation per variant. Safe to run twice:
// if the demo user already exists nothing is inserted.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Calculation{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	calcRepo := repository.NewCalculationRepository(gormDB)

	if _, err := userRepo.FindByLogin(ctx, demoUsername); err == nil {
		log.Printf("Demo user %q already exists, nothing to do", demoUsername)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to look up demo user: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), cfg.BcryptRounds)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	user := &model.User{
		Username:     demoUsername,
		Email:        demoEmail,
		PasswordHash: string(hash),
		FirstName:    "Jane",
		LastName:     "Doe",
		IsActive:     true,
		IsVerified:   false,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	log.Printf("Created demo user %s (%s)", demoUsername, user.ID)

	registry := calc.Default()
	seeds := []struct {
		calcType string
		inputs   []float64
	}{
		{calc.TypeAddition, []float64{8.5, 6, 3.2}},
		{calc.TypeSubtraction, []float64{10, 3, 2}},
		{calc.TypeMultiplication, []float64{2, 3, 4}},
		{calc.TypeDivision, []float64{48, 8}},
		{calc.TypeModulus, []float64{9, 5}},
	}

	for _, seed := range seeds {
		record, err := registry.New(seed.calcType, user.ID, seed.inputs)
		if err != nil {
			log.Fatalf("Failed to build %s calculation: %v", seed.calcType, err)
		}
		result, err := registry.Result(record.Type, record.Inputs)
		if err != nil {
			log.Fatalf("Failed to compute %s calculation: %v", seed.calcType, err)
		}
		record.Result = &result

		if err := calcRepo.Create(ctx, record); err != nil {
			log.Fatalf("Failed to insert %s calculation: %v", seed.calcType, err)
		}
		log.Printf("Seeded %s%v = %v", record.Type, seed.inputs, result)
	}

	log.Println("Seed completed")
}
