package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/quizforge/quiz-cms-backend/internal/config"
	"github.com/quizforge/quiz-cms-backend/internal/database"
	"github.com/quizforge/quiz-cms-backend/internal/logger"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/repository"
	"github.com/quizforge/quiz-cms-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	adminRepo := repository.NewAdminRepository(pool)
	// Only hashing is needed here; no Redis client.
	authService := service.NewAuthService(cfg, nil, adminRepo)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin ===")

	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		fmt.Println("Error: A valid email is required")
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading password")
		return
	}
	password := string(bytePassword)
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	fmt.Print("Confirm Password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil || string(confirm) != password {
		fmt.Println("Error: Passwords do not match")
		return
	}

	fmt.Printf("Enter Role [%s/%s/%s] (default %s): ", model.RoleOwner, model.RoleEditor, model.RoleViewer, model.RoleOwner)
	roleStr, _ := reader.ReadString('\n')
	role := model.AdminRole(strings.ToLower(strings.TrimSpace(roleStr)))
	if role == "" {
		role = model.RoleOwner
	}
	if !role.Valid() {
		fmt.Printf("Error: Unknown role %q\n", role)
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	hash, err := authService.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	admin := &model.Admin{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
	}

	if err := adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			fmt.Printf("Error: An admin with email %s already exists\n", email)
			return
		}
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) created as %s with ID: %s\n", admin.Name, admin.Email, admin.Role, admin.ID)
}
