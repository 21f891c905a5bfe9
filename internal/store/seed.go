package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/newsdesk/newsdesk-go/internal/auth"
	"github.com/newsdesk/newsdesk-go/internal/model"
)

// Default superadmin credentials
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// defaultLanguages seeds the translation language registry.
var defaultLanguages = []struct {
	Code string
	Name string
}{
	{"ENGLISH", "English"},
	{"XHOSA", "isiXhosa"},
	{"ZULU", "isiZulu"},
	{"AFRIKAANS", "Afrikaans"},
}

// Seed creates initial data in the database: the default superadmin and
// the language registry. Safe to call on every boot.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	for _, lang := range defaultLanguages {
		_, err := queries.GetLanguageByCode(ctx, lang.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking language %s: %w", lang.Code, err)
		}
		if _, err := queries.CreateLanguage(ctx, CreateLanguageParams{
			Code:      lang.Code,
			Name:      lang.Name,
			Enabled:   true,
			CreatedAt: time.Now(),
		}); err != nil {
			return fmt.Errorf("creating language %s: %w", lang.Code, err)
		}
	}

	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		Role:         model.RoleSuperadmin,
		Name:         DefaultAdminName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"email", user.Email,
		"password", DefaultAdminPassword,
	)

	return nil
}
