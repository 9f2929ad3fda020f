package database

import (
	"context"
	"errors"
	"fmt"
	"solara/logging"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Accounts is the credential store backing admin login.
type Accounts struct {
	db *gorm.DB
}

func NewAccounts(db *gorm.DB) *Accounts {
	return &Accounts{db: db}
}

// FindByEmail returns ErrNotFound when no account uses email.
func (a *Accounts) FindByEmail(ctx context.Context, email string) (*Account, error) {
	var account Account
	err := a.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&account).Error
	if err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

// SeedAdmin creates the admin account if it does not exist yet. An existing
// account is left as is, password included.
func (a *Accounts) SeedAdmin(ctx context.Context, email, password string) (*Account, bool, error) {
	if email == "" || password == "" {
		return nil, false, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD are required to seed")
	}

	existing, err := a.FindByEmail(ctx, email)
	if err == nil {
		logging.Info().Str("email", existing.Email).Msg("admin account already exists")
		return existing, false, nil
	}
	if !IsNotFound(err) {
		return nil, false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hashing password: %w", err)
	}

	account := Account{Email: normalizeEmail(email), PasswordHash: string(hash)}
	if err := a.db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, false, fmt.Errorf("creating admin account: %w", err)
	}

	logging.Info().Str("email", account.Email).Uint("id", account.ID).Msg("admin account seeded")
	return &account, true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
