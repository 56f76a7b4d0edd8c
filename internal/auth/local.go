package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salarkhan2003/OLTECH-AI/internal/db/models"
)

// MinPasswordLength is the shortest accepted password in characters.
const MinPasswordLength = 8

// LocalProvider handles email and password authentication against the database.
type LocalProvider struct {
	db        *gorm.DB
	validator *validator.Validate
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db:        db,
		validator: validator.New(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp stores a credential for email and returns the new identity.
// displayName falls back to the local part of the email.
func (p *LocalProvider) SignUp(ctx context.Context, email, password, displayName string) (*Identity, error) {
	email = normalizeEmail(email)
	if err := p.validator.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidEmail
	}

	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := models.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	cred := models.Credential{
		UID:      uuid.NewString(),
		Email:    email,
		Password: hash,
	}

	err = p.db.WithContext(ctx).Create(&cred).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrEmailTaken
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create credential: %w", err)
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName, _, _ = strings.Cut(email, "@")
	}

	return &Identity{UID: cred.UID, Email: email, DisplayName: displayName}, nil
}

// Authenticate checks email and password and returns the identity they belong to.
func (p *LocalProvider) Authenticate(ctx context.Context, email, password string) (*Identity, error) {
	var cred models.Credential

	err := p.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query credential: %w", err)
	}

	if !cred.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return &Identity{UID: cred.UID, Email: cred.Email}, nil
}

// ChangePassword replaces the password of uid after checking the old one.
func (p *LocalProvider) ChangePassword(ctx context.Context, uid, oldPassword, newPassword string) error {
	var cred models.Credential

	if err := p.db.WithContext(ctx).Where("uid = ?", uid).First(&cred).Error; err != nil {
		return ErrInvalidCredentials
	}

	if !cred.VerifyPassword(oldPassword) {
		return ErrInvalidCredentials
	}

	if utf8.RuneCountInString(newPassword) < MinPasswordLength {
		return ErrWeakPassword
	}

	hash, err := models.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return p.db.WithContext(ctx).Model(&cred).Update("password", hash).Error //nolint:wrapcheck
}
