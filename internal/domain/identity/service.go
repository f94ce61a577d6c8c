package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/matricare/api/internal/platform/apperr"
	"github.com/matricare/api/internal/platform/auth"
)

// Service provides business logic for accounts and authentication.
type Service struct {
	users  UserRepository
	tokens *auth.TokenIssuer
}

func NewService(users UserRepository, tokens *auth.TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

// Register creates an account and returns it with a signed access token.
// Mothers start with the onboarding gate open.
func (s *Service) Register(ctx context.Context, email, password, role string) (*User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", apperr.Validationf("a valid email is required")
	}
	if !ValidRole(role) {
		return nil, "", apperr.Validationf("role must be mother, doctor or admin")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", apperr.Validationf("%s", err.Error())
	}
	u := &User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		NeedsChoice:  role == RoleMother,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(u.ID.String(), u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies credentials and returns the account with a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Hide whether the account exists.
		return nil, "", apperr.Unauthorizedf("invalid credentials")
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, "", apperr.Unauthorizedf("invalid credentials")
	}
	token, err := s.tokens.Issue(u.ID.String(), u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// SetChoice records the mother's onboarding decision.
func (s *Service) SetChoice(ctx context.Context, userID uuid.UUID, needsChoice bool) error {
	return s.users.SetNeedsChoice(ctx, userID, needsChoice)
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}
