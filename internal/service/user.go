package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/repo"
	"github.com/foodgram/backend/internal/validation"
)

// TokenIssuer signs access tokens. *auth.TokenIssuer satisfies it.
type TokenIssuer interface {
	Issue(u domain.User) (string, error)
}

// UserService implements registration, login and user lookups.
type UserService struct {
	users  repo.UserRepo
	tokens TokenIssuer
	cost   int
}

// NewUserService constructs a UserService.
func NewUserService(users repo.UserRepo, tokens TokenIssuer) *UserService {
	return &UserService{users: users, tokens: tokens, cost: bcrypt.DefaultCost}
}

// Register validates in, hashes the password and creates the account.
func (s *UserService) Register(ctx context.Context, in domain.UserInput) (domain.Author, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := validation.Struct(in); err != nil {
		return domain.Author{}, fmt.Errorf("service.UserService.Register: %w", err)
	}
	if strings.EqualFold(in.Username, "me") {
		return domain.Author{}, fmt.Errorf("service.UserService.Register: %w",
			domain.NewValidationError("username", "is reserved"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return domain.Author{}, fmt.Errorf("service.UserService.Register: hash: %w", err)
	}

	u, err := s.users.Create(ctx, domain.User{
		Email:        in.Email,
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
	})
	if err != nil {
		return domain.Author{}, fmt.Errorf("service.UserService.Register: %w", err)
	}
	return authorOf(u), nil
}

// Login checks credentials and returns a signed token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, c domain.Credentials) (string, error) {
	if err := validation.Struct(c); err != nil {
		return "", fmt.Errorf("service.UserService.Login: %w", err)
	}

	u, err := s.users.GetByEmail(ctx, c.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("service.UserService.Login: %w: invalid credentials", domain.ErrUnauthorized)
	}
	if err != nil {
		return "", fmt.Errorf("service.UserService.Login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(c.Password)); err != nil {
		return "", fmt.Errorf("service.UserService.Login: %w: invalid credentials", domain.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return "", fmt.Errorf("service.UserService.Login: %w", err)
	}
	return token, nil
}

// SetPassword replaces the viewer's password after checking the current one.
// A wrong current password is a validation failure on current_password.
func (s *UserService) SetPassword(ctx context.Context, v domain.Viewer, in domain.PasswordChange) error {
	if err := requireViewer(v); err != nil {
		return fmt.Errorf("service.UserService.SetPassword: %w", err)
	}
	if err := validation.Struct(in); err != nil {
		return fmt.Errorf("service.UserService.SetPassword: %w", err)
	}

	u, err := s.users.GetByID(ctx, v.ID)
	if err != nil {
		return fmt.Errorf("service.UserService.SetPassword: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return fmt.Errorf("service.UserService.SetPassword: %w",
			domain.NewValidationError("current_password", "is incorrect"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), s.cost)
	if err != nil {
		return fmt.Errorf("service.UserService.SetPassword: hash: %w", err)
	}
	if err := s.users.SetPassword(ctx, u.ID, string(hash)); err != nil {
		return fmt.Errorf("service.UserService.SetPassword: %w", err)
	}
	return nil
}

// Me returns the viewer's own profile.
func (s *UserService) Me(ctx context.Context, v domain.Viewer) (domain.Author, error) {
	if err := requireViewer(v); err != nil {
		return domain.Author{}, fmt.Errorf("service.UserService.Me: %w", err)
	}
	a, err := s.users.GetAuthor(ctx, v.ID, v.ID)
	if err != nil {
		return domain.Author{}, fmt.Errorf("service.UserService.Me: %w", err)
	}
	return a, nil
}

// Get returns a user's public profile relative to v.
func (s *UserService) Get(ctx context.Context, v domain.Viewer, id uuid.UUID) (domain.Author, error) {
	a, err := s.users.GetAuthor(ctx, id, v.ID)
	if err != nil {
		return domain.Author{}, fmt.Errorf("service.UserService.Get: %w", err)
	}
	return a, nil
}

// List returns one page of user profiles relative to v.
func (s *UserService) List(ctx context.Context, v domain.Viewer, p domain.PaginationParams) (domain.Page[domain.Author], error) {
	authors, total, err := s.users.ListAuthors(ctx, v.ID, p)
	if err != nil {
		return domain.Page[domain.Author]{}, fmt.Errorf("service.UserService.List: %w", err)
	}
	return domain.NewPage(authors, total, p), nil
}

func authorOf(u domain.User) domain.Author {
	return domain.Author{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
