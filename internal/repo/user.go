package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/foodgram/backend/internal/domain"
)

// UserRepo defines the persistence operations for user accounts.
type UserRepo interface {
	// Create inserts a user and returns it with id and created_at populated.
	// A duplicate email or username yields domain.ErrConflict.
	Create(ctx context.Context, u domain.User) (domain.User, error)

	// GetByID returns the full account row, including the password hash.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)

	// GetByEmail looks an account up for login. Email comparison is case-insensitive.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// GetAuthor returns the public view of a user relative to viewerID.
	// Pass uuid.Nil for an anonymous viewer.
	GetAuthor(ctx context.Context, id, viewerID uuid.UUID) (domain.Author, error)

	// SetPassword replaces the stored password hash.
	SetPassword(ctx context.Context, id uuid.UUID, hash string) error

	// ListAuthors returns one page of users ordered by username and the total count.
	ListAuthors(ctx context.Context, viewerID uuid.UUID, p domain.PaginationParams) ([]domain.Author, int64, error)
}

type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

const userColumns = `id, email, username, first_name, last_name, password_hash, is_admin, created_at`

// authorColumns expects the users table aliased as u and a @viewer argument.
const authorColumns = `
	u.id, u.email, u.username, u.first_name, u.last_name,
	EXISTS (SELECT 1 FROM subscriptions s WHERE s.user_id = @viewer AND s.author_id = u.id)`

func (r *pgUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (email, username, first_name, last_name, password_hash, is_admin)
		VALUES (@email, @username, @first_name, @last_name, @password_hash, @is_admin)
		RETURNING ` + userColumns

	args := pgx.NamedArgs{
		"email":         u.Email,
		"username":      u.Username,
		"first_name":    u.FirstName,
		"last_name":     u.LastName,
		"password_hash": u.PasswordHash,
		"is_admin":      u.IsAdmin,
	}

	result, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = @id`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower(@email)`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgUserRepo) GetAuthor(ctx context.Context, id, viewerID uuid.UUID) (domain.Author, error) {
	const q = `SELECT ` + authorColumns + ` FROM users u WHERE u.id = @id`

	result, err := scanAuthor(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "viewer": viewerID}))
	if err != nil {
		return domain.Author{}, fmt.Errorf("repo.UserRepo.GetAuthor: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgUserRepo) ListAuthors(ctx context.Context, viewerID uuid.UUID, p domain.PaginationParams) ([]domain.Author, int64, error) {
	const countQ = `SELECT COUNT(*) FROM users`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.UserRepo.ListAuthors: count: %w", err)
	}

	const q = `
		SELECT ` + authorColumns + `
		FROM users u
		ORDER BY u.username
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"viewer": viewerID, "limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.UserRepo.ListAuthors: %w", err)
	}
	authors, err := collect(rows, scanAuthor)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.UserRepo.ListAuthors: %w", err)
	}
	return authors, total, nil
}

func (r *pgUserRepo) SetPassword(ctx context.Context, id uuid.UUID, hash string) error {
	const q = `UPDATE users SET password_hash = @hash WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "hash": hash})
	if err != nil {
		return fmt.Errorf("repo.UserRepo.SetPassword: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.UserRepo.SetPassword: %w", domain.ErrNotFound)
	}
	return nil
}

func scanUser(s scanner) (domain.User, error) {
	var u domain.User
	err := s.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	return u, err
}

func scanAuthor(s scanner) (domain.Author, error) {
	var a domain.Author
	err := s.Scan(&a.ID, &a.Email, &a.Username, &a.FirstName, &a.LastName, &a.IsSubscribed)
	return a, err
}
