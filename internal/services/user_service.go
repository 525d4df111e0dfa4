package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/expense-tracker-be/internal/database"
	"github.com/isdelr/expense-tracker-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	GenerateJWT(user models.User) (string, error)
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, name, email, password string) (models.AuthResult, error)
	Authenticate(ctx context.Context, email, password string) (models.AuthResult, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// UserService provides registration, login and profile lookups.
type UserService struct {
	db     *sql.DB
	tokens TokenIssuer
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, tokens TokenIssuer) *UserService {
	return &UserService{db: db, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetUserByID retrieves a single user by their ID, without the password hash.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT id, name, email, created_at, updated_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, notFoundError("user not found")
		}
		return models.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return user, nil
}

// getUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) getUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, database.ErrNotFound
		}
		return models.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// Register creates a new user, hashing their password, and signs them in.
func (s *UserService) Register(ctx context.Context, name, email, password string) (models.AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return models.AuthResult{}, validationError("please add all fields")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users(id, name, email, password_hash, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.AuthResult{}, conflictError("user already exists")
		}
		return models.AuthResult{}, fmt.Errorf("insert user: %w", err)
	}

	return s.issue(user)
}

// Authenticate verifies a user's credentials and signs them in.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.AuthResult, error) {
	invalid := &Error{Kind: ErrInvalidCredentials, Message: "invalid email or password"}

	user, err := s.getUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return models.AuthResult{}, invalid
		}
		return models.AuthResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.AuthResult{}, invalid
	}

	return s.issue(user)
}

func (s *UserService) issue(user models.User) (models.AuthResult, error) {
	token, err := s.tokens.GenerateJWT(user)
	if err != nil {
		return models.AuthResult{}, fmt.Errorf("failed to generate token: %w", err)
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return models.AuthResult{Token: token, Profile: user}, nil
}
