package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"latecomer/internal/apperr"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords,
// deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Admin is an administrator account.
type Admin struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminRepository persists admin accounts with bcrypt-hashed passwords.
type AdminRepository struct {
	db *sql.DB
}

// NewAdminRepository creates a repo.
func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Register creates an admin account.
func (r *AdminRepository) Register(ctx context.Context, username, password string) (Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Admin{}, apperr.Errorf(apperr.ErrInvalidArgument, "username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return Admin{}, apperr.Errorf(apperr.ErrInternal, "hash password: %v", err)
	}

	admin := Admin{ID: uuid.NewString(), Username: username}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO admins (id, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, admin.ID, admin.Username, string(hash))
	if err := row.Scan(&admin.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Admin{}, apperr.Errorf(apperr.ErrConflict, "admin %s already exists", username)
		}
		return Admin{}, apperr.Errorf(apperr.ErrInternal, "create admin %s: %v", username, err)
	}
	return admin, nil
}

// Authenticate verifies a username/password pair.
func (r *AdminRepository) Authenticate(ctx context.Context, username, password string) (Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Admin{}, apperr.Errorf(apperr.ErrInvalidArgument, "username and password are required")
	}

	var admin Admin
	var hash string
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at FROM admins WHERE username = $1
	`, username)
	if err := row.Scan(&admin.ID, &admin.Username, &hash, &admin.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Admin{}, ErrInvalidCredentials
		}
		return Admin{}, apperr.Errorf(apperr.ErrInternal, "lookup admin %s: %v", username, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return Admin{}, ErrInvalidCredentials
	}
	return admin, nil
}
