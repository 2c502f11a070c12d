package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines user data access interface
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByMobile(ctx context.Context, mobileNumber string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdateProfilePhoto(ctx context.Context, id uuid.UUID, photoURL string) error

	// ListRandomExcluding returns up to limit users sampled uniformly at
	// random, excluding the given IDs. The sample is computed fresh on
	// every call.
	ListRandomExcluding(ctx context.Context, excluded []uuid.UUID, limit int) ([]*User, error)
}

// repository implements Repository
type repository struct {
	db *sqlx.DB
}

// NewRepository creates new user repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const userColumns = `id, first_name, last_name, username, email, mobile_number, password_hash,
	age, gender, skills, bio, current_position, current_organisation, location,
	profile_photo, github_url, linkedin_url, portfolio_url, created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, username, email, mobile_number, password_hash, skills)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Username,
		user.Email,
		user.MobileNumber,
		user.PasswordHash,
		user.Skills,
	)
	if err != nil {
		return fmt.Errorf("user repository create: %w", mapUniqueViolation(err))
	}
	return nil
}

func (r *repository) getOne(ctx context.Context, query string, arg interface{}) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *repository) GetByMobile(ctx context.Context, mobileNumber string) (*User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE mobile_number = $1`, mobileNumber)
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, age = $4, gender = $5, skills = $6,
		    bio = $7, current_position = $8, current_organisation = $9, location = $10,
		    github_url = $11, linkedin_url = $12, portfolio_url = $13, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Age,
		user.Gender,
		user.Skills,
		user.Bio,
		user.CurrentPosition,
		user.CurrentOrganisation,
		user.Location,
		user.GithubURL,
		user.LinkedinURL,
		user.PortfolioURL,
	)
	if err != nil {
		return fmt.Errorf("user repository update: %w", err)
	}
	return nil
}

func (r *repository) UpdateProfilePhoto(ctx context.Context, id uuid.UUID, photoURL string) error {
	query := `UPDATE users SET profile_photo = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, photoURL)
	return err
}

func (r *repository) ListRandomExcluding(ctx context.Context, excluded []uuid.UUID, limit int) ([]*User, error) {
	// password_hash stays empty in list results
	query := `
		SELECT id, first_name, last_name, username, email, mobile_number, '' AS password_hash,
		       age, gender, skills, bio, current_position, current_organisation, location,
		       profile_photo, github_url, linkedin_url, portfolio_url, created_at, updated_at
		FROM users
		WHERE id <> ALL($1)
		ORDER BY random()
		LIMIT $2
	`
	var users []*User
	err := r.db.SelectContext(ctx, &users, query, pq.Array(excluded), limit)
	return users, err
}

const sqlStateUniqueViolation = "23505"

// mapUniqueViolation translates unique constraint violations into domain errors
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != sqlStateUniqueViolation {
		return err
	}
	switch pqErr.Constraint {
	case "users_email_key":
		return ErrEmailAlreadyExists
	case "users_username_key":
		return ErrUsernameTaken
	case "users_mobile_number_key":
		return ErrMobileAlreadyExists
	}
	return err
}
