package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// User represents a developer account (matches users table)
type User struct {
	ID           uuid.UUID `db:"id"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	MobileNumber string    `db:"mobile_number"`
	PasswordHash string    `db:"password_hash"`

	// Profile fields
	Age                 sql.NullInt32  `db:"age"`
	Gender              sql.NullString `db:"gender"`
	Skills              pq.StringArray `db:"skills"`
	Bio                 sql.NullString `db:"bio"`
	CurrentPosition     sql.NullString `db:"current_position"`
	CurrentOrganisation sql.NullString `db:"current_organisation"`
	Location            sql.NullString `db:"location"`
	ProfilePhoto        sql.NullString `db:"profile_photo"`
	GithubURL           sql.NullString `db:"github_url"`
	LinkedinURL         sql.NullString `db:"linkedin_url"`
	PortfolioURL        sql.NullString `db:"portfolio_url"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
