package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// UpdateProfileRequest for PATCH /users/profile.
// Pointer fields distinguish "not provided" from "set to empty".
type UpdateProfileRequest struct {
	FirstName           *string  `json:"first_name" validate:"omitempty,min=2,max=50"`
	LastName            *string  `json:"last_name" validate:"omitempty,min=2,max=50"`
	Age                 *int     `json:"age" validate:"omitempty,gte=18,lte=100"`
	Gender              *string  `json:"gender" validate:"omitempty,gender"`
	Skills              []string `json:"skills" validate:"omitempty,max=10,dive,min=1,max=50"`
	Bio                 *string  `json:"bio" validate:"omitempty,max=500"`
	CurrentPosition     *string  `json:"current_position" validate:"omitempty,max=100"`
	CurrentOrganisation *string  `json:"current_organisation" validate:"omitempty,max=100"`
	Location            *string  `json:"location" validate:"omitempty,max=100"`
	GithubURL           *string  `json:"github_url" validate:"omitempty,url,max=255"`
	LinkedinURL         *string  `json:"linkedin_url" validate:"omitempty,url,max=255"`
	PortfolioURL        *string  `json:"portfolio_url" validate:"omitempty,url,max=255"`
}

func (req *UpdateProfileRequest) apply(u *User) {
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Age != nil {
		u.Age = sql.NullInt32{Int32: int32(*req.Age), Valid: true}
	}
	if req.Gender != nil {
		u.Gender = nullString(*req.Gender)
	}
	if req.Skills != nil {
		u.Skills = req.Skills
	}
	if req.Bio != nil {
		u.Bio = nullString(*req.Bio)
	}
	if req.CurrentPosition != nil {
		u.CurrentPosition = nullString(*req.CurrentPosition)
	}
	if req.CurrentOrganisation != nil {
		u.CurrentOrganisation = nullString(*req.CurrentOrganisation)
	}
	if req.Location != nil {
		u.Location = nullString(*req.Location)
	}
	if req.GithubURL != nil {
		u.GithubURL = nullString(*req.GithubURL)
	}
	if req.LinkedinURL != nil {
		u.LinkedinURL = nullString(*req.LinkedinURL)
	}
	if req.PortfolioURL != nil {
		u.PortfolioURL = nullString(*req.PortfolioURL)
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ProfileResponse represents a full profile in API responses
type ProfileResponse struct {
	ID                  uuid.UUID `json:"id"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	MobileNumber        string    `json:"mobile_number"`
	Age                 *int      `json:"age,omitempty"`
	Gender              string    `json:"gender,omitempty"`
	Skills              []string  `json:"skills"`
	Bio                 string    `json:"bio,omitempty"`
	CurrentPosition     string    `json:"current_position,omitempty"`
	CurrentOrganisation string    `json:"current_organisation,omitempty"`
	Location            string    `json:"location,omitempty"`
	ProfilePhoto        string    `json:"profile_photo,omitempty"`
	GithubURL           string    `json:"github_url,omitempty"`
	LinkedinURL         string    `json:"linkedin_url,omitempty"`
	PortfolioURL        string    `json:"portfolio_url,omitempty"`
	CreatedAt           string    `json:"created_at"`
}

// SuggestionResponse represents a suggested user; contact and internal
// fields are stripped
type SuggestionResponse struct {
	ID                  uuid.UUID `json:"id"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	Username            string    `json:"username"`
	Skills              []string  `json:"skills"`
	Bio                 string    `json:"bio,omitempty"`
	CurrentPosition     string    `json:"current_position,omitempty"`
	CurrentOrganisation string    `json:"current_organisation,omitempty"`
	Location            string    `json:"location,omitempty"`
	ProfilePhoto        string    `json:"profile_photo,omitempty"`
	GithubURL           string    `json:"github_url,omitempty"`
	LinkedinURL         string    `json:"linkedin_url,omitempty"`
	PortfolioURL        string    `json:"portfolio_url,omitempty"`
}

// NewProfileResponse converts entity to full profile response
func NewProfileResponse(u *User) *ProfileResponse {
	resp := &ProfileResponse{
		ID:                  u.ID,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		Username:            u.Username,
		Email:               u.Email,
		MobileNumber:        u.MobileNumber,
		Gender:              u.Gender.String,
		Skills:              skillsOrEmpty(u.Skills),
		Bio:                 u.Bio.String,
		CurrentPosition:     u.CurrentPosition.String,
		CurrentOrganisation: u.CurrentOrganisation.String,
		Location:            u.Location.String,
		ProfilePhoto:        u.ProfilePhoto.String,
		GithubURL:           u.GithubURL.String,
		LinkedinURL:         u.LinkedinURL.String,
		PortfolioURL:        u.PortfolioURL.String,
		CreatedAt:           u.CreatedAt.Format(time.RFC3339),
	}
	if u.Age.Valid {
		age := int(u.Age.Int32)
		resp.Age = &age
	}
	return resp
}

// NewSuggestionResponses converts entities to suggestion responses
func NewSuggestionResponses(users []*User) []*SuggestionResponse {
	items := make([]*SuggestionResponse, 0, len(users))
	for _, u := range users {
		items = append(items, &SuggestionResponse{
			ID:                  u.ID,
			FirstName:           u.FirstName,
			LastName:            u.LastName,
			Username:            u.Username,
			Skills:              skillsOrEmpty(u.Skills),
			Bio:                 u.Bio.String,
			CurrentPosition:     u.CurrentPosition.String,
			CurrentOrganisation: u.CurrentOrganisation.String,
			Location:            u.Location.String,
			ProfilePhoto:        u.ProfilePhoto.String,
			GithubURL:           u.GithubURL.String,
			LinkedinURL:         u.LinkedinURL.String,
			PortfolioURL:        u.PortfolioURL.String,
		})
	}
	return items
}

func skillsOrEmpty(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}
