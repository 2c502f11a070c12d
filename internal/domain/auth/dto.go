package auth

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest for POST /auth/register
type RegisterRequest struct {
	FirstName    string `json:"first_name" validate:"required,min=2,max=50"`
	LastName     string `json:"last_name" validate:"required,min=2,max=50"`
	Username     string `json:"username" validate:"required,username"`
	Email        string `json:"email" validate:"required,email,max=255"`
	MobileNumber string `json:"mobile_number" validate:"required,mobile"`
	Password     string `json:"password" validate:"required,min=6,max=128"`
}

// LoginRequest for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest for POST /auth/refresh and /auth/logout
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserResponse represents user in auth API responses
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobile_number"`
	CreatedAt    string    `json:"created_at"`
}

// TokensResponse represents tokens in API responses
type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // seconds until access token expires
	TokenType    string `json:"token_type"`
}

// AuthResponse returned after login/register
type AuthResponse struct {
	User   UserResponse   `json:"user"`
	Tokens TokensResponse `json:"tokens"`
}

// NewUserResponse creates UserResponse from user fields
func NewUserResponse(id uuid.UUID, firstName, lastName, username, email, mobile string, createdAt time.Time) UserResponse {
	return UserResponse{
		ID:           id,
		FirstName:    firstName,
		LastName:     lastName,
		Username:     username,
		Email:        email,
		MobileNumber: mobile,
		CreatedAt:    createdAt.Format(time.RFC3339),
	}
}
