package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/devconnect/devconnect-api/internal/domain/user"
	"github.com/devconnect/devconnect-api/internal/pkg/jwt"
	"github.com/devconnect/devconnect-api/internal/pkg/password"
)

// Service handles authentication business logic
type Service struct {
	userRepo     user.Repository
	jwtService   *jwt.Service
	refreshStore RefreshStore
}

// NewService creates auth service
func NewService(userRepo user.Repository, jwtService *jwt.Service, refreshStore RefreshStore) *Service {
	return &Service{
		userRepo:     userRepo,
		jwtService:   jwtService,
		refreshStore: refreshStore,
	}
}

// Register creates new user account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))

	if existing, _ := s.userRepo.GetByEmail(ctx, req.Email); existing != nil {
		return nil, ErrEmailAlreadyExists
	}
	if existing, _ := s.userRepo.GetByUsername(ctx, req.Username); existing != nil {
		return nil, ErrUsernameTaken
	}
	if existing, _ := s.userRepo.GetByMobile(ctx, req.MobileNumber); existing != nil {
		return nil, ErrMobileAlreadyExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		PasswordHash: hash,
		Skills:       pq.StringArray{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		// The read-then-insert check above races with concurrent
		// registrations; the unique constraints are authoritative.
		switch {
		case errors.Is(err, user.ErrEmailAlreadyExists):
			return nil, ErrEmailAlreadyExists
		case errors.Is(err, user.ErrUsernameTaken):
			return nil, ErrUsernameTaken
		case errors.Is(err, user.ErrMobileAlreadyExists):
			return nil, ErrMobileAlreadyExists
		}
		return nil, err
	}

	return s.generateTokens(ctx, u)
}

// Login authenticates user
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokens(ctx, u)
}

// Refresh rotates the refresh token and issues a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	if _, err := s.jwtService.ValidateRefreshToken(refreshToken); err != nil {
		return nil, ErrInvalidRefreshToken
	}

	refreshHash := jwt.HashRefreshToken(refreshToken)
	userID, err := s.refreshStore.Get(ctx, refreshHash)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	// Token rotation: the old refresh token is single use
	_ = s.refreshStore.Delete(ctx, refreshHash)

	return s.generateTokens(ctx, u)
}

// Logout invalidates the refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrRefreshTokenRequired
	}
	return s.refreshStore.Delete(ctx, jwt.HashRefreshToken(refreshToken))
}

// Me returns the authenticated user's account
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) generateTokens(ctx context.Context, u *user.User) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(u.ID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}

	refreshHash := jwt.HashRefreshToken(refreshToken)
	if err := s.refreshStore.Save(ctx, refreshHash, u.ID, s.jwtService.GetRefreshTTL()); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: NewUserResponse(u.ID, u.FirstName, u.LastName, u.Username, u.Email, u.MobileNumber, u.CreatedAt),
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwtService.GetAccessTTL().Seconds()),
			TokenType:    "Bearer",
		},
	}, nil
}
