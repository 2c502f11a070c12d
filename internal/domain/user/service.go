package user

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/devconnect/devconnect-api/internal/pkg/logger"
)

// ConnectionGraph supplies the exclusion set for suggestions: every user
// related to the given user through a pending, accepted or blocked record.
type ConnectionGraph interface {
	RelatedUserIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// AvatarStorage stores profile photos
type AvatarStorage interface {
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// MaxPhotoSize is the profile photo upload limit
const MaxPhotoSize = 5 << 20 // 5 MB

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Service handles user directory business logic
type Service struct {
	repo    Repository
	graph   ConnectionGraph
	avatars AvatarStorage
}

// NewService creates user service
func NewService(repo Repository, graph ConnectionGraph, avatars AvatarStorage) *Service {
	return &Service{repo: repo, graph: graph, avatars: avatars}
}

// FindByID returns the user or ErrUserNotFound
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// FindByEmail returns the user or ErrUserNotFound
func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// FindByMobile returns the user or ErrUserNotFound
func (s *Service) FindByMobile(ctx context.Context, mobileNumber string) (*User, error) {
	u, err := s.repo.GetByMobile(ctx, mobileNumber)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfile applies the given profile changes and returns the fresh record
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*User, error) {
	u, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	req.apply(u)

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return s.FindByID(ctx, userID)
}

// GetSuggestions returns a uniformly random sample of users the given user
// could connect with. Excluded: self, plus anyone related via a pending,
// accepted or blocked record in either direction. A rejected record does
// not exclude a user, so rejected parties can resurface.
func (s *Service) GetSuggestions(ctx context.Context, userID uuid.UUID, limit int) ([]*User, error) {
	related, err := s.graph.RelatedUserIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	excluded := make([]uuid.UUID, 0, len(related)+1)
	excluded = append(excluded, userID)
	seen := map[uuid.UUID]struct{}{userID: {}}
	for _, id := range related {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		excluded = append(excluded, id)
	}

	return s.repo.ListRandomExcluding(ctx, excluded, limit)
}

// UploadProfilePhoto stores a new profile photo and records its URL.
// Removal of the previous photo is best effort: a failed delete is logged
// and never surfaced to the caller.
func (s *Service) UploadProfilePhoto(ctx context.Context, userID uuid.UUID, reader io.Reader, contentType string, size int64) (string, error) {
	ext, ok := photoExtensions[contentType]
	if !ok {
		return "", ErrInvalidPhotoType
	}
	if size > MaxPhotoSize {
		return "", ErrPhotoTooLarge
	}

	u, err := s.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("avatars/%s/%s%s", userID, uuid.New(), ext)
	if err := s.avatars.Put(ctx, key, reader, contentType); err != nil {
		return "", err
	}

	photoURL := s.avatars.URL(key)
	if err := s.repo.UpdateProfilePhoto(ctx, userID, photoURL); err != nil {
		return "", err
	}

	if u.ProfilePhoto.Valid {
		if oldKey := storageKeyFromURL(u.ProfilePhoto.String); oldKey != "" {
			if err := s.avatars.Delete(ctx, oldKey); err != nil {
				logger.LogWarn(ctx, "Failed to delete old profile photo",
					"user_id", userID.String(), "key", oldKey, "error", err.Error())
			}
		}
	}

	return photoURL, nil
}

// storageKeyFromURL recovers the storage key from a stored photo URL.
// Keys always start with the avatars/ prefix.
func storageKeyFromURL(photoURL string) string {
	idx := strings.Index(photoURL, "avatars/")
	if idx < 0 {
		return ""
	}
	key := photoURL[idx:]
	if path.Clean(key) != key {
		return ""
	}
	return key
}
