package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/devconnect/devconnect-api/internal/middleware"
	"github.com/devconnect/devconnect-api/internal/pkg/response"
	"github.com/devconnect/devconnect-api/internal/pkg/validator"
)

const (
	defaultSuggestionLimit = 10
	maxSuggestionLimit     = 50
)

// Handler handles user HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates user handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetProfile handles GET /users/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	u, err := h.service.FindByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, "User not found")
		} else {
			response.InternalError(w)
		}
		return
	}

	response.OK(w, NewProfileResponse(u))
}

// UpdateProfile handles PATCH /users/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateProfileRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	u, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, "User not found")
		} else {
			response.InternalError(w)
		}
		return
	}

	response.OK(w, NewProfileResponse(u))
}

// UploadPhoto handles POST /users/profile/photo
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := r.ParseMultipartForm(MaxPhotoSize); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		response.BadRequest(w, "Missing photo file")
		return
	}
	defer file.Close()

	photoURL, err := h.service.UploadProfilePhoto(
		r.Context(), userID, file, header.Header.Get("Content-Type"), header.Size)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPhotoType):
			response.BadRequest(w, "Unsupported photo type. Use JPEG, PNG, WebP or GIF")
		case errors.Is(err, ErrPhotoTooLarge):
			response.BadRequest(w, "Photo exceeds the 5MB limit")
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, "User not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]string{"profile_photo": photoURL})
}

// Suggestions handles GET /users/suggestions
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	// Clamp limit to [1, 50] with a default of 10
	limit := defaultSuggestionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxSuggestionLimit {
		limit = maxSuggestionLimit
	}

	users, err := h.service.GetSuggestions(r.Context(), userID, limit)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, NewSuggestionResponses(users))
}
