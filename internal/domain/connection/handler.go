package connection

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/devconnect/devconnect-api/internal/middleware"
	"github.com/devconnect/devconnect-api/internal/pkg/response"
	"github.com/devconnect/devconnect-api/internal/pkg/validator"
)

// Handler handles connection HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates connection handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// writeServiceError maps domain errors to HTTP responses
func writeServiceError(w http.ResponseWriter, err error) {
	switch err {
	case ErrSelfConnection:
		response.BadRequest(w, "Cannot send connection request to yourself")
	case ErrSelfBlock:
		response.BadRequest(w, "Cannot block yourself")
	case ErrSelfUnblock:
		response.BadRequest(w, "Invalid operation")
	case ErrUserNotFound:
		response.NotFound(w, "User not found")
	case ErrConnectionNotFound:
		response.NotFound(w, "Connection request not found")
	case ErrBlockNotFound:
		response.NotFound(w, "No blocked connection found")
	case ErrNotAuthorized:
		response.Forbidden(w, "You are not authorized to perform this action")
	case ErrBlocked:
		response.Forbidden(w, "Cannot perform this action")
	case ErrRequestAlreadySent:
		response.Conflict(w, "Connection request already sent")
	case ErrRequestAlreadyReceived:
		response.Conflict(w, "User has already sent you a request. Please accept/reject it first")
	case ErrAlreadyConnected:
		response.Conflict(w, "Already connected")
	case ErrAlreadyBlocked:
		response.Conflict(w, "User is already blocked")
	case ErrNotPending, ErrPairExists:
		response.Conflict(w, "Connection is not in a valid state for this action")
	default:
		response.InternalError(w)
	}
}

// Send handles POST /connections/send
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req SendRequestBody
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	toUserID, err := uuid.Parse(req.ToUserID)
	if err != nil {
		response.BadRequest(w, "Invalid user ID format")
		return
	}

	conn, err := h.service.SendConnectionRequest(r.Context(), userID, toUserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, NewConnectionResponse(conn))
}

// Accept handles PATCH /connections/{id}/accept
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	connectionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid connection ID format")
		return
	}

	userID := middleware.GetUserID(r.Context())
	conn, err := h.service.AcceptConnection(r.Context(), connectionID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, NewConnectionResponse(conn))
}

// Reject handles PATCH /connections/{id}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	connectionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid connection ID format")
		return
	}

	userID := middleware.GetUserID(r.Context())
	conn, err := h.service.RejectConnection(r.Context(), connectionID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, NewConnectionResponse(conn))
}

// Cancel handles DELETE /connections/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	connectionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid connection ID format")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.CancelRequest(r.Context(), connectionID, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, map[string]string{"message": "Connection request cancelled successfully"})
}

// Block handles POST /connections/block/{userId}
func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	targetUserID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID format")
		return
	}

	userID := middleware.GetUserID(r.Context())
	conn, err := h.service.BlockUser(r.Context(), userID, targetUserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, NewConnectionResponse(conn))
}

// Unblock handles DELETE /connections/unblock/{userId}
func (h *Handler) Unblock(w http.ResponseWriter, r *http.Request) {
	targetUserID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID format")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.UnblockUser(r.Context(), userID, targetUserID); err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, map[string]string{"message": "User unblocked successfully"})
}

// Received handles GET /connections/received
func (h *Handler) Received(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	rows, err := h.service.GetReceivedRequests(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, NewConnectionListItems(rows))
}

// Sent handles GET /connections/sent
func (h *Handler) Sent(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	rows, err := h.service.GetSentRequests(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, NewConnectionListItems(rows))
}

// List handles GET /connections
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	rows, err := h.service.GetConnections(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, NewConnectionListItems(rows))
}

// Status handles GET /connections/status/{userId}
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	targetUserID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID format")
		return
	}

	userID := middleware.GetUserID(r.Context())
	info, err := h.service.GetConnectionStatus(r.Context(), userID, targetUserID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, info)
}
