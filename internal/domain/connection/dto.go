package connection

import (
	"time"

	"github.com/google/uuid"
)

// SendRequestBody for POST /connections/send
type SendRequestBody struct {
	ToUserID string `json:"to_user_id" validate:"required,uuid"`
}

// ConnectionResponse represents a connection in API responses
type ConnectionResponse struct {
	ID         uuid.UUID `json:"id"`
	FromUserID uuid.UUID `json:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id"`
	Status     Status    `json:"status"`
	CreatedAt  string    `json:"created_at"`
	UpdatedAt  string    `json:"updated_at"`
}

// NewConnectionResponse converts entity to response
func NewConnectionResponse(c *Connection) *ConnectionResponse {
	return &ConnectionResponse{
		ID:         c.ID,
		FromUserID: c.FromUserID,
		ToUserID:   c.ToUserID,
		Status:     c.Status,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  c.UpdatedAt.Format(time.RFC3339),
	}
}

// CounterpartProfile is the public slice of the other party's profile
type CounterpartProfile struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Photo     string    `json:"profile_photo,omitempty"`
}

// ConnectionListItem is a connection enriched with the counterpart profile
type ConnectionListItem struct {
	ID        uuid.UUID          `json:"id"`
	Status    Status             `json:"status"`
	User      CounterpartProfile `json:"user"`
	CreatedAt string             `json:"created_at"`
	UpdatedAt string             `json:"updated_at"`
}

// NewConnectionListItems converts enriched rows to response items
func NewConnectionListItems(rows []*ConnectionWithProfile) []*ConnectionListItem {
	items := make([]*ConnectionListItem, 0, len(rows))
	for _, row := range rows {
		item := &ConnectionListItem{
			ID:     row.ID,
			Status: row.Status,
			User: CounterpartProfile{
				ID:        row.CounterpartID,
				Username:  row.CounterpartUsername,
				FirstName: row.CounterpartFirstName,
				LastName:  row.CounterpartLastName,
			},
			CreatedAt: row.CreatedAt.Format(time.RFC3339),
			UpdatedAt: row.UpdatedAt.Format(time.RFC3339),
		}
		if row.CounterpartPhoto.Valid {
			item.User.Photo = row.CounterpartPhoto.String
		}
		items = append(items, item)
	}
	return items
}
