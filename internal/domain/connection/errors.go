package connection

import "errors"

// Invalid input
var (
	ErrSelfConnection      = errors.New("cannot send connection request to yourself")
	ErrSelfBlock           = errors.New("cannot block yourself")
	ErrSelfUnblock         = errors.New("cannot unblock yourself")
	ErrInvalidConnectionID = errors.New("invalid connection ID format")
	ErrInvalidUserID       = errors.New("invalid user ID format")
)

// Not found
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrConnectionNotFound = errors.New("connection request not found")
	ErrBlockNotFound      = errors.New("no blocked connection found")
)

// Forbidden
var (
	ErrNotAuthorized = errors.New("you are not authorized to perform this action")
	ErrBlocked       = errors.New("cannot perform this action")
)

// Conflict
var (
	ErrRequestAlreadySent     = errors.New("connection request already sent")
	ErrRequestAlreadyReceived = errors.New("user has already sent you a request, please accept/reject it first")
	ErrAlreadyConnected       = errors.New("already connected")
	ErrAlreadyBlocked         = errors.New("user is already blocked")
	ErrNotPending             = errors.New("connection request is not pending")
	ErrPairExists             = errors.New("a connection already exists between these users")
)
