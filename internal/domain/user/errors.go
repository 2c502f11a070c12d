package user

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrMobileAlreadyExists = errors.New("mobile number already exists")
	ErrInvalidPhotoType    = errors.New("unsupported profile photo type")
	ErrPhotoTooLarge       = errors.New("profile photo exceeds maximum size")
)
