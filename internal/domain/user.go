package domain

import "errors"

// User is the caller a transaction belongs to.
type User struct {
	ID    string
	Email string
}

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
