package model

import "errors"

// ErrNotFound is returned by stores when no matching row exists.
var ErrNotFound = errors.New("not found")

// ErrAssistantNotConfigured is returned by an assistant strategy whose
// required external credential is absent.
var ErrAssistantNotConfigured = errors.New("assistant is not configured")

var (
	// ErrTokenRevoked means the presented refresh token was revoked.
	ErrTokenRevoked = errors.New("refresh token revoked")
	// ErrTokenExpired means the presented refresh token is past its expiry.
	ErrTokenExpired = errors.New("refresh token expired")
	// ErrTokenMismatch means the presented token does not match the stored hash.
	ErrTokenMismatch = errors.New("refresh token mismatch")
)
