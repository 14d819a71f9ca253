package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")

	// Content errors
	ErrContentTypeNotFound = errors.New("content type not found")
	ErrEntryNotFound       = errors.New("content entry not found")
	ErrVersionNotFound     = errors.New("version not found")
	ErrSlugTaken           = errors.New("slug already in use for this content type")
	ErrVersionProtected    = errors.New("version is protected by the retention policy")

	// Media errors
	ErrMediaNotFound = errors.New("media not found")

	// Relation errors
	ErrRelationNotFound = errors.New("relation not found")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrAPIKeyNotFound     = errors.New("api key not found")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)
