package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Request Errors =====
var (
	ErrRequestNotFound    = errors.New("request not found")
	ErrUnknownRequestKind = errors.New("unknown request type")
	ErrNotRequestOwner    = errors.New("not the owner of this request")
	ErrInvalidCursor      = errors.New("invalid pagination cursor")
	ErrInvalidPageLimit   = errors.New("page limit out of range")
)

// ===== Favorite Errors =====
var (
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrNotFavoriteOwner = errors.New("not the owner of this favorite")
)
