package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrEventNotFound indicates the requested event does not exist
	ErrEventNotFound = errors.New("event not found")

	// ErrCatalogOffline indicates the events catalog is unreachable
	ErrCatalogOffline = errors.New("events catalog is unreachable")

	// ErrAuthFailed indicates the API key was rejected
	ErrAuthFailed = errors.New("API key is invalid")

	// ErrRateLimited indicates the catalog refused the request due to quota
	ErrRateLimited = errors.New("events catalog rate limit exceeded")

	// ErrInvalidURL indicates a link that cannot be opened
	ErrInvalidURL = errors.New("invalid URL")
)
