package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized indicates unauthorized access
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMissingAPIKey indicates a required API key is not configured
	ErrMissingAPIKey = errors.New("missing API key")
	// ErrUpstream indicates an external service call failed
	ErrUpstream = errors.New("upstream request failed")
	// ErrNoCoordinates indicates the model output held no bounding boxes
	ErrNoCoordinates = errors.New("no coordinates found in response")
	// ErrNoFields indicates the model output held no label/value lines
	ErrNoFields = errors.New("no fields found in response")
)
