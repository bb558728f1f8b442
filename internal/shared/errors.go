package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrNotConfigured = fmt.Errorf("OAuth credentials missing or incomplete")

	// Authorization flow errors
	ErrMissingCode      = fmt.Errorf("authorization code missing from callback")
	ErrInvalidState     = fmt.Errorf("state token missing, invalid, or already used")
	ErrNoChannel        = fmt.Errorf("no channel found for the authenticated account")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// API and service errors
	ErrUpstream      = fmt.Errorf("upstream API request failed")
	ErrMissingAPIKey = fmt.Errorf("API key not set")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
