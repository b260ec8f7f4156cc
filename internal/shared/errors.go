package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors
	ErrAuthFailed = fmt.Errorf("authentication failed")

	// API and provider errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrLinkUnavailable    = fmt.Errorf("shared link unavailable")

	// Per-file recoverable conditions
	ErrNoMetadata = fmt.Errorf("no readable metadata")

	// Run-level non-fatal conditions
	ErrNothingToDo = fmt.Errorf("nothing to do")

	// Lookup errors
	ErrNotFound = fmt.Errorf("not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
