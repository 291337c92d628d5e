package hosting

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"

	"pageforge/internal/exec"
)

// ErrorType represents different categories of provisioning errors
type ErrorType string

const (
	// ErrorTypeAuth covers a missing or invalid credential. Fatal, raised
	// before any network call is made.
	ErrorTypeAuth ErrorType = "authentication"
	// ErrorTypeExternalTool covers a non-zero exit from the gh or git CLI.
	ErrorTypeExternalTool ErrorType = "external_tool"
	// ErrorTypeRemote covers network failures and service-side 5xx responses.
	ErrorTypeRemote ErrorType = "remote_service"
	// ErrorTypeConflict covers a repository that already exists on the remote.
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeValidation covers invalid manifest or configuration input.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeUnknown covers everything else.
	ErrorTypeUnknown ErrorType = "unknown"
)

// Error represents a structured error from hosting operations
type Error struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Cause     error     `json:"-"`
	Repo      string    `json:"repo,omitempty"`
	ExitCode  int       `json:"exit_code,omitempty"`
	Output    string    `json:"output,omitempty"`
	Retryable bool      `json:"retryable"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Repo != "" {
		return fmt.Sprintf("%s error for %s: %s", e.Type, e.Repo, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether the error is retryable
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// NewError creates a new Error with the specified type and message
func NewError(errorType ErrorType, message string, cause error) *Error {
	return &Error{
		Type:      errorType,
		Message:   message,
		Cause:     cause,
		Retryable: errorType == ErrorTypeRemote,
	}
}

// NewAuthError reports a missing or rejected credential.
func NewAuthError(message string) *Error {
	return NewError(ErrorTypeAuth, message, nil)
}

// NewAlreadyExistsError reports that the remote repository already exists.
func NewAlreadyExistsError(repo string) *Error {
	err := NewError(ErrorTypeConflict, "repository already exists", nil)
	err.Repo = repo
	return err
}

// IsAlreadyExists reports whether err is (or wraps) a conflict error.
func IsAlreadyExists(err error) bool {
	var hostingErr *Error
	if errors.As(err, &hostingErr) {
		return hostingErr.Type == ErrorTypeConflict
	}
	return false
}

// IsAuth reports whether err is (or wraps) an authentication error.
func IsAuth(err error) bool {
	var hostingErr *Error
	if errors.As(err, &hostingErr) {
		return hostingErr.Type == ErrorTypeAuth
	}
	return false
}

// WrapToolError converts a subprocess failure into an Error, preserving
// the tool's exit code and captured output. Conflict output from gh
// ("already exists") is classified separately so callers can apply the
// skip policy.
func WrapToolError(err error, repo string) *Error {
	if err == nil {
		return nil
	}

	var hostingErr *Error
	if errors.As(err, &hostingErr) {
		if hostingErr.Repo == "" {
			hostingErr.Repo = repo
		}
		return hostingErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out := strings.ToLower(exitErr.Output)
		if strings.Contains(out, "already exists") || strings.Contains(out, "name already exists") {
			conflict := NewAlreadyExistsError(repo)
			conflict.Cause = err
			conflict.Output = exitErr.Output
			return conflict
		}
		return &Error{
			Type:      ErrorTypeExternalTool,
			Message:   fmt.Sprintf("%s exited with code %d", exitErr.Command, exitErr.ExitCode),
			Cause:     err,
			Repo:      repo,
			ExitCode:  exitErr.ExitCode,
			Output:    exitErr.Output,
			Retryable: false,
		}
	}

	if isNetworkError(err) {
		return &Error{
			Type:      ErrorTypeRemote,
			Message:   "network error occurred, check your connection and try again",
			Cause:     err,
			Repo:      repo,
			Retryable: true,
		}
	}

	return &Error{
		Type:      ErrorTypeUnknown,
		Message:   err.Error(),
		Cause:     err,
		Repo:      repo,
		Retryable: false,
	}
}

// WrapAPIError wraps a GitHub REST API error into our structured error type
func WrapAPIError(err error, repo string) *Error {
	if err == nil {
		return nil
	}

	var hostingErr *Error
	if errors.As(err, &hostingErr) {
		if hostingErr.Repo == "" {
			hostingErr.Repo = repo
		}
		return hostingErr
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		return parseAPIError(ghErr, repo)
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &Error{
			Type:      ErrorTypeRemote,
			Message:   fmt.Sprintf("rate limit exceeded, resets at %v", rateErr.Rate.Reset.Time),
			Cause:     err,
			Repo:      repo,
			Retryable: true,
		}
	}

	if isNetworkError(err) {
		return &Error{
			Type:      ErrorTypeRemote,
			Message:   "network error occurred, check your connection and try again",
			Cause:     err,
			Repo:      repo,
			Retryable: true,
		}
	}

	return &Error{
		Type:      ErrorTypeUnknown,
		Message:   err.Error(),
		Cause:     err,
		Repo:      repo,
		Retryable: false,
	}
}

// parseAPIError classifies GitHub API error responses by status code
func parseAPIError(ghErr *github.ErrorResponse, repo string) *Error {
	baseErr := &Error{
		Repo:  repo,
		Cause: ghErr,
	}

	switch ghErr.Response.StatusCode {
	case http.StatusUnauthorized:
		baseErr.Type = ErrorTypeAuth
		baseErr.Message = "authentication failed, check your GitHub token"
		baseErr.Retryable = false

	case http.StatusForbidden:
		if strings.Contains(ghErr.Message, "rate limit") {
			baseErr.Type = ErrorTypeRemote
			baseErr.Message = "GitHub API rate limit exceeded, wait before retrying"
			baseErr.Retryable = true
		} else {
			baseErr.Type = ErrorTypeAuth
			baseErr.Message = "insufficient permissions, the token may be missing the repo scope"
			baseErr.Retryable = false
		}

	case http.StatusUnprocessableEntity:
		// Creating a repository that exists responds 422 with a
		// "name already exists" validation error.
		for _, apiErr := range ghErr.Errors {
			if strings.Contains(apiErr.Message, "already exists") {
				baseErr.Type = ErrorTypeConflict
				baseErr.Message = "repository already exists"
				baseErr.Retryable = false
				return baseErr
			}
		}
		baseErr.Type = ErrorTypeValidation
		baseErr.Message = fmt.Sprintf("validation failed: %s", ghErr.Message)
		baseErr.Retryable = false

	case http.StatusConflict:
		baseErr.Type = ErrorTypeConflict
		baseErr.Message = "repository already exists"
		baseErr.Retryable = false

	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		baseErr.Type = ErrorTypeRemote
		baseErr.Message = "GitHub API is temporarily unavailable, try again later"
		baseErr.Retryable = true

	default:
		baseErr.Type = ErrorTypeUnknown
		baseErr.Message = ghErr.Message
		baseErr.Retryable = ghErr.Response.StatusCode >= 500
	}

	return baseErr
}

// isNetworkError checks if an error is a network-related error
func isNetworkError(err error) bool {
	errStr := strings.ToLower(err.Error())
	networkKeywords := []string{
		"connection refused",
		"connection reset",
		"connection timeout",
		"network is unreachable",
		"no such host",
		"timeout",
		"dial tcp",
		"i/o timeout",
	}

	for _, keyword := range networkKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

// RetryConfig defines configuration for retry logic
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns a default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:    3,
		InitialDelay:  time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
	}
}

// RetryableOperation represents an operation that can be retried
type RetryableOperation func() error

// WithRetry executes an operation with retry logic. Only errors classified
// as retryable (remote-service failures) are retried; everything else is
// returned to the caller on the first attempt.
func WithRetry(operation RetryableOperation, config *RetryConfig) error {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var lastErr error
	delay := config.InitialDelay

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)

			delay = time.Duration(float64(delay) * config.BackoffFactor)
			if delay > config.MaxDelay {
				delay = config.MaxDelay
			}
		}

		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		var hostingErr *Error
		if !errors.As(err, &hostingErr) || !hostingErr.IsRetryable() {
			return err
		}
	}

	return fmt.Errorf("operation failed after %d retries: %w", config.MaxRetries, lastErr)
}
