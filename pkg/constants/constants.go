// Package constants defines shared enumerations and default values for the
// ReceiptForge service.
package constants

import "time"

// ================================================================================
// Logging
// ================================================================================

// LogLevel represents the severity of a log entry.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

// String returns the textual form of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	case LogLevelFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ParseLogLevel converts a textual level to a LogLevel, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	case "fatal":
		return LogLevelFatal
	default:
		return LogLevelInfo
	}
}

// ================================================================================
// Rate limiting
// ================================================================================

const (
	// DefaultRateLimitMaxRequests is the number of requests admitted per key
	// within one window when no quota override is configured.
	DefaultRateLimitMaxRequests = 10

	// DefaultRateLimitWindow is the rolling window length for a quota.
	DefaultRateLimitWindow = time.Minute

	// DefaultRateLimitSweepInterval is how often expired counter entries are
	// garbage-collected. Sweeping is a memory bound, not a correctness
	// requirement: expired entries are also replaced lazily on access.
	DefaultRateLimitSweepInterval = 5 * time.Minute

	// UnknownClientIdentity is the sentinel used when no client address can
	// be derived from the request, keeping admission checks total.
	UnknownClientIdentity = "unknown"
)

// ================================================================================
// Pagination
// ================================================================================

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// ================================================================================
// Errors
// ================================================================================

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	ErrCodeInternal           ErrorCode = "internal_error"
	ErrCodeInvalidRequest     ErrorCode = "invalid_request"
	ErrCodeNotFound           ErrorCode = "not_found"
	ErrCodeConflict           ErrorCode = "conflict"
	ErrCodeValidation         ErrorCode = "validation_failed"
	ErrCodeRateLimitExceeded  ErrorCode = "rate_limit_exceeded"
	ErrCodeUnauthorized       ErrorCode = "unauthorized"
	ErrCodeServiceUnavailable ErrorCode = "service_unavailable"
)
