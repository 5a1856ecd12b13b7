package domain

import "errors"

// Domain errors
var (
	ErrTransport      = errors.New("message bus unavailable")
	ErrParse          = errors.New("malformed payload")
	ErrUnknownChannel = errors.New("unknown channel")
	ErrInvalidPattern = errors.New("invalid filter pattern")
	ErrRender         = errors.New("render failed")
	ErrClipboard      = errors.New("clipboard unavailable")
	ErrNoStats        = errors.New("no statistics received yet")
	ErrConfigNotFound = errors.New("config file not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Error codes for API responses
const (
	ErrCodeTransport      = "TRANSPORT_ERROR"
	ErrCodeParse          = "PARSE_ERROR"
	ErrCodeUnknownChannel = "UNKNOWN_CHANNEL"
	ErrCodeInvalidPattern = "INVALID_PATTERN"
	ErrCodeRender         = "RENDER_ERROR"
	ErrCodeClipboard      = "CLIPBOARD_ERROR"
	ErrCodeNoStats        = "NO_STATS"

	// API-only, no sentinel error
	ErrCodeStreamingNotSupported = "STREAMING_NOT_SUPPORTED"
)

// ErrorCode returns the API error code for a domain error
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrTransport):
		return ErrCodeTransport
	case errors.Is(err, ErrParse):
		return ErrCodeParse
	case errors.Is(err, ErrUnknownChannel):
		return ErrCodeUnknownChannel
	case errors.Is(err, ErrInvalidPattern):
		return ErrCodeInvalidPattern
	case errors.Is(err, ErrRender):
		return ErrCodeRender
	case errors.Is(err, ErrClipboard):
		return ErrCodeClipboard
	case errors.Is(err, ErrNoStats):
		return ErrCodeNoStats
	default:
		return "INTERNAL_ERROR"
	}
}

// IsFatal reports whether err must terminate the dashboard.
// Only transport and render failures are fatal; everything else is absorbed.
func IsFatal(err error) bool {
	return errors.Is(err, ErrTransport) || errors.Is(err, ErrRender)
}
