package constants

type contextKey string

const (
	// RequestIDKey 存放於request context的request id key
	RequestIDKey contextKey = "request_id"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
