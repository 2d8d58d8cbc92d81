package common

const (
	// AuthorizationHeader carries the bearer credential on protected requests.
	AuthorizationHeader = "Authorization"

	// BearerPrefix precedes the credential inside AuthorizationHeader.
	BearerPrefix = "Bearer "

	// TraceIDHeader echoes the per-request trace id back to the caller.
	TraceIDHeader = "X-Trace-ID"
)
