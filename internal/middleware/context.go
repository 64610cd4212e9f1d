package middleware

// Context keys used to store request metadata.
const (
	ContextKeyRequestID = "request_id"
)

// HeaderRequestID carries the request identifier across services.
const HeaderRequestID = "X-Request-ID"
