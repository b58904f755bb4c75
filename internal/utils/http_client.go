package utils

import (
	"github.com/go-resty/resty/v2"
)

// RequestIDHeader is the header carrying the per-request identifier.
const RequestIDHeader = "X-Request-ID"

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates and returns a new HTTPClient instance.
//
// Every request leaving the client carries an X-Request-ID header: the value
// stored in the request context via [WithRequestID] if present, otherwise a
// freshly generated UUIDv7. A header set explicitly on the request wins.
//
// Each call returns an independent client instance with its own
// configuration, connection pool, and state.
func NewHTTPClient() *HTTPClient {
	ids := NewUUIDGenerator()

	client := resty.New().
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			if r.Header.Get(RequestIDHeader) != "" {
				return nil
			}
			if id, ok := GetRequestIDFromContext(r.Context()); ok {
				r.SetHeader(RequestIDHeader, id)
				return nil
			}
			r.SetHeader(RequestIDHeader, ids.Generate())
			return nil
		})

	return &HTTPClient{Client: client}
}
