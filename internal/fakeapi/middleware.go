package fakeapi

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/MKhiriev/orchestra/internal/app"
	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

type ctxKey string

const accountEmailCtxKey = ctxKey("accountEmail")

func (b *Backend) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(utils.RequestIDHeader)
		if requestID == "" {
			requestID = b.ids.Generate()
		}

		l := b.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("request_id", requestID)
		})
		r = r.WithContext(l.WithContext(r.Context()))

		w.Header().Set(utils.RequestIDHeader, requestID)
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		start := time.Now()

		lw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(lw, r)

		log.Info().
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}

func (b *Backend) withRecording(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get(utils.RequestIDHeader),
		})
		b.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// auth rejects requests without a live bearer token and stores the account
// e-mail in the request context.
func (b *Backend) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		token, err := utils.ParseBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			log.Err(err).Send()
			writeError(w, http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid)
			return
		}

		email, err := b.verifyToken(token)
		if err != nil {
			log.Err(err).Msg("token rejected")
			if errors.Is(err, jwt.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, app.MsgTokenIsExpired)
				return
			}
			writeError(w, http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid)
			return
		}

		ctx := context.WithValue(r.Context(), accountEmailCtxKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accountEmail(ctx context.Context) string {
	email, _ := ctx.Value(accountEmailCtxKey).(string)
	return email
}

// responseWriter captures the status and size of a response for logging.
type responseWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(status int) {
	if rw.wroteHeader {
		return
	}
	rw.status = status
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *responseWriter) Write(p []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(p)
	rw.size += n
	return n, err
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Hijack is required by the websocket upgrader.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	rw.status = http.StatusSwitchingProtocols
	return http.NewResponseController(rw.ResponseWriter).Hijack()
}
