// internal/api/middleware.go
package api

import (
	"context"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codr1/courtleague/internal/api/apiutil"
	"github.com/codr1/courtleague/internal/api/auth"
	"github.com/codr1/courtleague/internal/api/authz"
	"github.com/codr1/courtleague/internal/ratelimit"
)

type Middleware func(http.Handler) http.Handler

type requestIDKey struct{}

// ChainMiddleware wraps h so that the last middleware listed runs first.
func ChainMiddleware(h http.Handler, middleware ...Middleware) http.Handler {
	for _, m := range middleware {
		h = m(h)
	}
	return h
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := wrapResponseWriter(w)

		next.ServeHTTP(wrapped, r)
		log.Ctx(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.status).
			Dur("duration", time.Since(start)).
			Msg("Request completed")
	})
}

func WithRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Ctx(r.Context()).Error().
					Interface("error", err).
					Str("stack", string(debug.Stack())).
					Msg("Panic recovered")

				apiutil.Respond(w, r, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// WithRequestID honours an incoming X-Request-ID and attaches a request
// scoped logger to the context.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		logger := log.With().Str("request_id", requestID).Logger()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		ctx = logger.WithContext(ctx)

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithAuth resolves the caller. Anonymous requests pass through; handlers
// that need a player reject them. A presented but invalid credential is
// refused outright.
func WithAuth(authenticator auth.Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authenticator == nil {
				next.ServeHTTP(w, r)
				return
			}
			user, err := authenticator.Authenticate(r)
			if err != nil {
				log.Ctx(r.Context()).Warn().Err(err).Msg("Failed to authenticate request")
				apiutil.WriteError(w, r, authz.ErrUnauthenticated)
				return
			}
			if user != nil {
				ctx := authz.ContextWithUser(r.Context(), user)
				logger := log.Ctx(ctx).With().Int64("player_id", user.PlayerID).Logger()
				r = r.WithContext(logger.WithContext(ctx))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithWriteLimit throttles state-changing requests. Reads are never limited.
func WithWriteLimit(limiter *ratelimit.Limiter, trustProxy bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || !isWrite(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			var result ratelimit.LimitResult
			var key string
			if user := authz.UserFromContext(r.Context()); user != nil {
				key = "player:" + strconv.FormatInt(user.PlayerID, 10)
				result = limiter.AllowPlayer(user.PlayerID)
			} else {
				ip := ratelimit.GetClientIP(r, trustProxy)
				key = "ip:" + ip
				result = limiter.AllowAddress(ip)
			}
			if !result.Allowed {
				ratelimit.LogRateLimitExceeded(r.Context(), key, result.Reason, result.RetryAfter)
				seconds := int(result.RetryAfter.Round(time.Second) / time.Second)
				w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
				apiutil.Respond(w, r, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// responseWriter wrapper to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
