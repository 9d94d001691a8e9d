package trace

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"saba/internal/log"
	"saba/internal/metrics"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"

	// RequestIDHeader is honoured on input and always set on output.
	RequestIDHeader = "X-Request-ID"
)

// Middleware assigns request IDs, logs request completion and records
// request metrics.
type Middleware struct {
	extractIP func(*http.Request) string
	logger    *log.Logger
	http      *log.StructuredLogger
	metrics   *metrics.Metrics
}

// NewMiddleware creates a new trace middleware. m may be nil.
func NewMiddleware(extractIP func(*http.Request) string, logger *log.Logger, m *metrics.Metrics) *Middleware {
	if logger == nil {
		logger = log.Nop()
	}
	return &Middleware{
		extractIP: extractIP,
		logger:    logger,
		http:      log.NewStructuredLogger(logger),
		metrics:   m,
	}
}

// Middleware returns HTTP middleware for request tracing
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		requestID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = GenerateRequestID()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = log.WithLogger(ctx, m.logger.With(log.FieldRequestID, requestID))
		r = r.WithContext(ctx)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		m.http.LogHTTPEnd(ctx, r, rw.statusCode, duration.Milliseconds(), clientIP)
		if m.metrics != nil {
			m.metrics.ObserveHTTP(r.Method, routeName(r), rw.statusCode, duration)
		}
	})
}

// routeName returns the matched route template so metric labels stay
// bounded. Unmatched paths share one label.
func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	return uuid.NewString()
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
