package server

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/gifted/internal/logging"
)

const (
	headerRequestID    = "X-Request-ID"
	headerFunctionKey  = "x-functions-key"
	queryFunctionKey   = "code"
	maxRequestIDLength = 128
)

// withRequestID echoes a caller-supplied X-Request-ID or assigns a new one,
// and stores it on the request context.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.InfoContext(r.Context(), "request",
			requestAttr(r),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("latency", time.Since(start)),
		)
	})
}

// requireFunctionKey rejects requests without the configured key. With no
// key configured every request passes.
func (s *Server) requireFunctionKey(next http.Handler) http.Handler {
	if s.cfg.FunctionKey == "" {
		return next
	}
	want := []byte(s.cfg.FunctionKey)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(headerFunctionKey)
		if got == "" {
			got = r.URL.Query().Get(queryFunctionKey)
		}
		if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			http.Error(w, "Unauthorized.", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestAttr(r *http.Request) slog.Attr {
	return slog.String("request_id", logging.RequestIDFrom(r.Context()))
}
