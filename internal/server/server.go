// Package server exposes the rule evaluator and the AI classifier over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/gifted/internal/classifier"
	"github.com/abhisek/gifted/internal/logging"
	"github.com/abhisek/gifted/internal/rules"
	"github.com/abhisek/gifted/internal/student"
)

// RuleEvaluator produces a rule-based verdict for a profile.
type RuleEvaluator interface {
	Evaluate(p *student.Profile) *rules.Verdict
}

// AIClassifier produces an LLM-based verdict for a profile.
type AIClassifier interface {
	Classify(ctx context.Context, p *student.Profile) (*classifier.Verdict, error)
}

// Server routes requests to the two evaluators. It holds only values built
// at start-up and is safe for concurrent use.
type Server struct {
	cfg        Config
	evaluator  RuleEvaluator
	classifier AIClassifier
	logger     *slog.Logger
}

// New creates a Server. A nil logger uses the "server" component logger.
func New(cfg Config, evaluator RuleEvaluator, classifier AIClassifier, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.New("server")
	}
	return &Server{cfg: cfg, evaluator: evaluator, classifier: classifier, logger: logger}
}

// Handler returns the full route tree with middleware applied.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	for _, prefix := range []string{"", "/api"} {
		for _, method := range []string{http.MethodGet, http.MethodPost} {
			api.HandleFunc(fmt.Sprintf("%s %s/EvaluateRules", method, prefix), s.handleEvaluateRules)
			api.HandleFunc(fmt.Sprintf("%s %s/ClassifyStudentAI", method, prefix), s.handleClassifyStudentAI)
		}
	}

	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", handleHealthz)
	root.Handle("/", s.requireFunctionKey(api))

	return s.withRequestID(s.withAccessLog(root))
}

// Run listens on cfg.Addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// In-flight requests get up to cfg.ShutdownTimeout to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", slog.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
