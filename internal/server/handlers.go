package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/abhisek/gifted/internal/student"
)

// Response bodies for failures. Error text is plain, never JSON.
const (
	msgRulesBadRequest = "Please pass a JSON body with student data."
	msgAIBadRequest    = "Please pass a JSON body with student data for AI classification."
	msgAIUpstream      = "Error processing AI classification"
	msgBodyTooLarge    = "Request body too large."
)

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (s *Server) handleEvaluateRules(w http.ResponseWriter, r *http.Request) {
	p, ok := s.decodeProfile(w, r, msgRulesBadRequest)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.evaluator.Evaluate(p))
}

func (s *Server) handleClassifyStudentAI(w http.ResponseWriter, r *http.Request) {
	p, ok := s.decodeProfile(w, r, msgAIBadRequest)
	if !ok {
		return
	}

	v, err := s.classifier.Classify(r.Context(), p)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "AI classification failed", requestAttr(r), slog.Any("error", err))
		body := msgAIUpstream + "."
		if s.cfg.ExposeUpstreamErrors {
			body = fmt.Sprintf("%s: %v", msgAIUpstream, err)
		}
		http.Error(w, body, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, v)
}

// decodeProfile reads and decodes the request body. On failure it writes the
// error response and returns false. Body contents are never logged.
func (s *Server) decodeProfile(w http.ResponseWriter, r *http.Request, badRequest string) (*student.Profile, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, msgBodyTooLarge, http.StatusRequestEntityTooLarge)
			return nil, false
		}
		http.Error(w, badRequest, http.StatusBadRequest)
		return nil, false
	}

	p, err := student.Decode(body)
	if err != nil {
		s.logger.WarnContext(r.Context(), "rejected malformed profile", requestAttr(r))
		http.Error(w, badRequest, http.StatusBadRequest)
		return nil, false
	}
	return p, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
