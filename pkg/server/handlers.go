package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/matzehuels/homcount/pkg/cache"
	"github.com/matzehuels/homcount/pkg/errors"
	"github.com/matzehuels/homcount/pkg/pipeline"
)

// CountRequest is the body of POST /v1/count. Exactly one of Pattern and
// PatternEdges must be set.
type CountRequest struct {
	Decomposition string `json:"decomposition"`
	Pattern       string `json:"pattern,omitempty"`
	PatternEdges  string `json:"pattern_edges,omitempty"`
	Target        string `json:"target"`
	TrackEdges    bool   `json:"track_edges,omitempty"`
	Refresh       bool   `json:"refresh,omitempty"`
}

// ClassesRequest is the body of POST /v1/classes.
type ClassesRequest struct {
	Decomposition string `json:"decomposition"`
	Target        string `json:"target"`
	Refresh       bool   `json:"refresh,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// HeaderDeduplicated is set on responses that shared an in-flight run.
const HeaderDeduplicated = "X-Deduplicated"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	var req CountRequest
	body, err := s.decode(w, r, &req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if (req.Pattern == "") == (req.PatternEdges == "") {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "set exactly one of pattern and pattern_edges"))
		return
	}

	opts := pipeline.Options{
		Mode:              pipeline.ModeCount,
		DecompositionData: []byte(req.Decomposition),
		TargetData:        []byte(req.Target),
		TrackEdges:        req.TrackEdges,
		Refresh:           req.Refresh,
		Workers:           s.cfg.Workers,
	}
	if req.PatternEdges != "" {
		opts.Pattern = req.PatternEdges
	} else {
		opts.PatternData = []byte(req.Pattern)
	}
	s.run(w, r, body, opts)
}

func (s *Server) handleClasses(w http.ResponseWriter, r *http.Request) {
	var req ClassesRequest
	body, err := s.decode(w, r, &req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.run(w, r, body, pipeline.Options{
		Mode:              pipeline.ModeClasses,
		DecompositionData: []byte(req.Decomposition),
		TargetData:        []byte(req.Target),
		Refresh:           req.Refresh,
		Workers:           s.cfg.Workers,
	})
}

// decode reads the body, keeping the raw bytes for request deduplication.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode body")
	}
	return body, nil
}

// run executes opts once per distinct in-flight body.
func (s *Server) run(w http.ResponseWriter, r *http.Request, body []byte, opts pipeline.Options) {
	key := r.URL.Path + ":" + cache.Hash(body)
	v, err, shared := s.flight.Do(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.cfg.Timeout)
		defer cancel()
		return s.runner.Execute(ctx, opts)
	})
	if shared {
		w.Header().Set(HeaderDeduplicated, "true")
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", RequestID(r.Context()))
	}
	writeJSON(w, status, ErrorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: RequestID(r.Context()),
	})
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidMode:
		return http.StatusBadRequest
	case errors.ErrCodeArithmeticRange:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
