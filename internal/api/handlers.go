package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/matzehuels/promiscuity/pkg/annotation"
	"github.com/matzehuels/promiscuity/pkg/buildinfo"
	perr "github.com/matzehuels/promiscuity/pkg/errors"
	"github.com/matzehuels/promiscuity/pkg/pipeline"
)

// analyzeRequest is the body of POST /v1/analyze and POST /v1/bound.
type analyzeRequest struct {
	Annotation json.RawMessage `json:"annotation"`
	Options    requestOptions  `json:"options"`
}

type requestOptions struct {
	Strategy  string `json:"strategy,omitempty"`
	MaxTrees  int    `json:"max_trees,omitempty"`
	MaxSteps  int    `json:"max_steps,omitempty"`
	Timeout   string `json:"timeout,omitempty"`
	MaxBound  int64  `json:"max_bound,omitempty"`
	CountOnly bool   `json:"count_only,omitempty"`
	Strict    bool   `json:"strict,omitempty"`
}

type analyzeResponse struct {
	ID        string              `json:"id"`
	Count     int                 `json:"count"`
	Bound     string              `json:"bound"`
	Truncated bool                `json:"truncated"`
	Reason    string              `json:"reason,omitempty"`
	Skipped   bool                `json:"skipped"`
	Strategy  string              `json:"strategy"`
	Trees     []map[string]string `json:"trees,omitempty"`
	Stats     pipeline.Stats      `json:"stats"`
	CacheHit  bool                `json:"cache_hit"`
}

type boundResponse struct {
	ID    string `json:"id"`
	Nodes int    `json:"nodes"`
	Bound string `json:"bound"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"build":   buildinfo.String(),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ann, ok := s.decode(w, r)
	if !ok {
		return
	}
	opts, err := s.options(req.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.runner.Analyze(r.Context(), ann, opts)
	if err != nil && (res == nil || !opts.Strict) {
		writeError(w, err)
		return
	}
	if err != nil {
		// Strict limit hit: report the partial result with the error code.
		writeJSON(w, statusFor(err), struct {
			errorResponse
			Result analyzeResponse `json:"result"`
		}{errorFor(err), toResponse(res)})
		return
	}
	writeJSON(w, http.StatusOK, toResponse(res))
}

func (s *Server) handleBound(w http.ResponseWriter, r *http.Request) {
	_, ann, ok := s.decode(w, r)
	if !ok {
		return
	}
	b, g, err := s.runner.Bound(r.Context(), ann)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boundResponse{ID: ann.ID, Nodes: g.Len() - 1, Bound: b.String()})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (analyzeRequest, *annotation.Annotation, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return req, nil, false
		}
		writeError(w, perr.Wrap(perr.ErrCodeInvalidInput, err, "decode request"))
		return req, nil, false
	}
	if len(req.Annotation) == 0 {
		writeError(w, perr.New(perr.ErrCodeInvalidInput, "annotation is required"))
		return req, nil, false
	}
	ann, err := annotation.Decode(req.Annotation)
	if err != nil {
		writeError(w, err)
		return req, nil, false
	}
	return req, ann, true
}

// options merges request options over the server defaults and caps the
// timeout.
func (s *Server) options(ro requestOptions) (pipeline.Options, error) {
	opts := s.cfg.Defaults
	opts.Logger = nil
	if ro.Strategy != "" {
		opts.Strategy = ro.Strategy
	}
	if ro.MaxTrees > 0 {
		opts.Budget.MaxTrees = ro.MaxTrees
	}
	if ro.MaxSteps > 0 {
		opts.Budget.MaxSteps = ro.MaxSteps
	}
	if ro.MaxBound > 0 {
		opts.MaxBound = ro.MaxBound
	}
	opts.Budget.CountOnly = opts.Budget.CountOnly || ro.CountOnly
	opts.Strict = opts.Strict || ro.Strict

	if ro.Timeout != "" {
		d, err := time.ParseDuration(ro.Timeout)
		if err != nil || d < 0 {
			return opts, perr.New(perr.ErrCodeInvalidInput, "invalid timeout %q", ro.Timeout)
		}
		opts.Budget.Timeout = d
	}
	if limit := s.cfg.MaxTimeout; limit > 0 && (opts.Budget.Timeout == 0 || opts.Budget.Timeout > limit) {
		opts.Budget.Timeout = limit
	}
	if opts.Strategy != "" {
		if err := pipeline.ValidateStrategy(opts.Strategy); err != nil {
			return opts, perr.Wrap(perr.ErrCodeInvalidInput, err, "invalid options")
		}
	}
	return opts, nil
}

func toResponse(res *pipeline.Result) analyzeResponse {
	out := analyzeResponse{
		ID:        res.ID,
		Count:     res.Count,
		Truncated: res.Truncated,
		Reason:    res.Reason,
		Skipped:   res.Skipped,
		Strategy:  res.Strategy,
		Stats:     res.Stats,
		CacheHit:  res.CacheHit,
	}
	if res.Bound != nil {
		out.Bound = res.Bound.String()
	}
	for _, t := range res.Trees {
		out.Trees = append(out.Trees, t.Map())
	}
	return out
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	switch perr.GetCode(err) {
	case perr.ErrCodeInvalidInput, perr.ErrCodeInvalidAnnotation, perr.ErrCodeInvalidFormat, perr.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case perr.ErrCodeInconsistent, perr.ErrCodeBudgetExceeded, perr.ErrCodeBoundExceeded:
		return http.StatusUnprocessableEntity
	case perr.ErrCodeNotFound:
		return http.StatusNotFound
	case perr.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case perr.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorFor(err))
}

func errorFor(err error) errorResponse {
	msg := perr.UserMessage(err)
	var e *perr.Error
	if errors.As(err, &e) && e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return errorResponse{Error: msg, Code: string(perr.GetCode(err))}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
