package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/gitmaster/pkg/analysis"
	"github.com/matzehuels/gitmaster/pkg/errors"
	ghapi "github.com/matzehuels/gitmaster/pkg/integrations/github"
	ghsource "github.com/matzehuels/gitmaster/pkg/source/github"
	"github.com/matzehuels/gitmaster/pkg/store"
)

type analyzeRequest struct {
	URL     string `json:"url"`
	Ref     string `json:"ref,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type statusResponse struct {
	Authenticated bool             `json:"authenticated"`
	RateLimit     *ghapi.RateLimit `json:"rateLimit"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, healthResponse{Status: "ok", Version: s.cfg.Version})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "request body must be JSON"), errors.ErrCodeAnalysisFailed)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, errors.New(errors.ErrCodeMissingURL, "Repository URL is required"), errors.ErrCodeAnalysisFailed)
		return
	}

	src, err := ghsource.FromURL(s.github, req.URL,
		ghsource.WithRef(req.Ref), ghsource.WithLogger(s.logger))
	if err != nil {
		writeError(w, err, errors.ErrCodeInvalidURL)
		return
	}

	res, err := s.runner.Run(r.Context(), src, analysis.RunOptions{
		Options: s.cfg.Analysis,
		Refresh: req.Refresh,
	})
	if err != nil {
		s.logger.Warn("analysis failed", "repo", src.Name(), "error", err)
		writeError(w, err, errors.ErrCodeAnalysisFailed)
		return
	}
	writeData(w, res)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	rl, err := s.github.RateLimit(r.Context())
	if err != nil {
		writeError(w, err, errors.ErrCodeNetwork)
		return
	}
	writeData(w, statusResponse{Authenticated: s.github.Authenticated(), RateLimit: rl})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	res, err := s.runner.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, errors.ErrCodeStorage)
		return
	}
	writeData(w, res)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if s.runner.Store == nil {
		writeData(w, []store.Record{})
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			err = errors.ValidateRange("limit", n, 1, 100)
		}
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid limit %q", v), errors.ErrCodeStorage)
			return
		}
		limit = n
	}
	recs, err := s.runner.Store.List(r.Context(), r.URL.Query().Get("repository"), limit)
	if err != nil {
		writeError(w, err, errors.ErrCodeStorage)
		return
	}
	writeData(w, recs)
}
