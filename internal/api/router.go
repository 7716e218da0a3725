package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/garima1kafle/path2prep/core"
	"github.com/garima1kafle/path2prep/schema"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.healthCheck)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/backends", s.getBackends)
		r.Post("/careers/recommend", s.rankHandler(schema.CareerKind))
		r.Post("/scholarships/match", s.rankHandler(schema.ScholarshipKind))
		r.Get("/users/{user}/recommendations", s.getLatestRecommendations)
	})
}

// RankRequestBody is the body of the ranking endpoints. An inline profile
// wins over user; an omitted top_k selects the configured limit, or 3
// careers and 5 scholarships when none is configured.
type RankRequestBody struct {
	Profile *schema.Profile `json:"profile,omitempty"`
	User    string          `json:"user,omitempty"`
	TopK    *int            `json:"top_k,omitempty"`
}

// RankResponseData is the payload of a successful ranking call.
type RankResponseData struct {
	Kind    schema.CandidateKind    `json:"kind"`
	Method  schema.Method           `json:"method"`
	Results []schema.EnrichedResult `json:"results"`
}

// StoredResult is one ranked candidate of a recorded run.
type StoredResult struct {
	Rank          int32     `json:"rank"`
	CandidateName string    `json:"candidate"`
	Score         float64   `json:"score"`
	Label         string    `json:"label"`
	Method        string    `json:"method"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// LatestResponseData is the latest recorded ranking of one user.
type LatestResponseData struct {
	User    string               `json:"user"`
	Engine  schema.CandidateKind `json:"engine"`
	RunID   int64                `json:"run_id,omitempty"`
	Results []StoredResult       `json:"results"`
}

// BackendRow is one backend with the weight it contributes.
type BackendRow struct {
	schema.BackendStatus
	Weight float64 `json:"weight"`
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "path2prep-api",
	})
}

func (s *Server) getBackends(w http.ResponseWriter, r *http.Request) {
	statuses := s.svc.Backends()
	rows := make([]BackendRow, len(statuses))
	for i, st := range statuses {
		rows[i] = BackendRow{BackendStatus: st, Weight: s.cfg.WeightsFor(st.Engine)[st.Name]}
	}
	writeSuccess(w, r, rows)
}

func (s *Server) rankHandler(kind schema.CandidateKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body RankRequestBody
		if err := decodeBody(r, &body); err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}

		topK := s.cfg.TopKFor(kind)
		if body.TopK != nil {
			topK = *body.TopK
		}
		results, err := s.svc.Rank(r.Context(), core.Query{
			Kind:    kind,
			Profile: body.Profile,
			User:    body.User,
			TopK:    topK,
			Source:  "http",
		})
		if errors.Is(err, core.ErrInvalidTopK) {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, err)
			return
		}

		method := schema.MethodDefault
		if len(results) > 0 {
			method = results[0].Method
		}
		writeSuccess(w, r, RankResponseData{
			Kind:    kind,
			Method:  method,
			Results: schema.EnrichResults(results),
		})
	}
}

// getLatestRecommendations serves the latest recorded ranking of a user.
// The engine query parameter selects career (default) or scholarship.
func (s *Server) getLatestRecommendations(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	engine := schema.CareerKind
	if e := r.URL.Query().Get("engine"); e != "" {
		engine = schema.CandidateKind(e)
	}
	if _, ok := schema.ValidCandidateKinds[engine]; !ok {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("unknown engine %q", engine))
		return
	}

	records, err := s.svc.LatestResults(user, engine)
	if errors.Is(err, core.ErrHistoryDisabled) {
		writeError(w, r, http.StatusServiceUnavailable, err)
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if len(records) == 0 {
		writeError(w, r, http.StatusNotFound, fmt.Errorf("no %s rankings recorded for %q", engine, user))
		return
	}

	data := LatestResponseData{User: user, Engine: engine, RunID: records[0].RunID, Results: make([]StoredResult, len(records))}
	for i, rec := range records {
		data.Results[i] = StoredResult{
			Rank:          rec.Rank,
			CandidateName: rec.CandidateName,
			Score:         rec.Score,
			Label:         rec.Label,
			Method:        rec.Method,
			RecordedAt:    rec.RecordedAt,
		}
	}
	writeSuccess(w, r, data)
}

// decodeBody reads a JSON body. An empty body decodes to the zero value.
func decodeBody(r *http.Request, dst any) error {
	data, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
