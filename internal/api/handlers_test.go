// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package api

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelsense/internal/logging"
	"github.com/tomtom215/reelsense/internal/metrics"
	"github.com/tomtom215/reelsense/internal/models"
	"github.com/tomtom215/reelsense/internal/ratings"
	"github.com/tomtom215/reelsense/internal/recommend"
)

// envelope mirrors models.APIResponse with the payload left undecoded.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func overviewRecord(id int64, title, overview string) recommend.Record {
	return recommend.Record{
		ID:       id,
		Title:    title,
		Overview: overview,
		Genres:   "[]",
		Keywords: "[]",
		Cast:     "[]",
		Crew:     "[]",
	}
}

func scenarioRecords() []recommend.Record {
	return []recommend.Record{
		overviewRecord(1, "A", "space war hero"),
		overviewRecord(2, "B", "space battle hero"),
		overviewRecord(3, "C", "romance drama"),
	}
}

func newTestEngine(t *testing.T, cfg *recommend.Config, records []recommend.Record) *recommend.Engine {
	t.Helper()
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	engine, err := recommend.NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if records != nil {
		if _, err := engine.Build(context.Background(), records); err != nil {
			t.Fatalf("Build: %v", err)
		}
	}
	return engine
}

func newTestRatings(t *testing.T) *ratings.Service {
	t.Helper()
	db, err := ratings.OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return ratings.NewService(ratings.NewBadgerSheet(db), zerolog.Nop())
}

func newTestServer(t *testing.T, engine RecommendationEngine, svc RatingsService, mw *ChiMiddlewareConfig) http.Handler {
	t.Helper()
	if mw == nil {
		mw = DefaultChiMiddlewareConfig()
		mw.RateLimitDisabled = true
	}
	h := NewHandler(engine, svc, "test", zerolog.Nop())
	return NewRouter(h, mw).Setup()
}

func do(t *testing.T, srv http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, env
}

// failingRatings always returns err.
type failingRatings struct{ err error }

func (f failingRatings) Films(context.Context) ([]ratings.Film, error) { return nil, f.err }
func (f failingRatings) Summary(context.Context) (*ratings.Summary, error) {
	return nil, f.err
}
func (f failingRatings) Submit(context.Context, ratings.Submission) (*ratings.SubmitResult, error) {
	return nil, f.err
}

func TestRecommendations(t *testing.T) {
	srv := newTestServer(t, newTestEngine(t, nil, scenarioRecords()), newTestRatings(t), nil)

	rec, env := do(t, srv, http.MethodGet, "/api/v1/recommendations?title=A", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if env.Status != "success" {
		t.Errorf("envelope status = %q", env.Status)
	}
	var data models.RecommendationsResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	titles := recommend.Titles(data.Recommendations)
	if len(titles) != 2 || titles[0] != "B" || titles[1] != "C" {
		t.Errorf("titles = %v, want [B C]", titles)
	}
	for _, r := range data.Recommendations {
		if r.Title == "A" {
			t.Error("queried movie returned in its own recommendations")
		}
	}
	if env.Metadata.Cached {
		t.Error("first lookup should not be cached")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers on API route")
	}

	hits := testutil.ToFloat64(metrics.LookupCacheHits)
	_, env = do(t, srv, http.MethodGet, "/api/v1/recommendations?title=A", "")
	if !env.Metadata.Cached {
		t.Error("second identical lookup should be cached")
	}
	if got := testutil.ToFloat64(metrics.LookupCacheHits) - hits; got != 1 {
		t.Errorf("cache hit delta = %v, want 1", got)
	}

	_, env = do(t, srv, http.MethodGet, "/api/v1/recommendations?title=A&k=1", "")
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Recommendations) != 1 || data.Recommendations[0].Title != "B" {
		t.Errorf("k=1 recommendations = %+v, want [B]", data.Recommendations)
	}
}

func TestRecommendations_Errors(t *testing.T) {
	loaded := newTestEngine(t, nil, scenarioRecords())
	empty := newTestEngine(t, nil, nil)

	rejectCfg := recommend.DefaultConfig()
	rejectCfg.Lookup.TitlePolicy = recommend.TitleReject
	twins := newTestEngine(t, rejectCfg, append(scenarioRecords(),
		overviewRecord(4, "Twin", "space twin"),
		overviewRecord(5, "Twin", "drama twin"),
	))

	tests := []struct {
		name   string
		engine RecommendationEngine
		target string
		status int
		code   string
	}{
		{"missing title", loaded, "/api/v1/recommendations", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"blank title", loaded, "/api/v1/recommendations?title=%20%20", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad k", loaded, "/api/v1/recommendations?title=A&k=two", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"negative k", loaded, "/api/v1/recommendations?title=A&k=-1", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown title", loaded, "/api/v1/recommendations?title=Nope", http.StatusNotFound, "NOT_FOUND"},
		{"ambiguous title", twins, "/api/v1/recommendations?title=Twin", http.StatusConflict, "AMBIGUOUS_TITLE"},
		{"no model", empty, "/api/v1/recommendations?title=A", http.StatusServiceUnavailable, "MODEL_NOT_LOADED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.engine, newTestRatings(t), nil)
			rec, env := do(t, srv, http.MethodGet, tt.target, "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if env.Status != "error" || env.Error == nil || env.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %s", env.Error, tt.code)
			}
		})
	}
}

func TestRecommendations_ExactTitle(t *testing.T) {
	engine := newTestEngine(t, nil, append(scenarioRecords(),
		overviewRecord(4, " Padded ", "space war hero"),
	))
	srv := newTestServer(t, engine, newTestRatings(t), nil)

	tests := []struct {
		target string
		status int
	}{
		{"/api/v1/recommendations?title=%20Padded%20", http.StatusOK},
		{"/api/v1/recommendations?title=Padded", http.StatusNotFound},
		{"/api/v1/recommendations?title=%20A", http.StatusNotFound},
		{"/api/v1/recommendations?title=A", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec, _ := do(t, srv, http.MethodGet, tt.target, "")
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestRecommendations_LookupMetrics(t *testing.T) {
	srv := newTestServer(t, newTestEngine(t, nil, scenarioRecords()), newTestRatings(t), nil)

	notFound := metrics.LookupsTotal.WithLabelValues(metrics.OutcomeNotFound)
	before := testutil.ToFloat64(notFound)
	do(t, srv, http.MethodGet, "/api/v1/recommendations?title=Missing", "")
	if got := testutil.ToFloat64(notFound) - before; got != 1 {
		t.Errorf("not_found lookups delta = %v, want 1", got)
	}
}

func TestRecommendationStatus(t *testing.T) {
	srv := newTestServer(t, newTestEngine(t, nil, scenarioRecords()), newTestRatings(t), nil)

	rec, env := do(t, srv, http.MethodGet, "/api/v1/recommendations/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var status recommend.Status
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !status.Loaded || status.Movies != 3 || status.Vocabulary == 0 {
		t.Errorf("status = %+v, want loaded with 3 movies", status)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		engine     RecommendationEngine
		ratings    RatingsService
		wantCode   int
		wantStatus string
	}{
		{"healthy", newTestEngine(t, nil, scenarioRecords()), newTestRatings(t), http.StatusOK, "healthy"},
		{"degraded without model", newTestEngine(t, nil, nil), newTestRatings(t), http.StatusOK, "degraded"},
		{"ratings store down", newTestEngine(t, nil, scenarioRecords()), failingRatings{errors.New("closed")}, http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.engine, tt.ratings, nil)
			rec, env := do(t, srv, http.MethodGet, "/api/v1/health", "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			var health models.HealthResponse
			if err := json.Unmarshal(env.Data, &health); err != nil {
				t.Fatalf("decode health: %v", err)
			}
			if health.Status != tt.wantStatus {
				t.Errorf("health status = %q, want %q", health.Status, tt.wantStatus)
			}
			if health.Version != "test" {
				t.Errorf("version = %q", health.Version)
			}
		})
	}
}

func TestSubmitRating_FindOrAppend(t *testing.T) {
	srv := newTestServer(t, newTestEngine(t, nil, nil), newTestRatings(t), nil)

	body := `{"name":"Alien","genre":"Sci-fi","sub_genre":"Horror","director":"Ridley Scott","usr1":8,"usr2":9,"bob":"n"}`
	rec, env := do(t, srv, http.MethodPost, "/api/v1/ratings", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first submit status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var res ratings.SubmitResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Outcome != ratings.OutcomeAppended || res.Film.Mean != 8.5 || res.Film.BasedOnBook != "N" {
		t.Errorf("result = %+v", res)
	}

	updated := metrics.RatingsSubmissions.WithLabelValues(string(ratings.OutcomeUpdated))
	before := testutil.ToFloat64(updated)

	body = `{"name":"Alien","genre":"Sci-fi","usr1":10,"usr2":0,"bob":"N"}`
	rec, env = do(t, srv, http.MethodPost, "/api/v1/ratings", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("second submit status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Outcome != ratings.OutcomeUpdated || res.Film.Mean != 10 || res.Film.SubGenre != "Horror" {
		t.Errorf("result = %+v, want updated scores with original sub-genre", res)
	}
	if got := testutil.ToFloat64(updated) - before; got != 1 {
		t.Errorf("updated submissions delta = %v, want 1", got)
	}

	_, env = do(t, srv, http.MethodGet, "/api/v1/ratings", "")
	var films []ratings.Film
	if err := json.Unmarshal(env.Data, &films); err != nil {
		t.Fatalf("decode films: %v", err)
	}
	if len(films) != 1 {
		t.Errorf("films = %d, want 1", len(films))
	}
}

func TestSubmitRating_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"not json", `{"name":`, "INVALID_JSON"},
		{"unknown field", `{"name":"Alien","rating":9}`, "INVALID_JSON"},
		{"bad genre", `{"name":"Alien","genre":"Polka","usr1":8,"usr2":8,"bob":"N"}`, "VALIDATION_ERROR"},
		{"off-step score", `{"name":"Alien","genre":"Sci-fi","usr1":8.3,"usr2":8,"bob":"N"}`, "VALIDATION_ERROR"},
		{"missing name", `{"genre":"Sci-fi","usr1":8,"usr2":8,"bob":"N"}`, "VALIDATION_ERROR"},
	}
	srv := newTestServer(t, newTestEngine(t, nil, nil), newTestRatings(t), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, srv, http.MethodPost, "/api/v1/ratings", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if env.Error == nil || env.Error.Code != tt.code {
				t.Errorf("error = %+v, want %s", env.Error, tt.code)
			}
		})
	}
}

func TestListRatings_Sort(t *testing.T) {
	svc := newTestRatings(t)
	ctx := context.Background()
	for _, sub := range []ratings.Submission{
		{Name: "Heat", Genre: "Crime", Usr1: 9, Usr2: 9, BasedOnBook: "N"},
		{Name: "Alien", Genre: "Sci-fi", Usr1: 8, Usr2: 8, BasedOnBook: "N"},
		{Name: "Titanic", Genre: "Romance", Usr1: 5, Usr2: 5, BasedOnBook: "N"},
	} {
		if _, err := svc.Submit(ctx, sub); err != nil {
			t.Fatalf("Submit %s: %v", sub.Name, err)
		}
	}
	srv := newTestServer(t, newTestEngine(t, nil, nil), svc, nil)

	tests := []struct {
		sort   string
		status int
		want   []string
	}{
		{"", http.StatusOK, []string{"Heat", "Alien", "Titanic"}},
		{"name", http.StatusOK, []string{"Alien", "Heat", "Titanic"}},
		{"score", http.StatusOK, []string{"Heat", "Alien", "Titanic"}},
		{"year", http.StatusBadRequest, nil},
	}
	for _, tt := range tests {
		t.Run("sort="+tt.sort, func(t *testing.T) {
			rec, env := do(t, srv, http.MethodGet, "/api/v1/ratings?sort="+tt.sort, "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.want == nil {
				return
			}
			var films []ratings.Film
			if err := json.Unmarshal(env.Data, &films); err != nil {
				t.Fatalf("decode films: %v", err)
			}
			var got []string
			for _, f := range films {
				got = append(got, f.Name)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRatingsSummary(t *testing.T) {
	svc := newTestRatings(t)
	if _, err := svc.Submit(context.Background(), ratings.Submission{
		Name: "Heat", Genre: "Crime", Director: "Michael Mann", Usr1: 9, Usr2: 8, BasedOnBook: "N",
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	srv := newTestServer(t, newTestEngine(t, nil, nil), svc, nil)

	rec, env := do(t, srv, http.MethodGet, "/api/v1/ratings/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var summary ratings.Summary
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalFilms != 1 || summary.HighestMean != 8.5 {
		t.Errorf("summary = %+v", summary)
	}

	srv = newTestServer(t, newTestEngine(t, nil, nil), failingRatings{errors.New("closed")}, nil)
	rec, _ = do(t, srv, http.MethodGet, "/api/v1/ratings/summary", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("failing store status = %d, want 500", rec.Code)
	}
}

func TestDashboard(t *testing.T) {
	svc := newTestRatings(t)
	if _, err := svc.Submit(context.Background(), ratings.Submission{
		Name: "Heat", Genre: "Crime", Usr1: 9, Usr2: 8, BasedOnBook: "N",
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	srv := newTestServer(t, newTestEngine(t, nil, nil), svc, nil)

	for _, target := range []string{"/dashboard", "/dashboard?sort=score"} {
		rec, _ := do(t, srv, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", target, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("%s Content-Type = %q", target, ct)
		}
		if !strings.Contains(rec.Body.String(), "Genres Watched") {
			t.Errorf("%s body missing genre chart", target)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", rec.Header().Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	page, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read gzip body: %v", err)
	}
	if !bytes.Contains(page, []byte("Heat")) {
		t.Error("compressed page missing film")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, newTestEngine(t, nil, nil), newTestRatings(t), nil)
	do(t, srv, http.MethodGet, "/api/v1/health", "")

	rec, _ := do(t, srv, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "api_requests_total") {
		t.Error("exposition missing api_requests_total")
	}
}

func TestFailureLogCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(newTestEngine(t, nil, nil), failingRatings{errors.New("disk gone")}, "test", logging.NewTestLogger(&buf))
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	srv := NewRouter(h, mw).Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ratings/summary", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "disk gone") {
		t.Error("internal error leaked to client")
	}
	out := buf.String()
	for _, want := range []string{`"request_id":"req-42"`, `"code":"DATABASE_ERROR"`, "disk gone"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s: %s", want, out)
		}
	}
}
