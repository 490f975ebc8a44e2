package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mr1hm/go-quake-magnitude/internal/inference"
	"github.com/mr1hm/go-quake-magnitude/internal/models"
	"github.com/mr1hm/go-quake-magnitude/internal/observability"
	"github.com/mr1hm/go-quake-magnitude/internal/prediction"
	"github.com/mr1hm/go-quake-magnitude/internal/repository"
)

// mockRepo implements repository.PredictionRepository for testing
type mockRepo struct {
	records []models.PredictionRecord
}

func (m *mockRepo) Add(ctx context.Context, r *models.PredictionRecord) error {
	m.records = append(m.records, *r)
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*models.PredictionRecord, error) {
	for _, r := range m.records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) ListPredictions(ctx context.Context, opts repository.Filter) ([]models.PredictionRecord, error) {
	results := m.records

	// Apply tier filter
	if opts.Tier != nil {
		var filtered []models.PredictionRecord
		for _, r := range results {
			if r.Tier == *opts.Tier {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	// Apply magnitude filter
	if opts.MinMagnitude != nil {
		var filtered []models.PredictionRecord
		for _, r := range results {
			if r.Magnitude >= *opts.MinMagnitude {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	// Apply limit
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	return results, nil
}

// constantModel always predicts m.
func constantModel(m float64) inference.Model {
	return inference.ModelFunc(func(ctx context.Context, x []float64) (float64, error) {
		return m, nil
	})
}

func setupTestRouter(model inference.Model, repo repository.PredictionRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	opts := []prediction.Option{prediction.WithMetrics(observability.NewMetrics(reg))}
	if repo != nil {
		opts = append(opts, prediction.WithHistory(repo))
	}
	svc := prediction.NewService(model, opts...)

	router := gin.New()
	handler := NewHandler(svc, ModelInfo{Name: "test", Kind: "linear", Source: "memory"}, WithGatherer(reg))
	handler.RegisterRoutes(router)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func postForm(router *gin.Engine, values url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	return w
}

func TestIndex_RendersDefaults(t *testing.T) {
	router := setupTestRouter(constantModel(2.5), nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		`name="depth"`,
		`value="10"`,
		`<option value="ml" selected>ml</option>`,
		`<option value="ms">ms</option>`,
		"Magnitude Type (encoded):</strong> 0",
		"trained on historical earthquake data",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
	if strings.Contains(body, "Predicted Magnitude") {
		t.Error("expected no prediction before submit")
	}
}

func TestSubmit_ShowsResultAndScale(t *testing.T) {
	router := setupTestRouter(constantModel(5.999), nil)

	w := postForm(router, url.Values{
		"latitude":  {"35.5"},
		"longitude": {"139.1"},
		"depth":     {"25"},
		"mag_type":  {"mw"},
		"mag_nst":   {"40"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		"Prediction Complete!",
		"🔴 Predicted Magnitude: 6.00",
		"Strong earthquake - Can cause damage",
		`class="banner warning"`,
		"Magnitude Scale Reference",
		"Can cause damage over wide areas",
		`<option value="mw" selected>mw</option>`,
		"Magnitude Type (encoded):</strong> 2",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestSubmit_UnknownMagnitudeType(t *testing.T) {
	called := false
	model := inference.ModelFunc(func(ctx context.Context, x []float64) (float64, error) {
		called = true
		return 3, nil
	})
	router := setupTestRouter(model, nil)

	w := postForm(router, url.Values{"mag_type": {"xx"}})

	body := w.Body.String()
	if !strings.Contains(body, "Unknown magnitude type") {
		t.Error("expected unknown magnitude type message")
	}
	if strings.Contains(body, "Prediction Complete!") {
		t.Error("expected no result banner")
	}
	if called {
		t.Error("expected model not to be called")
	}
}

func TestSubmit_ModelError(t *testing.T) {
	model := inference.ModelFunc(func(ctx context.Context, x []float64) (float64, error) {
		return 0, errors.New("model file is corrupt")
	})
	router := setupTestRouter(model, nil)

	w := postForm(router, url.Values{})

	body := w.Body.String()
	if !strings.Contains(body, "Error making prediction: model file is corrupt") {
		t.Error("expected inference error message")
	}
	if !strings.Contains(body, "Please check your model file and input values") {
		t.Error("expected inference hint")
	}
	if strings.Contains(body, "Magnitude Scale Reference") {
		t.Error("expected no scale table on error")
	}
}

func TestSubmit_NotANumber(t *testing.T) {
	router := setupTestRouter(constantModel(2), nil)

	w := postForm(router, url.Values{"latitude": {"north"}})

	if !strings.Contains(w.Body.String(), "Invalid input") {
		t.Error("expected invalid input message")
	}
}

func TestPredict_DefaultsAreApplied(t *testing.T) {
	var got []float64
	model := inference.ModelFunc(func(ctx context.Context, x []float64) (float64, error) {
		got = x
		return 2.5, nil
	})
	router := setupTestRouter(model, nil)

	w := postJSON(router, "/api/predict", `{}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	want := []float64{0, 0, 10, 0, 10}
	if len(got) != len(want) {
		t.Fatalf("expected %d features, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("feature %d: expected %v, got %v", i, want[i], got[i])
		}
	}

	var resp PredictionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Tier != "Micro" {
		t.Errorf("expected tier Micro, got %s", resp.Tier)
	}
	if resp.Message != "Minor earthquake - Usually not felt" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.DisplayMagnitude != "2.50" {
		t.Errorf("expected display 2.50, got %s", resp.DisplayMagnitude)
	}
	if resp.Style != "info" {
		t.Errorf("expected style info, got %s", resp.Style)
	}
	if resp.ID == "" {
		t.Error("expected an id")
	}
}

func TestPredict_StatusCodes(t *testing.T) {
	failing := inference.ModelFunc(func(ctx context.Context, x []float64) (float64, error) {
		return 0, errors.New("boom")
	})

	tests := []struct {
		name     string
		model    inference.Model
		body     string
		wantCode int
		wantKind string
	}{
		{"major", constantModel(6.0), `{"mag_type":"mb"}`, http.StatusOK, ""},
		{"latitude out of range", constantModel(3), `{"latitude":91}`, http.StatusBadRequest, "invalid_input"},
		{"negative stations", constantModel(3), `{"mag_nst":-2}`, http.StatusBadRequest, "invalid_input"},
		{"unknown magnitude type", constantModel(3), `{"mag_type":"xx"}`, http.StatusBadRequest, "unknown_magnitude_type"},
		{"malformed body", constantModel(3), `{"latitude":`, http.StatusBadRequest, "invalid_input"},
		{"wrong type", constantModel(3), `{"depth":"deep"}`, http.StatusBadRequest, "invalid_input"},
		{"model failure", failing, `{}`, http.StatusBadGateway, "inference_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter(tt.model, nil)
			w := postJSON(router, "/api/predict", tt.body)

			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if tt.wantKind == "" {
				return
			}

			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if resp.Kind != tt.wantKind {
				t.Errorf("expected kind %s, got %s", tt.wantKind, resp.Kind)
			}
			if resp.Error == "" {
				t.Error("expected an error message")
			}
		})
	}
}

func TestPredict_RangeMessageUsesFieldName(t *testing.T) {
	router := setupTestRouter(constantModel(3), nil)

	w := postJSON(router, "/api/predict", `{"longitude":-200}`)

	var resp ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)

	if !strings.Contains(resp.Error, "longitude must be at least -180") {
		t.Errorf("unexpected error %q", resp.Error)
	}
}

func TestScale(t *testing.T) {
	router := setupTestRouter(constantModel(3), nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/scale", nil)
	router.ServeHTTP(w, req)

	var rows []models.ScaleEntry
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows))
	}
	if rows[4].Tier != models.SeverityStrong {
		t.Errorf("expected Strong in row 5, got %s", rows[4].Tier)
	}
}

func TestMagnitudeTypes(t *testing.T) {
	router := setupTestRouter(constantModel(3), nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/magnitude-types", nil)
	router.ServeHTTP(w, req)

	var types []MagnitudeTypeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &types); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	want := map[string]int{"ml": 0, "md": 1, "mw": 2, "mb": 3, "ms": 4}
	if len(types) != len(want) {
		t.Fatalf("expected %d types, got %d", len(want), len(types))
	}
	for _, mt := range types {
		if code, ok := want[mt.Label]; !ok || code != mt.Code {
			t.Errorf("unexpected type %+v", mt)
		}
	}
}

type predictionsResponse struct {
	HistoryEnabled bool             `json:"history_enabled"`
	Predictions    []RecordResponse `json:"predictions"`
}

func TestGetPredictions_HistoryDisabled(t *testing.T) {
	router := setupTestRouter(constantModel(3), nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/predictions", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp predictionsResponse
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp.HistoryEnabled {
		t.Error("expected history disabled")
	}
	if resp.Predictions == nil || len(resp.Predictions) != 0 {
		t.Errorf("expected empty list, got %v", resp.Predictions)
	}
}

func TestGetPredictions_Filters(t *testing.T) {
	now := time.Now()
	repo := &mockRepo{
		records: []models.PredictionRecord{
			{ID: "p1", Magnitude: 2.1, Tier: models.SeverityMicro, CreatedAt: now},
			{ID: "p2", Magnitude: 5.2, Tier: models.SeverityModerate, CreatedAt: now},
			{ID: "p3", Magnitude: 6.4, Tier: models.SeverityMajor, CreatedAt: now},
			{ID: "p4", Magnitude: 5.7, Tier: models.SeverityModerate, CreatedAt: now},
		},
	}
	router := setupTestRouter(constantModel(3), repo)

	tests := []struct {
		query string
		want  int
	}{
		{"", 4},
		{"?tier=Moderate", 2},
		{"?tier=Bogus", 4},
		{"?min_magnitude=5.5", 2},
		{"?limit=3", 3},
		{"?limit=9999", 4},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/predictions"+tt.query, nil)
		router.ServeHTTP(w, req)

		var resp predictionsResponse
		json.Unmarshal(w.Body.Bytes(), &resp)

		if len(resp.Predictions) != tt.want {
			t.Errorf("%q: expected %d predictions, got %d", tt.query, tt.want, len(resp.Predictions))
		}
	}
}

func TestPredict_RecordsHistory(t *testing.T) {
	repo := &mockRepo{}
	router := setupTestRouter(constantModel(4.4), repo)

	w := postJSON(router, "/api/predict", `{"latitude":12.5,"mag_type":"md"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	if len(repo.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(repo.records))
	}
	if repo.records[0].Tier != models.SeverityLight {
		t.Errorf("expected tier Light, got %s", repo.records[0].Tier)
	}
	if repo.records[0].Fields.Latitude != 12.5 {
		t.Errorf("expected latitude 12.5, got %v", repo.records[0].Fields.Latitude)
	}
}

func TestHealth(t *testing.T) {
	router := setupTestRouter(constantModel(3), nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Status string    `json:"status"`
		Model  ModelInfo `json:"model"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %s", resp.Status)
	}
	if resp.Model.Name != "test" {
		t.Errorf("expected model test, got %s", resp.Model.Name)
	}
}

func TestMetrics(t *testing.T) {
	router := setupTestRouter(constantModel(3.2), nil)
	postJSON(router, "/api/predict", `{}`)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `quake_predictions_total{outcome="ok"} 1`) {
		t.Error("expected prediction counter in metrics output")
	}
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(1))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK {
		t.Errorf("expected first request to pass, got %d", codes[0])
	}
	if codes[1] != http.StatusTooManyRequests {
		t.Errorf("expected second request to be limited, got %d", codes[1])
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(0))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}
