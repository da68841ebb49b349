package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, mutate func(*Config)) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := Config{
		DBPath:    filepath.Join(t.TempDir(), "test.db"),
		SilentDB:  true,
		DisableAI: true,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	server, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Close() })
	router, err := server.Router()
	require.NoError(t, err)
	return server, router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func uploadCSV(t *testing.T, router http.Handler, fields map[string]string, csvBody string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if csvBody != "" {
		part, err := writer.CreateFormFile("scenarios", "scenarios.csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(csvBody))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/batches", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndConfig(t *testing.T) {
	_, router := newTestServer(t, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Scenarios       []string    `json:"scenarios"`
		Models          []OptionDTO `json:"comparison_models"`
		Locales         []string    `json:"locales"`
		DefaultLocale   string      `json:"default_locale"`
		Threshold       float64     `json:"probable_threshold"`
		ModelNarratives bool        `json:"model_narratives"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, []string{"gain", "loss"}, payload.Scenarios)
	assert.Len(t, payload.Models, 2)
	assert.Contains(t, payload.Locales, "es")
	assert.Equal(t, "en", payload.DefaultLocale)
	assert.Equal(t, 0.5, payload.Threshold)
	assert.False(t, payload.ModelNarratives)
}

func TestQuadrantsTable(t *testing.T) {
	_, router := newTestServer(t, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/quadrants?locale=es", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Items []QuadrantDTO `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Items, 4)

	got := make([]int, 0, 4)
	for _, item := range payload.Items {
		got = append(got, item.Quadrant)
		assert.NotEmpty(t, item.BiasLabel)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, got)
}

func TestEvaluateEndpoint(t *testing.T) {
	_, router := newTestServer(t, nil)

	p := 0.3
	rec := doJSON(t, router, http.MethodPost, "/api/evaluate", EvaluateRequest{
		Scenario:        "gain",
		RiskProbability: &p,
		SafeValue:       1000,
		RiskyValue:      5000,
		Label:           "lottery",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dto EvaluationDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, "complementary", dto.ComparisonModel)
	assert.Equal(t, 700.0, dto.SafeExpectedValue)
	assert.Equal(t, 1500.0, dto.RiskyExpectedValue)
	assert.Equal(t, 2, dto.Quadrant)
	assert.Equal(t, "Risk seeking", dto.BiasLabel)
	assert.Equal(t, "PREFER_RISKY", dto.Recommendation)
	assert.Equal(t, "$1,500", dto.Display.RiskyExpectedValue)
	assert.Equal(t, "0.70", dto.Display.SafeProbability)
	require.Len(t, dto.Points, 2)
	assert.Equal(t, "red", dto.Points[0].Color)
	assert.Equal(t, "green", dto.Points[1].Color)

	rec = doJSON(t, router, http.MethodGet, "/api/evaluations/"+dto.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched EvaluationDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, "lottery", fetched.Label)
	assert.Equal(t, dto.Recommendation, fetched.Recommendation)

	rec = doJSON(t, router, http.MethodDelete, "/api/evaluations/"+dto.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodGet, "/api/evaluations/"+dto.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEvaluateDryRunAndCertainSafe(t *testing.T) {
	_, router := newTestServer(t, nil)

	p := 0.8
	rec := doJSON(t, router, http.MethodPost, "/api/evaluate", EvaluateRequest{
		Scenario:        "loss",
		RiskProbability: &p,
		SafeValue:       1500,
		RiskyValue:      2000,
		ComparisonModel: "certain_safe",
		Locale:          "es",
		DryRun:          true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dto EvaluationDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Empty(t, dto.ID)
	assert.Equal(t, 1.0, dto.SafeProbability)
	assert.Equal(t, 1600.0, dto.RiskyExpectedValue)
	assert.Equal(t, 3, dto.Quadrant)
	assert.Equal(t, "PREFER_RISKY", dto.Recommendation)
	assert.Equal(t, "es", dto.Locale)
	assert.Equal(t, "$1,600", dto.Display.RiskyExpectedValue)

	rec = doJSON(t, router, http.MethodGet, "/api/evaluations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list EvaluationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, int64(0), list.Total)
}

func TestEvaluateWithTemplateNarrative(t *testing.T) {
	_, router := newTestServer(t, nil)

	p := 0.5
	rec := doJSON(t, router, http.MethodPost, "/api/evaluate", map[string]any{
		"scenario":         "gain",
		"risk_probability": p,
		"safe_value":       100,
		"risky_value":      100,
		"explain":          true,
		"dry_run":          true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var dto EvaluationDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, "EQUIVALENT", dto.Recommendation)
	assert.NotEmpty(t, dto.Narrative)
	assert.Equal(t, "template", dto.NarrativeSource)
}

func TestEvaluateRejectsInvalidInput(t *testing.T) {
	_, router := newTestServer(t, nil)

	p := 0.4
	bad := 1.2
	tests := []struct {
		name string
		body any
	}{
		{"empty body", nil},
		{"missing probability", map[string]any{"scenario": "gain", "safe_value": 1, "risky_value": 2}},
		{"probability above one", EvaluateRequest{Scenario: "gain", RiskProbability: &bad, SafeValue: 1, RiskyValue: 2}},
		{"unknown scenario", EvaluateRequest{Scenario: "draw", RiskProbability: &p}},
		{"unknown model", EvaluateRequest{Scenario: "gain", RiskProbability: &p, ComparisonModel: "z"}},
		{"negative value", EvaluateRequest{Scenario: "gain", RiskProbability: &p, SafeValue: -1, RiskyValue: 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/evaluate", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestBatchUploadFlow(t *testing.T) {
	_, router := newTestServer(t, nil)

	csvBody := strings.Join([]string{
		"label,scenario,risk_probability,safe_value,risky_value,comparison_model",
		"lottery,gain,0.3,1000,5000,",
		"insurance,loss,0.8,1500,2000,certain_safe",
		"broken,gain,abc,1,2,",
		"",
		"coin,gain,0.5,100,100,",
	}, "\n")

	rec := uploadCSV(t, router, map[string]string{"batch_name": "week 1", "owner_name": "ana"}, csvBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp BatchUploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Batch.RowCount)
	assert.Equal(t, 3, resp.Batch.EvaluatedRows)
	assert.Equal(t, 1, resp.Batch.InvalidRows)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, 3, resp.Errors[0].Row)
	assert.Equal(t, int64(1), resp.Quadrants["2"])
	assert.Equal(t, int64(1), resp.Quadrants["1"])
	assert.Equal(t, int64(1), resp.Quadrants["3"])
	assert.Equal(t, int64(0), resp.Quadrants["4"])
	assert.Equal(t, int64(1), resp.Recommendations["EQUIVALENT"])
	assert.Equal(t, int64(2), resp.Recommendations["PREFER_RISKY"])

	batchPath := "/api/batches/" + jsonNumber(resp.Batch.ID)
	rec = doJSON(t, router, http.MethodGet, batchPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, batchPath+"/results?sort=row_asc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var results EvaluationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Equal(t, int64(3), results.Total)
	assert.Equal(t, "lottery", results.Items[0].Label)
	assert.Equal(t, 1, results.Items[0].RowIndex)
	assert.Equal(t, 4, results.Items[2].RowIndex)

	rec = doJSON(t, router, http.MethodGet, "/api/batches", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var batches BatchesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batches))
	assert.Equal(t, int64(1), batches.Total)

	rec = doJSON(t, router, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(3), stats.Total)

	rec = doJSON(t, router, http.MethodGet, "/api/export.csv?batch_id="+jsonNumber(resp.Batch.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "id,batch_id,row_index,label"))
	assert.Contains(t, lines[1], "lottery")

	rec = doJSON(t, router, http.MethodGet, "/api/export.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var exported []EvaluationDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exported))
	assert.Len(t, exported, 3)
}

func TestBatchUploadValidation(t *testing.T) {
	_, router := newTestServer(t, nil)

	tests := []struct {
		name   string
		fields map[string]string
		csv    string
	}{
		{"missing name", map[string]string{"owner_name": "ana"}, "scenario,p,safe,risky\ngain,0.1,1,2\n"},
		{"missing owner", map[string]string{"batch_name": "x"}, "scenario,p,safe,risky\ngain,0.1,1,2\n"},
		{"missing file", map[string]string{"batch_name": "x", "owner_name": "ana"}, ""},
		{"missing columns", map[string]string{"batch_name": "x", "owner_name": "ana"}, "scenario,p\ngain,0.1\n"},
		{"header only", map[string]string{"batch_name": "x", "owner_name": "ana"}, "scenario,p,safe,risky\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := uploadCSV(t, router, tc.fields, tc.csv)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestListEvaluationsQueryValidation(t *testing.T) {
	_, router := newTestServer(t, nil)

	for _, path := range []string{
		"/api/evaluations?quadrant=7",
		"/api/evaluations?scenario=draw",
		"/api/evaluations?batch_id=zero",
		"/api/batches/0",
	} {
		rec := doJSON(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/batches/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimitedRouter(t *testing.T) {
	_, router := newTestServer(t, func(cfg *Config) {
		cfg.RateLimitRPS = 0.001
		cfg.RateLimitBurst = 1
	})

	rec := doJSON(t, router, http.MethodGet, "/api/config", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodGet, "/api/config", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewServerRejectsUnknownLocale(t *testing.T) {
	_, err := NewServer(Config{
		DBPath:        filepath.Join(t.TempDir(), "test.db"),
		SilentDB:      true,
		DisableAI:     true,
		DefaultLocale: "fr",
	})
	assert.Error(t, err)
}

func jsonNumber(id uint) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
