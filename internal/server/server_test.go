package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

const validPayload = `{
	"experiment": {
		"control": {"conversionRatePct": 2.5, "visitors": 10000, "avgOrderValue": 120, "valueStdDev": 20},
		"variant": {"conversionRatePct": 2.8, "visitors": 10000, "avgOrderValue": 125, "valueStdDev": 22}
	},
	"forecast": {"dailyTraffic": 5000, "horizonDays": 90, "decayPct": 10}
}`

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	return NewHandler(zap.NewNop(), 0, "test")
}

func postEvaluate(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleEvaluate(t *testing.T) {
	handler := newTestHandler(t)
	rec := postEvaluate(t, handler, validPayload)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Result struct {
			RateResult struct {
				Absolute float64 `json:"absolute"`
				PValue   float64 `json:"pValue"`
			} `json:"rateResult"`
			ValueResult *struct {
				PValue float64 `json:"pValue"`
			} `json:"valueResult"`
			Series         []map[string]interface{} `json:"series"`
			Recommendation string                   `json:"recommendation"`
		} `json:"result"`
		Duration string `json:"duration"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Result.RateResult.PValue < 0.05 {
		t.Errorf("Expected non-significant rate p-value, got %v", resp.Result.RateResult.PValue)
	}
	if resp.Result.ValueResult == nil {
		t.Errorf("Expected value result in response")
	}
	if len(resp.Result.Series) != 90 {
		t.Errorf("Expected 90-day series, got %d", len(resp.Result.Series))
	}
	if resp.Result.Recommendation != "CAUTION" {
		t.Errorf("Expected CAUTION recommendation, got %q", resp.Result.Recommendation)
	}
	if resp.Duration == "" {
		t.Errorf("Expected duration in response")
	}
}

func TestHandleEvaluateAppliesDefaults(t *testing.T) {
	handler := newTestHandler(t)
	// Visitors, traffic, and horizon omitted: defaults fill them in.
	rec := postEvaluate(t, handler, `{
		"experiment": {
			"control": {"conversionRatePct": 2.5},
			"variant": {"conversionRatePct": 2.8}
		},
		"forecast": {}
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleEvaluateRejectsBadJSON(t *testing.T) {
	handler := newTestHandler(t)
	rec := postEvaluate(t, handler, `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestHandleEvaluateRejectsInvalidInput(t *testing.T) {
	handler := newTestHandler(t)
	rec := postEvaluate(t, handler, `{
		"experiment": {
			"control": {"conversionRatePct": 250, "visitors": 10000},
			"variant": {"conversionRatePct": 2.8, "visitors": 10000}
		},
		"forecast": {"dailyTraffic": 5000, "horizonDays": 90}
	}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for out-of-range rate, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if !strings.Contains(resp["error"], "invalid input") {
		t.Errorf("Expected invalid input error, got %q", resp["error"])
	}
}

func TestHandleEvaluateRejectsOversizedRequest(t *testing.T) {
	handler := NewHandler(zap.NewNop(), 64, "test")
	rec := postEvaluate(t, handler, validPayload)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status 413 for oversized request, got %d", rec.Code)
	}
}

func TestHandleEvaluateMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/evaluate", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rec.Code)
	}
}

func TestLastResultRetention(t *testing.T) {
	handler := newTestHandler(t)

	// Nothing retained before the first run.
	req := httptest.NewRequest(http.MethodGet, "/api/result", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 before first evaluation, got %d", rec.Code)
	}

	if rec := postEvaluate(t, handler, validPayload); rec.Code != http.StatusOK {
		t.Fatalf("Evaluation failed with status %d", rec.Code)
	}

	// The last result is re-served for display.
	req = httptest.NewRequest(http.MethodGet, "/api/result", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200 after evaluation, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "recommendation") {
		t.Errorf("Expected retained result to include recommendation")
	}

	// Reset clears it again.
	req = httptest.NewRequest(http.MethodPost, "/api/reset", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200 from reset, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/result", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after reset, got %d", rec.Code)
	}
}

func TestHandleVersion(t *testing.T) {
	handler := NewHandler(zap.NewNop(), 0, "1.2.3")
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode version response: %v", err)
	}
	if resp["version"] != "1.2.3" {
		t.Errorf("Expected version 1.2.3, got %q", resp["version"])
	}
}

func TestStaticIndexServed(t *testing.T) {
	handler := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for index page, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "A/B Test Revenue Projection") {
		t.Errorf("Expected index page content")
	}
}
