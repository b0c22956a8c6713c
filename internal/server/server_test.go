package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/frostworks/blastcost/pkg/cba"
)

func TestNew(t *testing.T) {
	s := New()
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.logger == nil {
		t.Error("Server logger not initialized")
	}
	if s.ipLimiters == nil {
		t.Error("Server ipLimiters not initialized")
	}
	if s.rateLimit != DefaultRateLimit {
		t.Errorf("rateLimit = %d, want %d", s.rateLimit, DefaultRateLimit)
	}
}

func TestSetCommit(t *testing.T) {
	s := New()
	commit := "abc123def"
	s.SetCommit(commit)
	if s.serverCommit != commit {
		t.Errorf("SetCommit() failed: got %s, want %s", s.serverCommit, commit)
	}
}

func TestSetCORSConfig(t *testing.T) {
	tests := []struct {
		name         string
		origins      string
		allowAll     bool
		wantAllowAll bool
		wantOrigins  int
	}{
		{
			name:         "allow all",
			origins:      "",
			allowAll:     true,
			wantAllowAll: true,
			wantOrigins:  0,
		},
		{
			name:         "specific origins",
			origins:      "https://example.com,https://test.com",
			allowAll:     false,
			wantAllowAll: false,
			wantOrigins:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.SetCORSConfig(tt.origins, tt.allowAll)
			if s.allowAllCors != tt.wantAllowAll {
				t.Errorf("allowAllCors = %v, want %v", s.allowAllCors, tt.wantAllowAll)
			}
			if len(s.allowedOrigins) != tt.wantOrigins {
				t.Errorf("len(allowedOrigins) = %d, want %d", len(s.allowedOrigins), tt.wantOrigins)
			}
		})
	}
}

func TestSetRateLimit(t *testing.T) {
	s := New()
	s.SetRateLimit(50, 75)
	if s.rateLimit != 50 {
		t.Errorf("rateLimit = %d, want 50", s.rateLimit)
	}
	if s.rateBurst != 75 {
		t.Errorf("rateBurst = %d, want 75", s.rateBurst)
	}
}

func TestHandleHealth(t *testing.T) {
	s := New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", body["status"])
	}
}

func TestHandleCalculatePostDefaults(t *testing.T) {
	s := New()
	s.SetCommit("test-commit")

	req := httptest.NewRequest(http.MethodPost, "/v1/calculate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp CalculateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Commit != "test-commit" {
		t.Errorf("Commit = %q, want test-commit", resp.Commit)
	}
	if resp.Breakdown.AnnualSessions != 365 {
		t.Errorf("AnnualSessions = %d, want 365 for default params", resp.Breakdown.AnnualSessions)
	}
	if resp.Grade == "" {
		t.Error("Grade is empty")
	}
}

func TestHandleCalculatePostCustomParams(t *testing.T) {
	s := New()

	params := cba.DefaultParams()
	params.SessionsPerDay = 2
	body, err := json.Marshal(CalculateRequest{Params: &params})
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/calculate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp CalculateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Breakdown.AnnualSessions != 730 {
		t.Errorf("AnnualSessions = %d, want 730 for 2 sessions/day", resp.Breakdown.AnnualSessions)
	}
}

func TestHandleCalculateGetQueryParams(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodGet,
		"/v1/calculate?sessions_per_day=2&time_reduction_percent=50&roi_policy=single_year", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp CalculateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Breakdown.AnnualSessions != 730 {
		t.Errorf("AnnualSessions = %d, want 730", resp.Breakdown.AnnualSessions)
	}
	if resp.Breakdown.ROIPolicy != cba.ROISingleYear {
		t.Errorf("ROIPolicy = %s, want single_year", resp.Breakdown.ROIPolicy)
	}
	if resp.Breakdown.BlastingHoursPerSession != 1.5 {
		t.Errorf("BlastingHoursPerSession = %.2f, want 1.5 for 50%% reduction",
			resp.Breakdown.BlastingHoursPerSession)
	}
}

func TestHandleCalculateRejectsInvalidInput(t *testing.T) {
	s := New()

	params := cba.DefaultParams()
	params.TimeReductionPercent = 100
	body, err := json.Marshal(CalculateRequest{Params: &params})
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/calculate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	if !strings.Contains(rec.Body.String(), "time_reduction_percent") {
		t.Errorf("Error body %q does not name the offending field", rec.Body.String())
	}
}

func TestHandleCalculateRejectsMalformedJSON(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodPost, "/v1/calculate", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleCalculateRejectsMalformedQuery(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodGet, "/v1/calculate?sessions_per_day=abc", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleCalculateMethodNotAllowed(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodDelete, "/v1/calculate", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleDefaults(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodGet, "/v1/defaults", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp CalculateRequest
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Params == nil || resp.Options == nil {
		t.Fatal("Defaults response missing params or options")
	}
	if resp.Params.BlasterPurchaseCost != 15000 {
		t.Errorf("Default purchase cost = %.2f, want 15000", resp.Params.BlasterPurchaseCost)
	}
	if resp.Options.Currency != "FJD" {
		t.Errorf("Default currency = %s, want FJD", resp.Options.Currency)
	}
}

func TestRateLimiting(t *testing.T) {
	s := New()
	s.SetRateLimit(1, 1)

	req := httptest.NewRequest(http.MethodGet, "/v1/calculate", nil)
	req.RemoteAddr = "203.0.113.7:1234"

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("First request status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("Second request status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
}

func TestHandleWebUI(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(rec.Body.String(), "Cost-Benefit") {
		t.Error("Web UI body does not contain the calculator form")
	}
}

func TestNotFound(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodGet, "/no/such/path", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestParseQueryIgnoresUnknownKeys(t *testing.T) {
	values := url.Values{}
	values.Set("sessions_per_day", "3")
	values.Set("bogus_key", "42")

	params, _, err := parseQuery(values)
	if err != nil {
		t.Fatalf("parseQuery() returned error: %v", err)
	}
	if params.SessionsPerDay != 3 {
		t.Errorf("SessionsPerDay = %d, want 3", params.SessionsPerDay)
	}
}
