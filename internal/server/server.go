// Package server implements the HTTP server for the cleaning
// cost-benefit API and its interactive web form.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/frostworks/blastcost/pkg/cba"
	"golang.org/x/time/rate"
)

const (
	// DefaultRateLimit is the default requests per second limit.
	DefaultRateLimit = 100
	// DefaultRateBurst is the default burst size for rate limiting.
	DefaultRateBurst = 100
	// errorKey is the logging key for error messages.
	errorKey = "error"
	// maxRequestSize caps JSON request bodies.
	maxRequestSize = 1 << 20 // 1MB
)

//go:embed static/*
var staticFS embed.FS

// Server handles HTTP requests for the cost-benefit API.
type Server struct {
	logger         *slog.Logger
	csrfProtection *http.CrossOriginProtection
	// Per-IP rate limiting.
	ipLimiters     map[string]*rate.Limiter
	allowedOrigins []string
	ipLimitersMu   sync.RWMutex
	serverCommit   string
	rateLimit      int
	rateBurst      int
	allowAllCors   bool
}

// CalculateRequest represents a request to run a cost-benefit
// calculation. Params defaults to the reference deployment's values when
// omitted; Options defaults likewise.
type CalculateRequest struct {
	Params  *cba.Params  `json:"params,omitempty"`
	Options *cba.Options `json:"options,omitempty"`
}

// CalculateResponse represents the response from a calculation. Grade
// and Verdict summarize the investment quality for display.
type CalculateResponse struct {
	Timestamp time.Time     `json:"timestamp"`
	Commit    string        `json:"commit"`
	Grade     string        `json:"grade"`
	Verdict   string        `json:"verdict"`
	Breakdown cba.Breakdown `json:"breakdown"`
}

// New creates a new Server instance.
func New() *Server {
	ctx := context.Background()
	logger := slog.Default().With("component", "blastcost-server")

	// Configure CSRF protection using Sec-Fetch-Site and Origin headers.
	// GET, HEAD, and OPTIONS are safe methods and automatically allowed.
	csrfProtection := http.NewCrossOriginProtection()

	logger.InfoContext(ctx, "Server initialized with CSRF protection enabled")

	return &Server{
		logger:         logger,
		csrfProtection: csrfProtection,
		ipLimiters:     make(map[string]*rate.Limiter),
		rateLimit:      DefaultRateLimit,
		rateBurst:      DefaultRateBurst,
	}
}

// SetCommit sets the server commit hash.
func (s *Server) SetCommit(commit string) {
	s.serverCommit = commit
}

// SetCORSConfig sets the CORS configuration.
func (s *Server) SetCORSConfig(origins string, allowAll bool) {
	ctx := context.Background()
	if allowAll {
		s.allowAllCors = true
		s.logger.WarnContext(ctx, "CORS configured to allow all origins - DEVELOPMENT MODE ONLY")
		return
	}

	s.allowAllCors = false
	if origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				s.allowedOrigins = append(s.allowedOrigins, origin)
			}
		}
		s.logger.InfoContext(ctx, "CORS origins configured", "origins", s.allowedOrigins)
	}
}

// SetRateLimit sets the rate limiting configuration.
func (s *Server) SetRateLimit(rps int, burst int) {
	ctx := context.Background()
	s.rateLimit = rps
	s.rateBurst = burst
	s.logger.InfoContext(ctx, "Rate limit configured (per-IP)", "requests_per_sec", rps, "burst", burst)
}

// limiter returns a rate limiter for the given IP address.
func (s *Server) limiter(ctx context.Context, ip string) *rate.Limiter {
	s.ipLimitersMu.RLock()
	limiter, exists := s.ipLimiters[ip]
	s.ipLimitersMu.RUnlock()

	if exists {
		return limiter
	}

	s.ipLimitersMu.Lock()
	defer s.ipLimitersMu.Unlock()

	// Double-check after acquiring write lock.
	if existingLimiter, exists := s.ipLimiters[ip]; exists {
		return existingLimiter
	}

	limiter = rate.NewLimiter(rate.Limit(s.rateLimit), s.rateBurst)
	s.ipLimiters[ip] = limiter

	// Cleanup old limiters if map grows too large (prevent memory leak).
	const maxLimiters = 10000
	if len(s.ipLimiters) > maxLimiters {
		count := 0
		target := len(s.ipLimiters) / 2
		for ip := range s.ipLimiters {
			delete(s.ipLimiters, ip)
			count++
			if count >= target {
				break
			}
		}
		s.logger.InfoContext(ctx, "Cleaned up old IP rate limiters", "removed", count, "remaining", len(s.ipLimiters))
	}

	return limiter
}

// clientIP extracts the client IP for rate limiting and logging.
// X-Forwarded-For is trusted because the hosting platform sanitizes it;
// for other deployments RemoteAddr is used directly.
func clientIP(r *http.Request) string {
	ip := r.RemoteAddr
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			ip = strings.TrimSpace(xff[:idx])
		} else {
			ip = strings.TrimSpace(xff)
		}
	} else if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return ip
}

// ServeHTTP implements http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Apply CSRF protection FIRST - blocks cross-origin POST requests.
	if s.csrfProtection != nil {
		if err := s.csrfProtection.Check(r); err != nil {
			s.logger.WarnContext(r.Context(), "CSRF check failed - cross-origin request denied",
				"origin", r.Header.Get("Origin"),
				"path", r.URL.Path,
				"method", r.Method,
				"remote_addr", r.RemoteAddr,
				"error", err)
			http.Error(w, "Cross-origin request denied", http.StatusForbidden)
			return
		}
	}

	// Security headers - defense in depth.
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "no-referrer")

	// Handle CORS.
	origin := r.Header.Get("Origin")
	if s.allowAllCors {
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
	} else if origin != "" && s.isOriginAllowed(origin) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Vary", "Origin")
	}
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	// Handle preflight OPTIONS request.
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// Route requests.
	switch {
	case r.URL.Path == "/v1/calculate":
		if r.Method != http.MethodPost && r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleCalculate(w, r)
	case r.URL.Path == "/v1/defaults":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleDefaults(w, r)
	case r.URL.Path == "/health":
		s.handleHealth(w, r)
	case strings.HasPrefix(r.URL.Path, "/static/"):
		s.handleStatic(w, r)
	case r.URL.Path == "/":
		s.handleWebUI(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleCalculate processes cost-benefit calculation requests.
func (s *Server) handleCalculate(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	ip := clientIP(request)

	s.logger.InfoContext(ctx, "[handleCalculate] Incoming request", "client_ip", ip, "method", request.Method)

	// Per-IP rate limiting.
	limiter := s.limiter(ctx, ip)
	if !limiter.Allow() {
		s.logger.WarnContext(ctx, "[handleCalculate] Rate limit exceeded", "client_ip", ip)
		http.Error(writer, "Rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	// Parse request.
	req, err := s.parseRequest(ctx, request)
	if err != nil {
		s.logger.ErrorContext(ctx, "[handleCalculate] Failed to parse request", "remote_addr", request.RemoteAddr, errorKey, err)
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	// Missing params/options fall back to the defaults, the same values
	// the web form starts from.
	params := cba.DefaultParams()
	if req.Params != nil {
		params = *req.Params
	}
	opts := cba.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	breakdown, err := cba.Calculate(params, opts)
	if err != nil {
		var domainErr *cba.DomainError
		if errors.As(err, &domainErr) {
			s.logger.WarnContext(ctx, "[handleCalculate] Input rejected",
				"field", domainErr.Field, "value", domainErr.Value, "range", domainErr.Range)
			http.Error(writer, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		s.logger.ErrorContext(ctx, "[handleCalculate] Error processing request", errorKey, err)
		http.Error(writer, "Internal server error", http.StatusInternalServerError)
		return
	}

	grade, verdict := cba.InvestmentGrade(breakdown.ROIPercent)
	response := &CalculateResponse{
		Breakdown: breakdown,
		Timestamp: time.Now(),
		Commit:    s.serverCommit,
		Grade:     grade,
		Verdict:   verdict,
	}

	// Send response.
	writer.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(writer).Encode(response); err != nil {
		s.logger.ErrorContext(ctx, "[handleCalculate] Error encoding response", errorKey, err)
		return
	}

	s.logger.InfoContext(ctx, "[handleCalculate] Request completed",
		"operational_savings", breakdown.OperationalSavings,
		"net_benefit_year1", breakdown.NetBenefitYear1)
}

// parseRequest parses the incoming request into a CalculateRequest.
func (s *Server) parseRequest(ctx context.Context, r *http.Request) (*CalculateRequest, error) {
	var req CalculateRequest

	if r.Method == http.MethodGet {
		params, opts, err := parseQuery(r.URL.Query())
		if err != nil {
			return nil, err
		}
		req.Params = params
		req.Options = opts
		return &req, nil
	}

	// POST requests carry a JSON body. Cap the size to prevent memory
	// exhaustion.
	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestSize)

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.ErrorContext(ctx, "[parseRequest] Failed to decode JSON", errorKey, err)
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	return &req, nil
}

// parseQuery builds Params and Options from GET query parameters,
// starting from the defaults and overriding any field that is present.
// Unknown keys are ignored; malformed values are an error.
func parseQuery(query url.Values) (*cba.Params, *cba.Options, error) {
	params := cba.DefaultParams()
	opts := cba.DefaultOptions()

	intFields := map[string]*int{
		"sessions_per_day":   &params.SessionsPerDay,
		"manual_staff_count": &params.ManualStaffCount,
		"lifespan_years":     &params.LifespanYears,
	}
	floatFields := map[string]*float64{
		"manual_hours_per_session":        &params.ManualHoursPerSession,
		"staff_hourly_cost":               &params.StaffHourlyCost,
		"revenue_per_production_hour":     &params.RevenuePerProductionHour,
		"chemical_cost_per_session":       &params.ChemicalCostPerSession,
		"water_cost_per_session":          &params.WaterCostPerSession,
		"waste_disposal_cost_per_session": &params.WasteDisposalCostPerSession,
		"blaster_purchase_cost":           &params.BlasterPurchaseCost,
		"consumable_cost_per_unit":        &params.ConsumableCostPerUnit,
		"consumable_units_per_hour":       &params.ConsumableUnitsPerHour,
		"annual_maintenance_cost":         &params.AnnualMaintenanceCost,
		"power_draw_kw":                   &params.PowerDrawKW,
		"electricity_cost_per_kwh":        &params.ElectricityCostPerKWH,
		"time_reduction_percent":          &params.TimeReductionPercent,
	}

	for key, dst := range intFields {
		if raw := query.Get(key); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid integer for %s: %q", key, raw)
			}
			*dst = v
		}
	}
	for key, dst := range floatFields {
		if raw := query.Get(key); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid number for %s: %q", key, raw)
			}
			*dst = v
		}
	}

	if raw := query.Get("roi_policy"); raw != "" {
		opts.ROIPolicy = cba.ROIPolicy(raw)
	}
	if raw := query.Get("consumable"); raw != "" {
		opts.Consumable = cba.ConsumableKind(raw)
	}
	if raw := query.Get("currency"); raw != "" {
		opts.Currency = raw
	}
	if raw := query.Get("include_power_cost"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid boolean for include_power_cost: %q", raw)
		}
		opts.IncludePowerCost = v
	}

	return &params, &opts, nil
}

// handleDefaults returns the reference deployment's default parameters
// and options, used by the web form to populate itself.
func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	defaults := cba.DefaultParams()
	options := cba.DefaultOptions()
	resp := CalculateRequest{Params: &defaults, Options: &options}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.ErrorContext(ctx, "[handleDefaults] Error encoding response", errorKey, err)
	}
}

// isOriginAllowed checks if an origin is in the allowed list.
func (s *Server) isOriginAllowed(origin string) bool {
	for _, allowed := range s.allowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}

// handleHealth provides a simple health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "healthy"}); err != nil {
		s.logger.ErrorContext(ctx, "[handleHealth] Error encoding response", errorKey, err)
	}
}

// handleWebUI serves the embedded web form.
func (s *Server) handleWebUI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	htmlContent, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		s.logger.ErrorContext(ctx, "[handleWebUI] Failed to read index.html", errorKey, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(htmlContent); err != nil {
		s.logger.ErrorContext(ctx, "[handleWebUI] Error writing response", errorKey, err)
	}
}

// handleStatic serves embedded static files.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Strip leading slash to match embed.FS structure
	path := strings.TrimPrefix(r.URL.Path, "/")

	content, err := staticFS.ReadFile(path)
	if err != nil {
		s.logger.WarnContext(ctx, "[handleStatic] File not found", "path", path, errorKey, err)
		http.NotFound(w, r)
		return
	}

	var contentType string
	switch {
	case strings.HasSuffix(path, ".css"):
		contentType = "text/css; charset=utf-8"
	case strings.HasSuffix(path, ".js"):
		contentType = "application/javascript; charset=utf-8"
	case strings.HasSuffix(path, ".png"):
		contentType = "image/png"
	case strings.HasSuffix(path, ".ico"):
		contentType = "image/x-icon"
	default:
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		s.logger.ErrorContext(ctx, "[handleStatic] Error writing response", errorKey, err)
	}
}
