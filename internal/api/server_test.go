package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guisoares9/tradespace-designer/internal/catalog"
	"github.com/guisoares9/tradespace-designer/internal/observability"
	"github.com/guisoares9/tradespace-designer/internal/storage"
	"github.com/guisoares9/tradespace-designer/internal/tradespace"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	metrics, err := observability.NewSweepMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	store := storage.New(t.TempDir())
	require.NoError(t, store.Init())
	s := NewServer(Options{Store: store, Metrics: metrics})
	return s, s.Router()
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func sweepBody() SweepRequest {
	return SweepRequest{
		Name: "api",
		Request: tradespace.Request{
			Catalog: catalog.Catalog{
				Propellers: []catalog.Propeller{{Name: "10x4.5", Diameter: 10, Pitch: 4.5, Blades: 2}},
				Motors:     []catalog.Motor{{Name: "890KV", KV: 890, NoLoadVoltage: 10, NoLoadCurrent: 0.5, Resistance: 0.101}},
				Batteries: []catalog.Battery{
					{Name: "3S", Voltage: 12, Capacity: 5000, MinCapacityFraction: 0.2, Resistance: 0.01},
					{Name: "4S", Voltage: 14.8, Capacity: 4000, MinCapacityFraction: 0.2, Resistance: 0.012},
				},
			},
			Grid: tradespace.Grid{
				MotorCounts:    []int{4},
				Throttles:      []float64{0.6, 0.8},
				BaseMasses:     []float64{1.5},
				ControlCurrent: 1,
			},
		},
	}
}

func TestHealth(t *testing.T) {
	_, router := newTestServer(t)
	w := do(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestPresets(t *testing.T) {
	_, router := newTestServer(t)

	w := do(t, router, http.MethodGet, "/api/v1/presets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[PresetResponse](t, w)
	assert.Len(t, resp.Presets, 5)

	w = do(t, router, http.MethodGet, "/api/v1/presets/inspire", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kv":350`)

	w = do(t, router, http.MethodGet, "/api/v1/presets/blimp", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PRESET_NOT_FOUND", decode[ErrorResponse](t, w).Error.Code)
}

func TestSolvePreset(t *testing.T) {
	_, router := newTestServer(t)
	w := do(t, router, http.MethodPost, "/api/v1/solve", VehicleRequest{Preset: "paper"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[SolveResponse](t, w)
	assert.Equal(t, "paper", resp.Vehicle)
	assert.True(t, resp.Result.Converged)
	assert.Greater(t, resp.Result.RotorSpeed, 0.0)
	assert.True(t, resp.Result.Hoverable)
	assert.InDelta(t, 0.553, resp.Result.HoverThrottle, 0.01)
	assert.True(t, resp.Verdict.Accepted)
}

func TestSolveThrottleOverride(t *testing.T) {
	_, router := newTestServer(t)
	low, high := 0.5, 1.0
	wl := do(t, router, http.MethodPost, "/api/v1/solve", VehicleRequest{Preset: "paper", Throttle: &low})
	wh := do(t, router, http.MethodPost, "/api/v1/solve", VehicleRequest{Preset: "paper", Throttle: &high})
	require.Equal(t, http.StatusOK, wl.Code)
	require.Equal(t, http.StatusOK, wh.Code)
	assert.Less(t, decode[SolveResponse](t, wl).Result.TotalThrust, decode[SolveResponse](t, wh).Result.TotalThrust)
}

func TestSolveErrors(t *testing.T) {
	_, router := newTestServer(t)
	tooHigh := 1.5

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"malformed", "{", http.StatusBadRequest, "INVALID_REQUEST"},
		{"empty", VehicleRequest{}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown preset", VehicleRequest{Preset: "blimp"}, http.StatusNotFound, "PRESET_NOT_FOUND"},
		{"bad throttle", VehicleRequest{Preset: "paper", Throttle: &tooHigh}, http.StatusUnprocessableEntity, "INVALID_CONFIGURATION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/api/v1/solve", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode[ErrorResponse](t, w).Error.Code)
		})
	}
}

func TestEnvelope(t *testing.T) {
	_, router := newTestServer(t)
	w := do(t, router, http.MethodPost, "/api/v1/envelope", VehicleRequest{Preset: "paper"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[EnvelopeResponse](t, w)
	assert.True(t, resp.Envelope.Hoverable)
	assert.Equal(t, 0.8, resp.Envelope.SafeDuty)
	assert.Greater(t, resp.Envelope.MaxPayload, 0.0)
	assert.Greater(t, resp.Envelope.MaxThrust.TotalThrust, resp.Envelope.SafeThrust.TotalThrust)
}

func TestSweepAndRuns(t *testing.T) {
	_, router := newTestServer(t)

	w := do(t, router, http.MethodPost, "/api/v1/sweep", sweepBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[SweepResponse](t, w)
	require.NotEmpty(t, resp.RunID)
	assert.Equal(t, 4, resp.Result.Evaluated)
	assert.NotEmpty(t, resp.Result.Front)

	w = do(t, router, http.MethodGet, "/api/v1/runs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), resp.RunID)

	w = do(t, router, http.MethodGet, "/api/v1/runs/"+resp.RunID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	run := decode[RunResponse](t, w)
	assert.Equal(t, "api", run.Run.Name)
	assert.Len(t, run.Result.Candidates, 4)

	w = do(t, router, http.MethodGet, "/api/v1/runs/"+resp.RunID+"/front", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/api/v1/runs/"+resp.RunID+"/candidates.csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "index,status"))
}

func TestSweepDryRunFrontView(t *testing.T) {
	_, router := newTestServer(t)
	body := sweepBody()
	body.DryRun = true

	w := do(t, router, http.MethodPost, "/api/v1/sweep?view=front", body)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[SweepResponse](t, w)
	assert.Empty(t, resp.RunID)
	assert.Empty(t, resp.Result.Candidates)
	assert.NotEmpty(t, resp.Result.Front)
}

func TestSweepInvalid(t *testing.T) {
	_, router := newTestServer(t)
	body := sweepBody()
	body.Catalog.Motors[0].KV = -1

	w := do(t, router, http.MethodPost, "/api/v1/sweep", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_SWEEP", decode[ErrorResponse](t, w).Error.Code)
}

func TestRunNotFound(t *testing.T) {
	_, router := newTestServer(t)
	for _, path := range []string{
		"/api/v1/runs/6f1c2a9e-3b7d-4c55-8e2a-1d9b0f7c4e21",
		"/api/v1/runs/not-a-run",
	} {
		w := do(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestRunsWithoutStore(t *testing.T) {
	router := NewServer(Options{}).Router()
	w := do(t, router, http.MethodGet, "/api/v1/runs", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	w = do(t, router, http.MethodPost, "/api/v1/sweep", sweepBody())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[SweepResponse](t, w).RunID)
}

func TestCORSPreflight(t *testing.T) {
	_, router := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/solve", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	_, router := newTestServer(t)
	do(t, router, http.MethodPost, "/api/v1/sweep", sweepBody())

	w := do(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tradespace_candidates_total")
}

func TestPanicRecovery(t *testing.T) {
	s, _ := newTestServer(t)
	router := gin.New()
	router.Use(ErrorHandler(s.log))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := do(t, router, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.Equal(t, "boom", resp.Error.Message)
}
