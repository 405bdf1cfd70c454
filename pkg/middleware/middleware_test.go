package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/review-sdk/pkg/composables"
)

func TestRateLimit_RejectsOverBudget(t *testing.T) {
	r := mux.NewRouter()
	r.Use(RateLimit(RateLimitConfig{RequestsPerPeriod: 2, Store: NewMemoryStore()}))
	r.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_DisabledWithoutBudget(t *testing.T) {
	handler := RateLimit(RateLimitConfig{})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestWithLogger_RecoversPanicAsJSON(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := mux.NewRouter()
	r.Use(WithLogger(logger, DefaultLoggerOptions()))
	r.HandleFunc("/review/api/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/review/api/boom", nil)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body["code"])
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-Id"))

	var panics int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			panics++
		}
	}
	assert.Equal(t, 1, panics)
}

func TestWithLogger_ProvidesRequestLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	handler := WithLogger(logger, DefaultLoggerOptions())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry, err := composables.UseLogger(r.Context())
		require.NoError(t, err)
		entry.Info("inside handler")
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "request completed", last.Message)
	assert.Equal(t, http.StatusAccepted, last.Data["status-code"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
