package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campsite/pkg/client"
	"campsite/pkg/config"
	httputil "campsite/pkg/http"
	"campsite/pkg/logger"
	"campsite/pkg/metrics"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

type staticTx struct{}

func (staticTx) NextTransactionID(context.Context) (string, error) { return "T7", nil }

type pingHandler struct{}

func (pingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/ping", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		_ = httputil.WriteSuccess(w, map[string]string{"tx": logger.TransactionIDFromContext(r.Context())})
	})
	router.POST("/api/v1/ping", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusNoContent)
	})
	router.GET("/api/v1/panic", func(http.ResponseWriter, *http.Request, httprouter.Params) {
		panic("handler bug")
	})
}

func newTestApplication(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Port:              "8080",
		MetricsPath:       config.DefaultMetricsPath,
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    time.Second,
		IdempotencyTTL:    time.Minute,
		MaxRequestSize:    1024,
		ReadTimeout:       time.Second,
		WriteTimeout:      time.Second,
		IdleTimeout:       time.Second,
		ShutdownTimeout:   time.Second,
		Log:               logger.New(logger.Config{Level: "error", Format: logger.JSON, Output: io.Discard, Service: "test"}),
		Client:            client.NewClient(),
	}

	a := NewApplication(cfg, metrics.New("test"), staticTx{})
	a.SetApp(pingHandler{})
	t.Cleanup(func() {
		a.idempotencyStore.Stop()
		a.rateLimiter.Stop()
	})
	return a.Handler()
}

func TestApplication_Routes(t *testing.T) {
	h := newTestApplication(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "T7", rec.Header().Get(httputil.HeaderTransactionID))
	assert.JSONEq(t, `{"data":{"tx":"T7"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, config.DefaultMetricsPath, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "campsite_http_requests_total")
}

func TestApplication_RejectsNonJSONBody(t *testing.T) {
	h := newTestApplication(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ping", strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Contains(t, rec.Body.String(), `"transactionId":"T7"`)
}

func TestApplication_PanicPayloadCarriesTransactionID(t *testing.T) {
	h := newTestApplication(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "T7", rec.Header().Get(httputil.HeaderTransactionID))
	assert.JSONEq(t, `{"transactionId":"T7","errors":[{"description":"Internal server error"}]}`, rec.Body.String())
}
