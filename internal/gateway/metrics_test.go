package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_CountsGateOutcomes(t *testing.T) {
	metrics := NewCollector()
	g := New(NewTokenVerifier(testSecret), metrics, "http://localhost:3000")

	gatedRequest(t, g, "/products")
	gatedRequest(t, g, "/orders")
	gatedRequest(t, g, "/api/payments/history")
	gatedRequest(t, g, "/auth/login", authCookies(t, false)...)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.allowed))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.redirected.WithLabelValues("login")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.redirected.WithLabelValues("home")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.denied.WithLabelValues("unauthenticated")))
}

func TestCollector_HandlerServesMetrics(t *testing.T) {
	metrics := NewCollector()
	metrics.RecordAllowed()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "storefront_gateway_allowed_total 1")
}
