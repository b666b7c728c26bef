package middleware

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMetrics_RoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Metrics)
	router.Use(Logging(zaptest.NewLogger(t)))
	router.Get("/api/orders/{number}/payment", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/orders/{number}/payment", "302"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/1001/payment", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/orders/{number}/payment", "302"))
	assert.Equal(t, before+1, after)
}

func TestRecordPaymentCallback(t *testing.T) {
	before := testutil.ToFloat64(paymentCallbacksTotal.WithLabelValues("success"))
	RecordPaymentCallback("success")
	assert.Equal(t, before+1, testutil.ToFloat64(paymentCallbacksTotal.WithLabelValues("success")))
}
