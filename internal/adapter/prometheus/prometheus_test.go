package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	metrics := NewPrometheusAdapter("auth_test", reg).(*PrometheusAdapter)

	router := gin.New()
	router.GET("/api/things/:id", func(c *gin.Context) {
		defer metrics.RecordMetrics(c, time.Now())
		c.Status(http.StatusTeapot)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/things/1", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/things/2", nil))

	got := testutil.ToFloat64(metrics.httpRequestsTotal.WithLabelValues("/api/things/:id", "GET", "418", "auth_test"))
	assert.Equal(t, float64(2), got)
}

func TestRecordAuthOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPrometheusAdapter("auth_test", reg).(*PrometheusAdapter)

	metrics.RecordAuthOutcome("signin", "unauthenticated")
	metrics.RecordAuthOutcome("signin", "unauthenticated")
	metrics.RecordAuthOutcome("signin", "success")

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.authOutcomesTotal.WithLabelValues("signin", "unauthenticated", "auth_test")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.authOutcomesTotal.WithLabelValues("signin", "success", "auth_test")))
}
