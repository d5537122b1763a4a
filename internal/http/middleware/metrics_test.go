package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RouteLabelsAndUnmatched(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/api/cards/:id", func(c *gin.Context) { c.String(http.StatusOK, "card") })
	r.POST("/api/assets/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	baseCard := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/api/cards/:id", "200"))
	baseMiss := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedRoute, "404"))
	baseUpload := testutil.ToFloat64(httpReqs.WithLabelValues("POST", "/api/assets/", "204"))

	get(r, "/api/cards/1")
	get(r, "/api/cards/2")
	get(r, "/wp-login.php")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/assets/", bytes.NewReader(make([]byte, 2048))))
	if w.Code != http.StatusNoContent {
		t.Fatalf("POST /api/assets/ -> %d", w.Code)
	}

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/api/cards/:id", "200")); got != baseCard+2 {
		t.Fatalf("card counter = %v; want %v", got, baseCard+2)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedRoute, "404")); got != baseMiss+1 {
		t.Fatalf("unmatched counter = %v; want %v", got, baseMiss+1)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("POST", "/api/assets/", "204")); got != baseUpload+1 {
		t.Fatalf("upload counter = %v; want %v", got, baseUpload+1)
	}
	if got := testutil.ToFloat64(httpInflight); got != 0 {
		t.Fatalf("inflight = %v; want 0", got)
	}
	if n := testutil.CollectAndCount(httpReqSize); n == 0 {
		t.Fatalf("request size histogram has no series")
	}
}
