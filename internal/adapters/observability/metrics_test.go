package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"homescape/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record one sample so counters are non-zero
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveNotification("error")
	observability.ObserveFilter(3)

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	if !strings.Contains(out, "homescape_http_requests_total") {
		t.Fatalf("expected homescape_http_requests_total in output")
	}
	if !strings.Contains(out, `homescape_notifications_total{level="error"}`) {
		t.Fatalf("expected notification counter in output")
	}
	if !strings.Contains(out, "homescape_filter_result_size_count") {
		t.Fatalf("expected filter histogram in output")
	}
}
