package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// New registers against the process-global registry, so the whole test
// binary shares one instance.
var testMetrics = New()

func Test_New_InitializesCollectors(t *testing.T) {
	if testMetrics.HTTPRequestsTotal == nil || testMetrics.HTTPRequestDuration == nil {
		t.Fatal("HTTP collectors not initialized")
	}
	if testMetrics.SearchesTotal == nil || testMetrics.SearchLatency == nil {
		t.Fatal("search collectors not initialized")
	}
	if testMetrics.SnapshotFiles == nil || testMetrics.ContextFilesTotal == nil {
		t.Fatal("snapshot collectors not initialized")
	}
}

func Test_ObserveSnapshot_ExportsGauges(t *testing.T) {
	testMetrics.ObserveSnapshot(42, 2048, 0.25)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"repolens_snapshot_files 42",
		"repolens_snapshot_size_bytes 2048",
		"repolens_snapshot_builds_total 1",
		"repolens_snapshot_build_duration_seconds_count 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}
