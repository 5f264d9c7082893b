package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveBackend(t *testing.T) {
	before := testutil.CollectAndCount(BackendRequestDuration)
	ObserveBackend("/metrics-test", "200", 20*time.Millisecond)
	if after := testutil.CollectAndCount(BackendRequestDuration); after != before+1 {
		t.Fatalf("expected a new series, got %d -> %d", before, after)
	}
}

func TestSetAuthenticated(t *testing.T) {
	SetAuthenticated(true)
	if v := testutil.ToFloat64(SessionAuthenticated); v != 1 {
		t.Fatalf("expected 1, got %v", v)
	}
	SetAuthenticated(false)
	if v := testutil.ToFloat64(SessionAuthenticated); v != 0 {
		t.Fatalf("expected 0, got %v", v)
	}
}
