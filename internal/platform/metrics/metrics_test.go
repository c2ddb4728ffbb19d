package metrics

import (
	"testing"
	"time"
)

func TestCollectorCountsByClass(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(404, 5*time.Millisecond)
	c.Record(429, 1*time.Millisecond)
	c.Record(500, 20*time.Millisecond)

	snap := c.Snapshot()
	if snap["requestsTotal"].(uint64) != 4 {
		t.Fatalf("expected 4 requests, got %v", snap["requestsTotal"])
	}
	if snap["clientErrorsTotal"].(uint64) != 2 {
		t.Fatalf("expected 2 client errors, got %v", snap["clientErrorsTotal"])
	}
	if snap["serverErrorsTotal"].(uint64) != 1 {
		t.Fatalf("expected 1 server error, got %v", snap["serverErrorsTotal"])
	}
	if snap["rateLimitedTotal"].(uint64) != 1 {
		t.Fatalf("expected 1 rate limited, got %v", snap["rateLimitedTotal"])
	}
	if snap["totalDurationMs"].(uint64) != 36 {
		t.Fatalf("expected 36ms total, got %v", snap["totalDurationMs"])
	}
}
