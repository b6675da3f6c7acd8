package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type noHeap struct{}

func (noHeap) HeapInUse() (uint64, bool) { return 0, false }

type fixedHeap uint64

func (f fixedHeap) HeapInUse() (uint64, bool) { return uint64(f), true }

type fixedLatency struct {
	d   time.Duration
	ok  bool
	err error
}

func (f fixedLatency) LastLatency(context.Context) (time.Duration, bool, error) {
	return f.d, f.ok, f.err
}

func newTestDashboard(mem MemorySource, lat LatencySource, clock *time.Time) *Dashboard {
	d := New(mem, lat)
	d.now = func() time.Time { return *clock }
	return d
}

func TestMemoryUsageNotAvailable(t *testing.T) {
	clock := time.Unix(0, 0)
	for _, mem := range []MemorySource{nil, noHeap{}} {
		d := newTestDashboard(mem, nil, &clock)
		d.Mount()
		if got := d.Stats(context.Background()).MemoryUsage; got != "N/A" {
			t.Errorf("MemoryUsage = %q, want N/A", got)
		}
	}
}

func TestMemoryUsageFormatted(t *testing.T) {
	clock := time.Unix(0, 0)
	d := newTestDashboard(fixedHeap(42_000_000), nil, &clock)
	d.Mount()
	if got := d.Stats(context.Background()).MemoryUsage; got != "42 MB" {
		t.Errorf("MemoryUsage = %q, want 42 MB", got)
	}
}

func TestMemorySampledOnlyAtMount(t *testing.T) {
	clock := time.Unix(0, 0)
	d := newTestDashboard(fixedHeap(1_000_000), nil, &clock)
	d.Mount()
	d.memory = fixedHeap(9_000_000)
	d.Mount()
	if got := d.Stats(context.Background()).MemoryUsage; got != "1.0 MB" {
		t.Errorf("MemoryUsage = %q, want the mount-time sample", got)
	}
}

func TestLoadTimeRecordedOnce(t *testing.T) {
	clock := time.Unix(100, 0)
	d := newTestDashboard(noHeap{}, nil, &clock)

	d.MarkLoaded() // before mount: ignored
	d.Mount()
	clock = clock.Add(1234 * time.Millisecond)
	d.MarkLoaded()
	clock = clock.Add(time.Hour)
	d.MarkLoaded()

	if got := d.Stats(context.Background()).LoadTime; got != 1234 {
		t.Errorf("LoadTime = %d, want 1234", got)
	}
}

func TestLoadTimeNeverNegative(t *testing.T) {
	clock := time.Unix(100, 0)
	d := newTestDashboard(noHeap{}, nil, &clock)
	d.Mount()
	clock = clock.Add(-time.Second)
	d.MarkLoaded()
	if got := d.Stats(context.Background()).LoadTime; got != 0 {
		t.Errorf("LoadTime = %d, want 0", got)
	}
}

func TestAPILatency(t *testing.T) {
	clock := time.Unix(0, 0)
	tests := []struct {
		name string
		src  LatencySource
		want int64
	}{
		{"no source", nil, 0},
		{"no searches yet", fixedLatency{}, 0},
		{"lookup error", fixedLatency{d: time.Second, ok: true, err: errors.New("db closed")}, 0},
		{"last search", fixedLatency{d: 850 * time.Millisecond, ok: true}, 850},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDashboard(noHeap{}, tt.src, &clock)
			if got := d.Stats(context.Background()).APILatency; got != tt.want {
				t.Errorf("APILatency = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStatsEndpoint(t *testing.T) {
	clock := time.Unix(0, 0)
	d := newTestDashboard(noHeap{}, nil, &clock)
	d.Mount()
	clock = clock.Add(15 * time.Millisecond)
	d.MarkLoaded()

	r := chi.NewRouter()
	d.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var stats HostingStats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.LoadTime != 15 || stats.MemoryUsage != "N/A" || stats.Status != StatusHealthy {
		t.Errorf("unexpected stats %+v", stats)
	}
}
