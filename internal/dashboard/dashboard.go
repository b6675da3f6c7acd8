// Package dashboard reports runtime figures for the hosting status panel.
package dashboard

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
)

// Status is the overall hosting health shown on the panel.
type Status string

const (
	StatusHealthy Status = "Healthy"
	StatusWarning Status = "Warning"
	StatusError   Status = "Error"
)

// NotAvailable is shown when the host exposes no heap counter.
const NotAvailable = "N/A"

// HostingStats is the panel's data.
type HostingStats struct {
	LoadTime    int64  `json:"loadTime"`   // ms from mount to fully loaded
	APILatency  int64  `json:"apiLatency"` // ms of the most recent search
	MemoryUsage string `json:"memoryUsage"`
	Status      Status `json:"status"`
	Runtime     string `json:"runtime"`
}

// MemorySource reads a heap usage counter, if the host has one.
type MemorySource interface {
	HeapInUse() (bytes uint64, ok bool)
}

// RuntimeMemory reads the Go heap.
type RuntimeMemory struct{}

func (RuntimeMemory) HeapInUse() (uint64, bool) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc, true
}

// LatencySource reports the latency of the most recent finished search.
type LatencySource interface {
	LastLatency(ctx context.Context) (time.Duration, bool, error)
}

// Dashboard observes the process passively: it reads memory once at mount
// and records the load time once when the server reports it is ready.
type Dashboard struct {
	memory  MemorySource
	latency LatencySource
	now     func() time.Time

	mu        sync.Mutex
	stats     HostingStats
	mountedAt time.Time
	mounted   bool
	loaded    bool
}

// New creates a Dashboard. memory and latency may be nil.
func New(memory MemorySource, latency LatencySource) *Dashboard {
	return &Dashboard{
		memory:  memory,
		latency: latency,
		now:     time.Now,
		stats: HostingStats{
			MemoryUsage: NotAvailable,
			Status:      StatusHealthy,
			Runtime:     runtime.Version(),
		},
	}
}

// Mount records the mount instant and samples the heap counter once.
func (d *Dashboard) Mount() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mounted {
		return
	}
	d.mounted = true
	d.mountedAt = d.now()

	if d.memory == nil {
		return
	}
	if used, ok := d.memory.HeapInUse(); ok {
		d.stats.MemoryUsage = humanize.Bytes(used)
	}
}

// MarkLoaded records the load time on the first call after Mount. Later
// calls, and calls before Mount, are ignored.
func (d *Dashboard) MarkLoaded() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.mounted || d.loaded {
		return
	}
	d.loaded = true
	elapsed := d.now().Sub(d.mountedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	d.stats.LoadTime = elapsed.Milliseconds()
}

// Stats returns the panel data. APILatency is read from the latency source
// on every call; a lookup failure leaves it at zero.
func (d *Dashboard) Stats(ctx context.Context) HostingStats {
	d.mu.Lock()
	stats := d.stats
	d.mu.Unlock()

	if d.latency != nil {
		if lat, ok, err := d.latency.LastLatency(ctx); err == nil && ok {
			stats.APILatency = lat.Milliseconds()
		}
	}
	return stats
}

// RegisterRoutes mounts the dashboard API onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/api/dashboard", d.handleStats)
}
