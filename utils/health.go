package utils

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrCheckDisabled marks an optional dependency that is not configured.
var ErrCheckDisabled = errors.New("not configured")

// Probe checks one external dependency.
type Probe func(ctx context.Context) error

// CheckResult is the outcome of a single probe.
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// MemoryStats is a trimmed runtime.MemStats.
type MemoryStats struct {
	HeapAllocMB float64 `json:"heap_alloc_mb"`
	HeapSysMB   float64 `json:"heap_sys_mb"`
	SysMB       float64 `json:"sys_mb"`
	NumGC       uint32  `json:"num_gc"`
	Goroutines  int     `json:"goroutines"`
}

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Status        string                 `json:"status"`
	Checks        map[string]CheckResult `json:"checks"`
	Memory        MemoryStats            `json:"memory"`
	UptimeSeconds int64                  `json:"uptime_seconds"`
	CheckedAt     time.Time              `json:"checked_at"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
	startedAt     = time.Now()
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// RunHealthChecks executes every probe plus the memory and api checks.
func RunHealthChecks(ctx context.Context, probes map[string]Probe) HealthStatus {
	checks := make(map[string]CheckResult, len(probes)+2)
	overall := "healthy"

	for name, probe := range probes {
		err := probe(ctx)
		switch {
		case err == nil:
			checks[name] = CheckResult{Status: "ok"}
		case errors.Is(err, ErrCheckDisabled):
			checks[name] = CheckResult{Status: "disabled", Message: err.Error()}
		default:
			checks[name] = CheckResult{Status: "error", Message: err.Error()}
			overall = "unhealthy"
		}
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	mem := MemoryStats{
		HeapAllocMB: toMB(ms.HeapAlloc),
		HeapSysMB:   toMB(ms.HeapSys),
		SysMB:       toMB(ms.Sys),
		NumGC:       ms.NumGC,
		Goroutines:  runtime.NumGoroutine(),
	}
	if ms.HeapSys > 0 && float64(ms.HeapAlloc)/float64(ms.HeapSys) > 0.9 {
		checks["memory"] = CheckResult{Status: "warning", Message: "heap usage above 90%"}
		if overall == "healthy" {
			overall = "degraded"
		}
	} else {
		checks["memory"] = CheckResult{Status: "ok"}
	}
	checks["api"] = CheckResult{Status: "ok"}

	return HealthStatus{
		Status:        overall,
		Checks:        checks,
		Memory:        mem,
		UptimeSeconds: int64(time.Since(startedAt).Seconds()),
		CheckedAt:     time.Now(),
	}
}

// StartHealthMonitor performs periodic health checks and updates in-memory state.
func StartHealthMonitor(ctx context.Context, probes map[string]Probe, every time.Duration) {
	refresh := func() {
		cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		status := RunHealthChecks(cctx, probes)
		if status.Status != "healthy" {
			GetLogger().Warn("Health check degraded", zap.String("status", status.Status))
		}
		mu.Lock()
		currentHealth = status
		mu.Unlock()
	}
	refresh()

	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				refresh()
			}
		}
	}()
}

func toMB(b uint64) float64 {
	return float64(b) / 1024 / 1024
}
