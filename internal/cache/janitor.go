package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/footy-guide-ssr/internal/logging"
)

const defaultSweepInterval = time.Minute

// Sweeper is a cache that can drop its expired entries.
type Sweeper interface {
	Name() string
	Sweep() int
}

// JanitorStatus describes the most recent sweep.
type JanitorStatus struct {
	Sweeps    int
	LastSweep time.Time
	LastSwept int
}

// Janitor sweeps expired entries from caches on an interval so stale
// entries for resources nobody requests again do not linger.
type Janitor struct {
	stores   []Sweeper
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time

	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   JanitorStatus
}

// NewJanitor constructs a Janitor over the given stores.
func NewJanitor(interval time.Duration, logger *slog.Logger, stores ...Sweeper) *Janitor {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Janitor{
		stores:   stores,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start sweeps until the context is cancelled or Stop is called.
func (j *Janitor) Start(ctx context.Context) {
	j.startMu.Lock()
	if j.started {
		j.startMu.Unlock()
		return
	}
	j.started = true
	j.startMu.Unlock()

	ticker := time.NewTicker(j.interval)
	go func() {
		defer close(j.stopped)
		defer ticker.Stop()
		logging.Info(j.logger, "cache janitor started", slog.Int64(logging.FieldDurationMS, j.interval.Milliseconds()))
		for {
			select {
			case <-ctx.Done():
				logging.Info(j.logger, "cache janitor stopped")
				return
			case <-j.done:
				logging.Info(j.logger, "cache janitor stopped")
				return
			case <-ticker.C:
				j.SweepOnce()
			}
		}
	}()
}

// Stop halts the sweep loop and waits for an in-flight sweep to finish,
// bounded by ctx.
func (j *Janitor) Stop(ctx context.Context) error {
	j.stopOnce.Do(func() { close(j.done) })

	j.startMu.Lock()
	started := j.started
	j.startMu.Unlock()
	if !started {
		return nil
	}

	select {
	case <-j.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SweepOnce sweeps every store immediately and returns the total removed.
func (j *Janitor) SweepOnce() int {
	total := 0
	for _, store := range j.stores {
		removed := store.Sweep()
		if removed > 0 {
			logging.Info(j.logger, "cache swept",
				slog.String(logging.FieldCache, store.Name()),
				slog.Int(logging.FieldCount, removed),
			)
		}
		total += removed
	}

	j.statusMu.Lock()
	j.status.Sweeps++
	j.status.LastSweep = j.now()
	j.status.LastSwept = total
	j.statusMu.Unlock()
	return total
}

// Status returns a snapshot of the janitor's activity.
func (j *Janitor) Status() JanitorStatus {
	j.statusMu.RLock()
	defer j.statusMu.RUnlock()
	return j.status
}
