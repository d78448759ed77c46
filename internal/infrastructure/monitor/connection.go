package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/setuponce/backend/internal/infrastructure/journal"
)

const (
	DependencyPostgres = "postgresql"
	DependencyRedis    = "redis"
	DependencyJournal  = "journal"
)

var errNotConfigured = errors.New("not configured")

// DependencyGauge receives the up/down state of each dependency after every probe.
type DependencyGauge interface {
	SetDependency(name string, up bool)
}

type probe struct {
	name    string
	timeout time.Duration
	check   func(ctx context.Context) error
}

// Monitor periodically probes the backing services and keeps the last result
// for the health endpoint and the dependency gauge.
type Monitor struct {
	probes   []probe
	journal  *journal.Store
	gauge    DependencyGauge
	interval time.Duration
	logger   *zap.Logger

	mu     sync.RWMutex
	status Status

	stopOnce sync.Once
	stopCh   chan struct{}
}

func New(pg *pgxpool.Pool, redis *redislib.Client, store *journal.Store, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Monitor{
		journal:  store,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
	m.probes = []probe{
		{name: DependencyPostgres, timeout: 3 * time.Second, check: func(ctx context.Context) error {
			if pg == nil {
				return errNotConfigured
			}
			return pg.Ping(ctx)
		}},
		{name: DependencyRedis, timeout: 2 * time.Second, check: func(ctx context.Context) error {
			if redis == nil {
				return errNotConfigured
			}
			return redis.Ping(ctx).Err()
		}},
	}
	return m
}

// WithGauge attaches a gauge that mirrors every probe result.
func (m *Monitor) WithGauge(g DependencyGauge) *Monitor {
	m.gauge = g
	return m
}

func (m *Monitor) Start() {
	go m.loop()
}

// Stop ends the probe loop; calling it twice is harmless.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// IsOnline reports whether the stores every tab depends on answered the last probe.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.PostgreSQL && m.status.Redis
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	up := make(map[string]bool, len(m.probes)+1)
	for _, p := range m.probes {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		err := p.check(ctx)
		cancel()
		up[p.name] = err == nil
		if err != nil {
			m.logger.Warn("dependency check failed", zap.String("dependency", p.name), zap.Error(err))
		}
	}

	journalSize, err := m.journalSize()
	up[DependencyJournal] = err == nil
	if err != nil {
		m.logger.Warn("dependency check failed", zap.String("dependency", DependencyJournal), zap.Error(err))
	}

	status := Status{
		PostgreSQL:  up[DependencyPostgres],
		Redis:       up[DependencyRedis],
		Journal:     up[DependencyJournal],
		JournalSize: journalSize,
		LastCheck:   time.Now(),
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()

	if m.gauge != nil {
		for name, ok := range up {
			m.gauge.SetDependency(name, ok)
		}
	}
}

func (m *Monitor) journalSize() (int, error) {
	if m.journal == nil {
		return 0, errNotConfigured
	}
	return m.journal.Size()
}
