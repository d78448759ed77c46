package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JournalCleaner is the part of the notification journal the pruner needs.
type JournalCleaner interface {
	Cleanup(olderThan time.Time) (int, error)
}

// PrunerConfig controls notification retention.
type PrunerConfig struct {
	Schedule  string
	Retention time.Duration
}

// JournalPruner drops notifications that outlived the retention window.
type JournalPruner struct {
	journal JournalCleaner
	cfg     PrunerConfig
	cron    *cron.Cron
	now     func() time.Time
	logger  *zap.Logger
}

func NewJournalPruner(journal JournalCleaner, cfg PrunerConfig, logger *zap.Logger) (*JournalPruner, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 1h"
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &JournalPruner{
		journal: journal,
		cfg:     cfg,
		cron:    cron.New(),
		now:     time.Now,
		logger:  logger,
	}

	if _, err := p.cron.AddFunc(cfg.Schedule, func() {
		if _, err := p.Prune(); err != nil {
			p.logger.Error("journal prune failed", zap.Error(err))
		}
	}); err != nil {
		return nil, fmt.Errorf("journal prune schedule %q: %w", cfg.Schedule, err)
	}
	return p, nil
}

// Prune removes everything older than the retention window right away.
func (p *JournalPruner) Prune() (int, error) {
	cutoff := p.now().Add(-p.cfg.Retention)
	removed, err := p.journal.Cleanup(cutoff)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		p.logger.Info("journal pruned", zap.Int("removed", removed), zap.Time("cutoff", cutoff))
	}
	return removed, nil
}

func (p *JournalPruner) Start() {
	p.cron.Start()
	p.logger.Info("journal pruner started", zap.String("schedule", p.cfg.Schedule))
}

// Stop waits for a running prune to finish or for ctx to expire.
func (p *JournalPruner) Stop(ctx context.Context) {
	stopCtx := p.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	p.logger.Info("journal pruner stopped")
}
