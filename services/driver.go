package services

import (
	"context"
	"errors"
	"time"

	"github.com/coder/quartz"
	"go.uber.org/zap"
)

// TickInterval is the driver's fixed cadence.
const TickInterval = time.Second

// Driver advances the round once per second. More than one driver may
// watch the same round; the store's version CAS decides which tick wins
// and losers no-op. Ticks are processed synchronously off the ticker
// channel, so a step that overruns its interval causes the intervening
// ticks to be dropped rather than queued.
type Driver struct {
	svc    *RoundService
	clock  quartz.Clock
	hostID string
	log    *zap.SugaredLogger
}

func NewDriver(svc *RoundService, clock quartz.Clock, hostID string, log *zap.SugaredLogger) *Driver {
	return &Driver{svc: svc, clock: clock, hostID: hostID, log: log}
}

// Run ticks until the context is cancelled or the round record vanishes.
// A missing round is fatal: the driver never recreates it, it stops and
// reports so the hosting process can fall back.
func (d *Driver) Run(ctx context.Context) error {
	ticker := d.clock.NewTicker(TickInterval, "driver")
	defer ticker.Stop()

	d.log.Infow("round driver started", "host", d.hostID)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := d.svc.Tick(ctx, d.hostID); err != nil {
				if errors.Is(err, ErrRoundMissing) {
					d.log.Errorw("round record missing, driver stopping", "host", d.hostID)
					return err
				}
				// Transient store trouble or exhausted retries: log and
				// keep ticking, the next second gets a fresh attempt.
				d.log.Warnw("tick failed", "host", d.hostID, "error", err)
			}
		}
	}
}
