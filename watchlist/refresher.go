package watchlist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stocks-tracker-web/models"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const DefaultRefreshInterval = 60 * time.Second

// Refresher re-runs an owner's board on a fixed interval for as long as a
// view is attached to it.
type Refresher struct {
	svc      *Service
	owner    string
	interval time.Duration
	publish  func([]models.StockView)

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	stop   sync.Once
}

func NewRefresher(svc *Service, owner string, interval time.Duration, publish func([]models.StockView)) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{svc: svc, owner: owner, interval: interval, publish: publish}
}

// Start acquires the timer. Every Start must be paired with Stop.
func (r *Refresher) Start(parent context.Context) error {
	r.ctx, r.cancel = context.WithCancel(parent)
	// a tick still fetching makes the next one skip, so at most one batch
	// per board is in flight and boards are published in order
	r.cron = cron.New(
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
	)

	if _, err := r.cron.AddFunc(fmt.Sprintf("@every %s", r.interval), r.tick); err != nil {
		r.cancel()
		return fmt.Errorf("register refresh: %w", err)
	}
	r.cron.Start()
	log.Debug().Str("owner", r.owner).Dur("interval", r.interval).Msg("watchlist refresher started")
	return nil
}

// Stop cancels in-flight fetches and waits for a running tick to return.
// Nothing is published once Stop has returned.
func (r *Refresher) Stop() {
	r.stop.Do(func() {
		if r.cron == nil {
			return
		}
		r.cancel()
		<-r.cron.Stop().Done()
		log.Debug().Str("owner", r.owner).Msg("watchlist refresher stopped")
	})
}

func (r *Refresher) tick() {
	views, err := r.svc.Board(r.ctx, r.owner)
	if r.ctx.Err() != nil {
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("owner", r.owner).Msg("watchlist refresh failed")
		return
	}
	r.publish(views)
}

// cronLogger routes cron's own messages into zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
