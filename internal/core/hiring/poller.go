package hiring

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	cron "gopkg.in/robfig/cron.v2"
)

// DefaultPollInterval は入社スナップショットの既定ポーリング間隔です。
const DefaultPollInterval = 2 * time.Second

// Syncer はマージパスを一回実行します。
type Syncer interface {
	Sync(ctx context.Context) int
}

// Poller は一定間隔でマージパスを起動します。前回のパスが実行中の間は次の起動を見送ります。
// cron のスケジュールは秒単位のため、1 秒未満の間隔は 1 秒に切り上がります。
type Poller struct {
	syncer   Syncer
	interval time.Duration
	logger   logrus.FieldLogger
	running  atomic.Bool
}

// NewPoller は Poller を生成します。
func NewPoller(syncer Syncer, interval time.Duration, logger logrus.FieldLogger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Poller{syncer: syncer, interval: interval, logger: logger}
}

// Run は即座に一回同期した後、ctx がキャンセルされるまで定期的に同期します。
func (p *Poller) Run(ctx context.Context) error {
	p.tick(ctx)

	c := cron.New()
	c.Schedule(cron.Every(p.interval), cron.FuncJob(func() {
		p.tick(ctx)
	}))
	c.Start()
	p.logger.WithField("interval", p.interval.String()).Info("hiring: admission poller started")

	<-ctx.Done()
	c.Stop()
	p.logger.Info("hiring: admission poller stopped")
	return nil
}

func (p *Poller) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !p.running.CompareAndSwap(false, true) {
		p.logger.Debug("hiring: previous merge pass still running, skipping tick")
		return
	}
	defer p.running.Store(false)

	p.syncer.Sync(ctx)
}
