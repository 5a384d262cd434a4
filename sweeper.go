package lobbyqueue

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Sweeper periodically evicts queue members whose availability window has
// elapsed. The default cadence is every 30 seconds.
type Sweeper interface {
	Start() error
	Stop()
}

type sweeper struct {
	engine   QueueEngine
	interval int
	cron     *cron.Cron
}

func NewSweeper(engine QueueEngine, intervalSeconds int) Sweeper {
	return &sweeper{
		engine:   engine,
		interval: intervalSeconds,
	}
}

func (s *sweeper) Start() error {
	if s.cron != nil {
		return nil
	}

	s.cron = cron.New(cron.WithSeconds())
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", s.interval), func() {
		evictions := s.engine.SweepExpired(time.Now())
		for _, eviction := range evictions {
			log.WithFields(log.Fields{
				"community":   eviction.CommunityID,
				"size_class":  eviction.SizeClass,
				"participant": eviction.Participant.ID,
				"remaining":   eviction.Remaining,
			}).Info("availability window elapsed, participant evicted")
		}
	})
	if err != nil {
		s.cron = nil
		return err
	}

	s.cron.Start()
	log.WithField("interval_seconds", s.interval).Info("queue sweeper started")
	return nil
}

func (s *sweeper) Stop() {
	if s.cron == nil {
		return
	}
	s.cron.Stop()
	s.cron = nil
	log.Info("queue sweeper stopped")
}
