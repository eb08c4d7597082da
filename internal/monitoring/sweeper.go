package monitoring

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/SravanamCharan20/Bites/internal/services"
)

// Sweeper periodically marks donation listings whose availability window has
// passed and raises an activity event to the owner, once per listing.
type Sweeper struct {
	donorSvc services.DonorServiceProvider
	eventSvc services.EventServiceProvider
	schedule cron.Schedule
	nextRun  time.Time
	ticker   *time.Ticker
	done     chan bool
}

// NewSweeper creates a sweeper firing on the given cron spec (standard five
// fields or a descriptor like "@every 15m").
func NewSweeper(donorSvc services.DonorServiceProvider, eventSvc services.EventServiceProvider, scheduleSpec string) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(scheduleSpec)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", scheduleSpec, err)
	}
	return &Sweeper{
		donorSvc: donorSvc,
		eventSvc: eventSvc,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the sweeper's ticking loop.
func (s *Sweeper) Run() {
	log.Info().Msg("Starting listing expiry sweeper")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	// Sweep once immediately on start, then follow the schedule.
	s.sweep()
	s.nextRun = s.schedule.Next(time.Now())

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping listing expiry sweeper")
			return
		case now := <-s.ticker.C:
			if now.After(s.nextRun) {
				s.sweep()
				s.nextRun = s.schedule.Next(now)
			}
		}
	}
}

// Stop halts the sweeper.
func (s *Sweeper) Stop() {
	s.done <- true
}

func (s *Sweeper) sweep() {
	expired, err := s.donorSvc.ExpireListings(time.Now())
	if err != nil {
		log.Error().Err(err).Msg("Sweeper: failed to expire listings")
		return
	}

	for _, donor := range expired {
		donor := donor // per-iteration copy; required for correct &donor.UserID under go < 1.22 loop semantics
		msg := fmt.Sprintf("Donation listing '%s' has passed its availability window.", donor.Name)
		if err := s.eventSvc.CreateEvent("listing.expired", "warn", msg, &donor.UserID); err != nil {
			log.Error().Err(err).Str("donor_id", donor.ID).Msg("Sweeper: failed to record expiry event")
		}
	}

	if len(expired) > 0 {
		log.Info().Int("count", len(expired)).Msg("Marked expired donation listings")
	}
}
