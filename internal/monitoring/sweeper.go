package monitoring

import (
	"fmt"
	"time"

	"github.com/mventura/bookstay-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// BookingSweeper transitions past-checkout bookings to completed on a cron
// schedule.
type BookingSweeper struct {
	bookingSvc services.BookingServiceProvider
	schedule   cron.Schedule
	done       chan bool
}

// NewBookingSweeper parses the cron expression and builds the sweeper.
// A bad expression is a startup error.
func NewBookingSweeper(bookingSvc services.BookingServiceProvider, cronExpr string) (*BookingSweeper, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", cronExpr, err)
	}
	return &BookingSweeper{
		bookingSvc: bookingSvc,
		schedule:   schedule,
		done:       make(chan bool),
	}, nil
}

// Run starts the sweeper's loop. It sweeps once immediately, then on every
// scheduled tick.
func (s *BookingSweeper) Run() {
	log.Info().Msg("Starting booking sweeper")
	s.sweep()

	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-s.done:
			timer.Stop()
			log.Info().Msg("Stopping booking sweeper")
			return
		case <-timer.C:
			s.sweep()
		}
	}
}

// Stop halts the sweeper.
func (s *BookingSweeper) Stop() {
	s.done <- true
}

func (s *BookingSweeper) sweep() {
	n, err := s.bookingSvc.CompleteElapsedBookings(time.Now())
	if err != nil {
		log.Error().Err(err).Msg("Booking sweep failed")
		return
	}
	if n > 0 {
		log.Info().Int("completed", n).Msg("Booking sweep finished")
	}
}
