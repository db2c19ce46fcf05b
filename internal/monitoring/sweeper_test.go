package monitoring

import (
	"sync"
	"testing"
	"time"

	"github.com/mventura/bookstay-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBookingService counts sweep invocations.
type stubBookingService struct {
	mu     sync.Mutex
	sweeps int
}

func (s *stubBookingService) CompleteElapsedBookings(now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweeps++
	return 0, nil
}

func (s *stubBookingService) sweepCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweeps
}

func (s *stubBookingService) CreateBooking(userID, hotelID string, booking models.Booking) (models.Booking, error) {
	return models.Booking{}, nil
}

func (s *stubBookingService) GetBookingsByUser(userID string) ([]models.Booking, error) {
	return nil, nil
}

func TestNewBookingSweeper_RejectsBadSchedule(t *testing.T) {
	_, err := NewBookingSweeper(&stubBookingService{}, "not a cron expression")
	assert.Error(t, err)
}

func TestNewBookingSweeper_AcceptsStandardSchedules(t *testing.T) {
	for _, expr := range []string{"@hourly", "@daily", "*/5 * * * *"} {
		_, err := NewBookingSweeper(&stubBookingService{}, expr)
		assert.NoError(t, err, expr)
	}
}

func TestSweeperRunsImmediatelyAndStops(t *testing.T) {
	svc := &stubBookingService{}
	sweeper, err := NewBookingSweeper(svc, "@hourly")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		sweeper.Run()
		close(done)
	}()

	// One sweep happens on start, before the first scheduled tick.
	assert.Eventually(t, func() bool { return svc.sweepCount() >= 1 }, time.Second, 10*time.Millisecond)

	sweeper.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
