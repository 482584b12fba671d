package bookings

import (
	"context"
	"sort"
	"time"

	"github.com/frabrice/Emodocar-web/app/backend"
	"github.com/frabrice/Emodocar-web/app/models"
	"github.com/frabrice/Emodocar-web/pkg/log"
)

// Manager lists marketplace bookings for the dashboard, bounded by a named
// time window (today, week, month, past).
type Manager struct {
	Backend backend.Service

	// now is swapped in tests
	now func() time.Time
}

func NewManager(backendSvc backend.Service) *Manager {
	return &Manager{
		Backend: backendSvc,
		now:     time.Now,
	}
}

func (m *Manager) List(ctx context.Context, filter *models.BookingFilter) ([]*models.Booking, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	log.AddFields(ctx, "filter", filter.Filter)

	from, to := m.window(filter.Filter)
	resp, err := m.Backend.ListBookings(ctx, &models.BookingQuery{
		Filter: filter.Filter,
		From:   from,
		To:     to,
	})
	if err != nil {
		return nil, err
	}

	bookings := resp.Bookings
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].StartDate.After(bookings[j].StartDate)
	})
	return bookings, nil
}

// window translates a named filter into an inclusive start bound and an
// exclusive end bound.
func (m *Manager) window(filter string) (time.Time, time.Time) {
	now := m.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch filter {
	case models.BookingFilterToday:
		return startOfDay, startOfDay.AddDate(0, 0, 1)
	case models.BookingFilterWeek:
		return startOfDay, startOfDay.AddDate(0, 0, 7)
	case models.BookingFilterMonth:
		return startOfDay, startOfDay.AddDate(0, 1, 0)
	default: // past
		return time.Time{}, now
	}
}
