package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/frabrice/Emodocar-web/app/backend"
	"github.com/frabrice/Emodocar-web/app/models"
)

type stubBackend struct {
	backend.Service

	mu      sync.Mutex
	queries []*models.BookingQuery
	list    func(query *models.BookingQuery) (*models.BookingList, error)
}

func (s *stubBackend) ListBookings(_ context.Context, query *models.BookingQuery) (*models.BookingList, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	return s.list(query)
}

func newTestManager(b *stubBackend, now time.Time) *Manager {
	m := NewManager(b)
	m.now = func() time.Time { return now }
	return m
}

func TestListRejectsUnknownFilter(t *testing.T) {
	b := &stubBackend{list: func(*models.BookingQuery) (*models.BookingList, error) {
		return &models.BookingList{}, nil
	}}
	m := newTestManager(b, time.Now())

	_, err := m.List(context.Background(), &models.BookingFilter{Filter: "yesterday"})
	require.Error(t, err)
	require.Empty(t, b.queries)
}

func TestListWindows(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	startOfDay := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		filter string
		from   time.Time
		to     time.Time
	}{
		{models.BookingFilterToday, startOfDay, startOfDay.AddDate(0, 0, 1)},
		{models.BookingFilterWeek, startOfDay, startOfDay.AddDate(0, 0, 7)},
		{models.BookingFilterMonth, startOfDay, startOfDay.AddDate(0, 1, 0)},
		{models.BookingFilterPast, time.Time{}, now},
	}

	for _, tc := range cases {
		t.Run(tc.filter, func(t *testing.T) {
			b := &stubBackend{list: func(*models.BookingQuery) (*models.BookingList, error) {
				return &models.BookingList{}, nil
			}}
			m := newTestManager(b, now)

			_, err := m.List(context.Background(), &models.BookingFilter{Filter: tc.filter})
			require.NoError(t, err)
			require.Len(t, b.queries, 1)
			require.Equal(t, tc.filter, b.queries[0].Filter)
			require.True(t, b.queries[0].From.Equal(tc.from))
			require.True(t, b.queries[0].To.Equal(tc.to))
		})
	}
}

func TestListSortsNewestFirst(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	b := &stubBackend{list: func(*models.BookingQuery) (*models.BookingList, error) {
		return &models.BookingList{Bookings: []*models.Booking{
			{ID: "b1", StartDate: day(3)},
			{ID: "b2", StartDate: day(10)},
			{ID: "b3", StartDate: day(7)},
		}}, nil
	}}
	m := newTestManager(b, time.Now())

	bookings, err := m.List(context.Background(), &models.BookingFilter{Filter: models.BookingFilterPast})
	require.NoError(t, err)

	ids := make([]string, 0, len(bookings))
	for _, booking := range bookings {
		ids = append(ids, booking.ID)
	}
	require.Equal(t, []string{"b2", "b3", "b1"}, ids)
}

func TestBookingDays(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	b := &models.Booking{StartDate: start, EndDate: start.AddDate(0, 0, 3)}
	require.Equal(t, 3, b.Days())

	// partial days round up
	b.EndDate = start.Add(73 * time.Hour)
	require.Equal(t, 4, b.Days())

	b.EndDate = start
	require.Equal(t, 0, b.Days())
}
