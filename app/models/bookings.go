package models

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	BookingStatusActive    = "active"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"

	BookingFilterToday = "today"
	BookingFilterWeek  = "week"
	BookingFilterMonth = "month"
	BookingFilterPast  = "past"
)

// Booking is a rental booking record from the marketplace backend.
type Booking struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"userId"`
	UserEmail          string          `json:"userEmail"`
	UserPhone          string          `json:"userPhone"`
	UserName           string          `json:"userName"`
	HostID             string          `json:"hostId"`
	HostName           string          `json:"hostName"`
	HostPhone          string          `json:"hostPhone"`
	StartDate          time.Time       `json:"startDate"`
	EndDate            time.Time       `json:"endDate"`
	PricePerDay        decimal.Decimal `json:"pricePerDay"`
	TotalPrice         decimal.Decimal `json:"totalPrice"`
	Status             string          `json:"status"`
	VehiclePlateNumber string          `json:"vehiclePlateNumber"`
}

// Days is the booking length in whole days, rounded up.
func (b *Booking) Days() int {
	d := b.EndDate.Sub(b.StartDate)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	if days < 0 {
		return 0
	}
	return days
}

// BookingFilter selects a time window of bookings.
type BookingFilter struct {
	Filter string `json:"filter"`
}

func (f *BookingFilter) Validate() error {
	switch f.Filter {
	case BookingFilterToday, BookingFilterWeek, BookingFilterMonth, BookingFilterPast:
		return nil
	}
	return errors.Errorf("unknown bookings filter: %s", f.Filter)
}

// BookingQuery is the body sent to the backend bookings endpoint.
type BookingQuery struct {
	Filter string    `json:"filter"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
}

type BookingList struct {
	Bookings []*Booking `json:"bookings"`
}
