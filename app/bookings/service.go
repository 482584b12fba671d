package bookings

import (
	"context"

	"github.com/frabrice/Emodocar-web/app/models"
)

type Service interface {
	List(ctx context.Context, filter *models.BookingFilter) ([]*models.Booking, error)
}
