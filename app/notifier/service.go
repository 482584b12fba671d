package notifier

import (
	"context"

	"github.com/frabrice/Emodocar-web/app/models"
)

type Service interface {
	Subscribe(ctx context.Context, subscription *models.NewSubscription) error
	Notify(ctx context.Context, level, message string)
	Live() []*models.Notification
}
