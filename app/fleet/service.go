package fleet

import (
	"context"

	"github.com/frabrice/Emodocar-web/app/models"
)

type Service interface {
	Search(ctx context.Context, filter *models.VehicleFilter) (*models.VehicleList, error)
	Get(ctx context.Context, plate string) (*models.Vehicle, error)
	Delete(ctx context.Context, plate string) error
}
