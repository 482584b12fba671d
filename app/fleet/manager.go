package fleet

import (
	"context"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/frabrice/Emodocar-web/app/backend"
	"github.com/frabrice/Emodocar-web/app/models"
	"github.com/frabrice/Emodocar-web/app/notifier"
	"github.com/frabrice/Emodocar-web/pkg/log"
)

// Manager browses and removes marketplace vehicle listings. Plate lookups
// are cached for a short TTL; a delete evicts the entry.
type Manager struct {
	backend  backend.Service
	notifier notifier.Service
	vehicles *cache.Cache
}

func NewManager(backendSvc backend.Service, notifierSvc notifier.Service, lookupTTL time.Duration) *Manager {
	return &Manager{
		backend:  backendSvc,
		notifier: notifierSvc,
		vehicles: cache.New(lookupTTL, lookupTTL),
	}
}

func (m *Manager) Search(ctx context.Context, filter *models.VehicleFilter) (*models.VehicleList, error) {
	log.AddFields(ctx, "page", filter.Page, "limit", filter.Limit)
	return m.backend.SearchVehicles(ctx, filter)
}

func (m *Manager) Get(ctx context.Context, plate string) (*models.Vehicle, error) {
	if cached, ok := m.vehicles.Get(plate); ok {
		if vehicle, ok := cached.(*models.Vehicle); ok {
			return vehicle, nil
		}
	}

	vehicle, err := m.backend.GetVehicle(ctx, plate)
	if err != nil {
		return nil, err
	}

	m.vehicles.SetDefault(plate, vehicle)
	return vehicle, nil
}

func (m *Manager) Delete(ctx context.Context, plate string) error {
	log.AddFields(ctx, "plate", plate)

	if err := m.backend.DeleteVehicle(ctx, plate); err != nil {
		return err
	}

	m.vehicles.Delete(plate)
	m.notifier.Notify(ctx, models.NotificationSuccess, fmt.Sprintf("Vehicle %s deleted", plate))
	return nil
}
