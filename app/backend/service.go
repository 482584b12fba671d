package backend

import (
	"context"

	"github.com/frabrice/Emodocar-web/app/models"
)

// Service is the remote marketplace API. All business logic lives behind
// it; the console only orchestrates calls and mirrors state.
type Service interface {
	Login(ctx context.Context, login *models.LoginRequest) (*models.LoginResponse, error)

	FetchWallet(ctx context.Context, page, limit uint64) (*models.WalletResponse, error)
	CreateDeposit(ctx context.Context, deposit *models.DepositRequest) (*models.DepositResponse, error)
	VerifyPayment(ctx context.Context, ret *models.PaymentReturn) (*models.VerifyResponse, error)
	Transfer(ctx context.Context, transfer *models.NewTransfer) (*models.TransferResponse, error)

	SearchVehicles(ctx context.Context, filter *models.VehicleFilter) (*models.VehicleList, error)
	GetVehicle(ctx context.Context, plate string) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, plate string) error
	ListBookings(ctx context.Context, query *models.BookingQuery) (*models.BookingList, error)
}
