package wallet

import (
	"context"
	"io"

	"github.com/frabrice/Emodocar-web/app/models"
)

type Service interface {
	// Fetch replaces the store wholesale from a backend page. It is a
	// no-op without a session and never returns an error: a failed fetch
	// keeps the last known state and records the message.
	Fetch(ctx context.Context, page, limit uint64)
	// Refresh re-fetches the page the store currently shows.
	Refresh(ctx context.Context)

	Deposit(ctx context.Context, deposit *models.NewDeposit) (string, error)
	Transfer(ctx context.Context, transfer *models.NewTransfer) bool

	// ResolvePendingDeposit settles the optimistic pending entry a payment
	// return belongs to.
	ResolvePendingDeposit(ctx context.Context, clientRef string, succeeded bool)

	Snapshot() *models.WalletSnapshot
	ExportCSV(w io.Writer) error

	// Close cancels pending reconciliation timers; the store must not be
	// mutated after teardown.
	Close()
}
