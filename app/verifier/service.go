package verifier

import (
	"context"

	"github.com/frabrice/Emodocar-web/app/models"
)

type Service interface {
	// Process consumes one payment-return event. Safe to call with
	// duplicates: a given (tx_ref, transaction_id) pair is verified at
	// most once until the cool-down expires.
	Process(ctx context.Context, ret *models.PaymentReturn)
}

// WalletStore is the slice of the wallet the verifier needs: a refresh
// trigger and the pending-deposit settlement hook.
type WalletStore interface {
	Refresh(ctx context.Context)
	ResolvePendingDeposit(ctx context.Context, clientRef string, succeeded bool)
}
