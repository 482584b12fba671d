package verifier

import (
	"context"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/frabrice/Emodocar-web/app/backend"
	"github.com/frabrice/Emodocar-web/app/models"
	"github.com/frabrice/Emodocar-web/app/notifier"
	"github.com/frabrice/Emodocar-web/pkg/crypto"
	"github.com/frabrice/Emodocar-web/pkg/log"
	"github.com/frabrice/Emodocar-web/pkg/response"
)

const (
	inProgressMessage = "Verifying your payment..."
	successMessage    = "Payment verified, your wallet has been topped up"
	failureMessage    = "Payment verification failed"
)

// Manager runs the payment-return state machine: Idle, one verification in
// flight, then resolved. A return is identified by its (tx_ref,
// transaction_id) pair; duplicates from reloads or back-navigation are
// dropped until the cool-down expires.
type Manager struct {
	backend  backend.Service
	wallet   WalletStore
	notifier notifier.Service

	// keys returns so a replayed redirect cannot re-trigger verification
	processed *cache.Cache
	dedupKey  string

	mu       sync.Mutex
	inFlight bool
}

func NewManager(
	backendSvc backend.Service,
	wallet WalletStore,
	notifierSvc notifier.Service,
	cooldown time.Duration,
	dedupKey string,
) *Manager {
	return &Manager{
		backend:   backendSvc,
		wallet:    wallet,
		notifier:  notifierSvc,
		processed: cache.New(cooldown, cooldown),
		dedupKey:  dedupKey,
	}
}

func (m *Manager) Process(ctx context.Context, ret *models.PaymentReturn) {
	if !ret.Complete() {
		return
	}

	key := crypto.GetSHA256(ret.Key(), m.dedupKey)

	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return
	}
	if _, seen := m.processed.Get(key); seen {
		m.mu.Unlock()
		return
	}
	m.processed.SetDefault(key, true)
	m.inFlight = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight = false
		m.mu.Unlock()
	}()

	log.Infow("verifying a payment return", "tx_ref", ret.TxRef, "status", ret.Status)
	m.notifier.Notify(ctx, models.NotificationInfo, inProgressMessage)
	m.verify(ctx, ret)
}

// verify resolves one attempt and shows exactly one outcome notification.
func (m *Manager) verify(ctx context.Context, ret *models.PaymentReturn) {
	resp, err := m.backend.VerifyPayment(ctx, ret)

	// The gateway said the payment went through: trust it even when the
	// verification call errors or disagrees, see the dashboard contract.
	if ret.Status == models.GatewaySuccessful {
		if err != nil {
			log.Warnw("verification call failed, trusting the gateway status",
				"tx_ref", ret.TxRef, "error", err.Error())
		} else if !resp.Success {
			log.Warnw("backend verdict disagrees with the gateway status",
				"tx_ref", ret.TxRef, "verdict", resp.Status)
		}
		m.resolve(ctx, ret, true)
		return
	}

	if err == nil && resp.Success {
		m.resolve(ctx, ret, true)
		return
	}
	if err == nil {
		m.resolve(ctx, ret, false)
		return
	}

	// network or backend error on a non-successful return
	m.notifier.Notify(ctx, models.NotificationError, response.Message(err, failureMessage))
}

func (m *Manager) resolve(ctx context.Context, ret *models.PaymentReturn, succeeded bool) {
	m.wallet.ResolvePendingDeposit(ctx, ret.ClientRef, succeeded)
	if !succeeded {
		m.notifier.Notify(ctx, models.NotificationError, failureMessage)
		return
	}

	m.notifier.Notify(ctx, models.NotificationSuccess, successMessage)
	m.wallet.Refresh(ctx)
}
