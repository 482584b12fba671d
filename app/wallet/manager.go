package wallet

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/frabrice/Emodocar-web/app/backend"
	"github.com/frabrice/Emodocar-web/app/config"
	"github.com/frabrice/Emodocar-web/app/models"
	"github.com/frabrice/Emodocar-web/app/notifier"
	"github.com/frabrice/Emodocar-web/app/session"
	"github.com/frabrice/Emodocar-web/pkg/log"
	"github.com/frabrice/Emodocar-web/pkg/response"
	"github.com/frabrice/Emodocar-web/pkg/uuid"
)

const (
	depositNote      = "Admin wallet deposit"
	transferNote     = "Transfer to user"
	fetchFallback    = "Failed to load the wallet"
	depositFallback  = "Failed to create a deposit"
	transferFallback = "Failed to transfer funds"
)

// Manager is the wallet store: it holds the current balance and one page of
// transaction history, mirrors backend truth after every fetch and adjusts
// itself optimistically in between.
type Manager struct {
	backend  backend.Service
	session  session.Service
	notifier notifier.Service
	cfg      config.Wallet

	// where the payment gateway sends the browser after checkout
	returnURL string

	mu           sync.Mutex
	balance      decimal.Decimal
	transactions []*models.Transaction
	pagination   *models.Pagination
	page         uint64
	limit        uint64
	fetched      bool
	loading      bool
	lastErr      string

	timersMu sync.Mutex
	timers   map[string]*time.Timer
	closed   bool
}

func NewManager(
	backendSvc backend.Service,
	sessionSvc session.Service,
	notifierSvc notifier.Service,
	cfg config.Wallet,
	returnURL string,
) *Manager {
	return &Manager{
		backend:   backendSvc,
		session:   sessionSvc,
		notifier:  notifierSvc,
		cfg:       cfg,
		returnURL: returnURL,
		limit:     cfg.PageLimit,
		timers:    make(map[string]*time.Timer),
	}
}

// Fetch loads one history page and replaces balance and transactions
// wholesale. Without a token it must not call the backend at all.
func (m *Manager) Fetch(ctx context.Context, page, limit uint64) {
	if !m.session.Authenticated() {
		return
	}
	if limit == 0 {
		limit = m.cfg.PageLimit
	}

	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()

	resp, err := m.backend.FetchWallet(ctx, page, limit)

	m.mu.Lock()
	m.loading = false
	if err != nil {
		// keep the last known state, remember the message
		m.lastErr = response.Message(err, fetchFallback)
		msg := m.lastErr
		m.mu.Unlock()
		log.Errorw("wallet fetch failed", "page", page, "limit", limit, "error", err.Error())
		m.notifier.Notify(ctx, models.NotificationError, msg)
		return
	}

	transactions := make([]*models.Transaction, 0, len(resp.Wallet.History))
	for _, t := range resp.Wallet.History {
		t.Normalize()
		transactions = append(transactions, t)
	}
	m.balance = resp.Wallet.Balance
	m.transactions = transactions
	m.pagination = resp.Pagination
	m.page, m.limit = page, limit
	m.fetched = true
	m.lastErr = ""
	m.mu.Unlock()
}

// Refresh re-fetches whatever page the store currently shows.
func (m *Manager) Refresh(ctx context.Context) {
	m.mu.Lock()
	page, limit := m.page, m.limit
	m.mu.Unlock()
	m.Fetch(ctx, page, limit)
}

// Deposit asks the backend for a hosted payment page and records a pending
// transaction. The balance stays untouched: funds are not received until
// the payment return confirms them. A non-positive amount is dropped
// without touching the network.
func (m *Manager) Deposit(ctx context.Context, deposit *models.NewDeposit) (string, error) {
	if deposit.Amount.LessThanOrEqual(decimal.Zero) {
		return "", nil
	}

	if err := deposit.Validate(m.cfg.Currencies); err != nil {
		m.notifier.Notify(ctx, models.NotificationError, err.Error())
		return "", err
	}

	clientRef := uuid.NewUUID()
	resp, err := m.backend.CreateDeposit(ctx, &models.DepositRequest{
		Amount:      deposit.Amount,
		Currency:    deposit.Currency,
		RedirectURL: fmt.Sprintf("%s?ref=%s", m.returnURL, clientRef),
	})
	if err != nil {
		m.notifier.Notify(ctx, models.NotificationError, response.Message(err, depositFallback))
		return "", errors.Wrap(err, "failed to create a deposit")
	}

	m.mu.Lock()
	m.prepend(&models.Transaction{
		ID:        uuid.NewUUID(),
		Date:      time.Now(),
		UserEmail: m.adminEmail(),
		Amount:    deposit.Amount,
		Note:      depositNote,
		Type:      models.TxTypeDeposit,
		Status:    models.TxStatusPending,
		ClientRef: clientRef,
	})
	m.mu.Unlock()

	m.notifier.Notify(ctx, models.NotificationInfo,
		"Payment link created, complete the payment to top up the wallet")
	m.scheduleReconcile()

	return resp.Link, nil
}

// Transfer moves funds from the wallet to a user account. The checks run
// client-side against the possibly stale balance and fail fast; true is
// returned only when the backend call itself succeeded.
func (m *Manager) Transfer(ctx context.Context, transfer *models.NewTransfer) bool {
	m.mu.Lock()
	balance := m.balance
	m.mu.Unlock()

	if err := transfer.Validate(balance); err != nil {
		m.notifier.Notify(ctx, models.NotificationError, err.Error())
		return false
	}

	resp, err := m.backend.Transfer(ctx, transfer)
	if err != nil {
		m.notifier.Notify(ctx, models.NotificationError, response.Message(err, transferFallback))
		return false
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = transferFallback
		}
		m.notifier.Notify(ctx, models.NotificationError, msg)
		return false
	}

	note := transfer.Note
	if note == "" {
		note = transferNote
	}

	m.mu.Lock()
	m.balance = m.balance.Sub(transfer.Amount)
	m.prepend(&models.Transaction{
		ID:        uuid.NewUUID(),
		Date:      time.Now(),
		UserEmail: transfer.UserEmail,
		Amount:    transfer.Amount,
		Note:      note,
		Type:      models.TxTypeTransfer,
		Status:    models.TxStatusCompleted,
	})
	m.mu.Unlock()

	m.notifier.Notify(ctx, models.NotificationSuccess,
		fmt.Sprintf("Successfully transferred $%s to %s", transfer.Amount.StringFixed(2), transfer.UserEmail))
	m.scheduleReconcile()

	return true
}

// ResolvePendingDeposit settles the optimistic entry matching a payment
// return. An empty clientRef settles the newest pending deposit.
func (m *Manager) ResolvePendingDeposit(ctx context.Context, clientRef string, succeeded bool) {
	status := models.TxStatusCompleted
	if !succeeded {
		status = models.TxStatusFailed
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.transactions {
		if t.Type != models.TxTypeDeposit || t.Status != models.TxStatusPending {
			continue
		}
		if clientRef != "" && t.ClientRef != clientRef {
			continue
		}
		t.Status = status
		return
	}
}

// Snapshot returns a copy of the store for the console UI.
func (m *Manager) Snapshot() *models.WalletSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	transactions := make([]*models.Transaction, 0, len(m.transactions))
	for _, t := range m.transactions {
		copied := *t
		transactions = append(transactions, &copied)
	}

	var pagination *models.Pagination
	if m.pagination != nil {
		copied := *m.pagination
		pagination = &copied
	}

	return &models.WalletSnapshot{
		WalletState: models.WalletState{
			Balance:      m.balance,
			Transactions: transactions,
		},
		Pagination:    pagination,
		Authoritative: m.fetched,
		Loading:       m.loading,
		LastError:     m.lastErr,
	}
}

// ExportCSV writes the currently held history page, newest first.
func (m *Manager) ExportCSV(w io.Writer) error {
	snapshot := m.Snapshot()

	cw := csv.NewWriter(w)
	var errs error
	if err := cw.Write([]string{"Date", "User Email", "Amount (USD)", "Note", "Type", "Status"}); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "failed to write a csv header"))
	}
	for _, t := range snapshot.Transactions {
		record := []string{
			t.Date.Format(time.RFC3339),
			t.UserEmail,
			t.Amount.StringFixed(2),
			t.Note,
			t.Type,
			t.Status,
		}
		if err := cw.Write(record); err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, "failed to write a csv record"))
		}
	}
	cw.Flush()
	return multierr.Append(errs, errors.Wrap(cw.Error(), "failed to flush csv"))
}

// Close stops every pending reconciliation timer so nothing mutates the
// store after teardown.
func (m *Manager) Close() {
	m.timersMu.Lock()
	defer m.timersMu.Unlock()
	m.closed = true
	for id, t := range m.timers {
		t.Stop()
		delete(m.timers, id)
	}
}

// scheduleReconcile arms a one-shot re-fetch to pick up backend truth once
// an out-of-band payment or transfer may have settled. A heuristic, not a
// guarantee: real confirmation comes from the payment-return verifier.
func (m *Manager) scheduleReconcile() {
	m.timersMu.Lock()
	defer m.timersMu.Unlock()
	if m.closed {
		return
	}

	id := uuid.NewUUID()
	m.timers[id] = time.AfterFunc(m.cfg.ReconcileDelay, func() {
		m.timersMu.Lock()
		delete(m.timers, id)
		closed := m.closed
		m.timersMu.Unlock()
		if closed {
			return
		}
		m.Refresh(context.Background())
	})
}

// prepend inserts an optimistic entry; callers hold m.mu.
func (m *Manager) prepend(t *models.Transaction) {
	m.transactions = append([]*models.Transaction{t}, m.transactions...)
}

func (m *Manager) adminEmail() string {
	if user := m.session.User(); user != nil && user.Email.Value != "" {
		return user.Email.Value
	}
	return models.UnknownCounterparty
}
