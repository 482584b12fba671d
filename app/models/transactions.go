package models

import (
	"regexp"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	TxTypeDeposit  = "deposit"
	TxTypeTransfer = "transfer"

	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusFailed    = "failed"
	TxStatusCancelled = "cancelled"

	// shown when the backend omits the counterparty
	UnknownCounterparty = "N/A"
)

// basic local@domain.tld shape, same as the dashboard form check
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// Transaction is a single wallet history entry. Amount is always positive;
// direction is carried by Type. ClientRef is set only on optimistically
// inserted entries and lets a payment return find its pending deposit.
type Transaction struct {
	ID        string          `json:"id"`
	Date      time.Time       `json:"date"`
	UserEmail string          `json:"userEmail"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note"`
	Type      string          `json:"type"`
	Status    string          `json:"status,omitempty"`
	ClientRef string          `json:"clientRef,omitempty"`
}

// Normalize fills the defaults the backend is allowed to omit.
func (t *Transaction) Normalize() {
	if t.Status == "" {
		t.Status = TxStatusCompleted
	}
	if t.UserEmail == "" {
		t.UserEmail = UnknownCounterparty
	}
}

// status to UI color, one place instead of chained conditionals
var statusColors = map[string]string{
	TxStatusPending:   "yellow",
	TxStatusCompleted: "green",
	TxStatusFailed:    "red",
	TxStatusCancelled: "gray",
}

const defaultStatusColor = "gray"

func StatusColor(status string) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return defaultStatusColor
}

// NewTransfer is an outgoing wallet-to-user transfer request.
type NewTransfer struct {
	UserEmail string          `json:"userEmail"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note"`
}

// Validate checks the transfer against the current balance. The checks run
// in a fixed order and the first failure wins.
func (t *NewTransfer) Validate(balance decimal.Decimal) error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("Amount must be greater than zero")
	}

	if t.Amount.GreaterThan(balance) {
		return errors.New("Insufficient funds in admin wallet")
	}

	if !IsValidEmail(t.UserEmail) {
		return errors.New("Invalid email format")
	}

	return nil
}

type TransferResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
