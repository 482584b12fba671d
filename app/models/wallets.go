package models

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// WalletState is the current wallet page as the console sees it. Between
// fetches the balance may be adjusted optimistically and is not
// authoritative until at least one fetch has succeeded.
type WalletState struct {
	Balance      decimal.Decimal `json:"balance"`
	Transactions []*Transaction  `json:"transactions"`
}

// WalletSnapshot is the read model handed to the console UI.
type WalletSnapshot struct {
	WalletState
	Pagination    *Pagination `json:"pagination,omitempty"`
	Authoritative bool        `json:"authoritative"`
	Loading       bool        `json:"loading"`
	LastError     string      `json:"lastError,omitempty"`
}

// NewDeposit is a request for a hosted payment page.
type NewDeposit struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// Validate checks the currency against the configured set. A non-positive
// amount is not an error here: the deposit flow drops it silently.
func (d *NewDeposit) Validate(currencies []string) error {
	for _, c := range currencies {
		if d.Currency == c {
			return nil
		}
	}
	return errors.Errorf("unsupported currency: %s", d.Currency)
}

// DepositRequest is the body sent to the backend deposit endpoint.
type DepositRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	RedirectURL string          `json:"redirectUrl"`
}

// DepositResponse carries the hosted payment page URL. A single documented
// field; divergent names are a backend contract bug, not a client concern.
type DepositResponse struct {
	Link string `json:"link"`
}

// WalletResponse is the paginated balance + history payload.
type WalletResponse struct {
	Wallet struct {
		Balance decimal.Decimal `json:"balance"`
		History []*Transaction  `json:"history"`
	} `json:"wallet"`
	Pagination *Pagination `json:"pagination"`
}

// PaymentReturn is the set of query parameters the payment gateway appends
// when it redirects the browser back to the console.
type PaymentReturn struct {
	Status        string `json:"status"`
	TxRef         string `json:"tx_ref"`
	TransactionID string `json:"transaction_id"`
	ClientRef     string `json:"ref,omitempty"` // echoed from our redirect url
}

// Complete reports whether all gateway parameters are present. Incomplete
// returns never start a verification.
func (p *PaymentReturn) Complete() bool {
	return p.Status != "" && p.TxRef != "" && p.TransactionID != ""
}

// Key identifies one payment-return event for deduplication.
func (p *PaymentReturn) Key() string {
	return p.TxRef + "/" + p.TransactionID
}

// GatewaySuccessful is the gateway-side status value meaning the payment
// went through.
const GatewaySuccessful = "successful"

type VerifyResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}
