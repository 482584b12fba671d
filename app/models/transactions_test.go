package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTransactionNormalizeDefaults(t *testing.T) {
	tx := &Transaction{Amount: decimal.NewFromInt(10), Type: TxTypeDeposit}
	tx.Normalize()
	require.Equal(t, TxStatusCompleted, tx.Status)
	require.Equal(t, UnknownCounterparty, tx.UserEmail)

	tx = &Transaction{UserEmail: "a@b.com", Status: TxStatusPending}
	tx.Normalize()
	require.Equal(t, TxStatusPending, tx.Status)
	require.Equal(t, "a@b.com", tx.UserEmail)
}

func TestStatusColor(t *testing.T) {
	require.Equal(t, "yellow", StatusColor(TxStatusPending))
	require.Equal(t, "green", StatusColor(TxStatusCompleted))
	require.Equal(t, "red", StatusColor(TxStatusFailed))
	require.Equal(t, "gray", StatusColor(TxStatusCancelled))
	require.Equal(t, "gray", StatusColor("reversed"))
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.com", "first.last@sub.domain.org", "x+tag@y.co"}
	for _, email := range valid {
		require.True(t, IsValidEmail(email), email)
	}

	invalid := []string{"", "nobody", "a@b", "a b@c.com", "a@b c.com", "@b.com"}
	for _, email := range invalid {
		require.False(t, IsValidEmail(email), email)
	}
}

func TestNewTransferValidateOrder(t *testing.T) {
	balance := decimal.NewFromInt(100)

	cases := []struct {
		name     string
		transfer NewTransfer
		want     string
	}{
		{
			// amount is checked before the email, even when both are bad
			name:     "non-positive amount wins",
			transfer: NewTransfer{UserEmail: "broken", Amount: decimal.Zero},
			want:     "Amount must be greater than zero",
		},
		{
			name:     "insufficient funds beats bad email",
			transfer: NewTransfer{UserEmail: "broken", Amount: decimal.NewFromInt(500)},
			want:     "Insufficient funds in admin wallet",
		},
		{
			name:     "email checked last",
			transfer: NewTransfer{UserEmail: "broken", Amount: decimal.NewFromInt(50)},
			want:     "Invalid email format",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.transfer.Validate(balance)
			require.Error(t, err)
			require.Equal(t, tc.want, err.Error())
		})
	}

	ok := NewTransfer{UserEmail: "a@b.com", Amount: decimal.NewFromInt(100)}
	require.NoError(t, ok.Validate(balance)) // exactly the balance is allowed
}

func TestNewDepositValidateCurrency(t *testing.T) {
	currencies := []string{"RWF", "USD"}

	d := &NewDeposit{Amount: decimal.NewFromInt(10), Currency: "USD"}
	require.NoError(t, d.Validate(currencies))

	d.Currency = "EUR"
	require.Error(t, d.Validate(currencies))
}

func TestPaymentReturnComplete(t *testing.T) {
	full := &PaymentReturn{Status: "successful", TxRef: "tx-1", TransactionID: "9"}
	require.True(t, full.Complete())
	require.Equal(t, "tx-1/9", full.Key())

	require.False(t, (&PaymentReturn{TxRef: "tx-1", TransactionID: "9"}).Complete())
	require.False(t, (&PaymentReturn{Status: "successful", TransactionID: "9"}).Complete())
	require.False(t, (&PaymentReturn{Status: "successful", TxRef: "tx-1"}).Complete())
}
