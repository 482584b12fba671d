package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/frabrice/Emodocar-web/app/models"
)

type stubAuth struct{}

func passThrough(next http.Handler) http.Handler { return next }

func (s *stubAuth) GetJWTVerifier() func(http.Handler) http.Handler      { return passThrough }
func (s *stubAuth) GetJWTAuthenticator() func(http.Handler) http.Handler { return passThrough }

func (s *stubAuth) Login(_ context.Context, login *models.LoginRequest) (*models.AuthorizedAdmin, error) {
	if err := login.Validate(); err != nil {
		return nil, err
	}
	return &models.AuthorizedAdmin{AccessToken: "console-token"}, nil
}

type stubWallet struct {
	snapshot  *models.WalletSnapshot
	transfer  bool
	deposited *models.NewDeposit
	fetched   []uint64
}

func (s *stubWallet) Fetch(_ context.Context, page, limit uint64) { s.fetched = []uint64{page, limit} }
func (s *stubWallet) Refresh(context.Context)                     {}

func (s *stubWallet) Deposit(_ context.Context, deposit *models.NewDeposit) (string, error) {
	s.deposited = deposit
	return "https://checkout.example/pay", nil
}

func (s *stubWallet) Transfer(context.Context, *models.NewTransfer) bool { return s.transfer }
func (s *stubWallet) ResolvePendingDeposit(context.Context, string, bool) {}
func (s *stubWallet) Snapshot() *models.WalletSnapshot                    { return s.snapshot }
func (s *stubWallet) Close()                                              {}

func (s *stubWallet) ExportCSV(w io.Writer) error {
	_, err := io.WriteString(w, "Date,User Email,Amount (USD),Note,Type,Status\n")
	return err
}

type stubVerifier struct {
	processed []*models.PaymentReturn
}

func (s *stubVerifier) Process(_ context.Context, ret *models.PaymentReturn) {
	s.processed = append(s.processed, ret)
}

type stubNotifier struct{}

func (s *stubNotifier) Subscribe(context.Context, *models.NewSubscription) error { return nil }
func (s *stubNotifier) Notify(context.Context, string, string)                   {}
func (s *stubNotifier) Live() []*models.Notification                             { return nil }

func emptySnapshot() *models.WalletSnapshot {
	return &models.WalletSnapshot{
		WalletState: models.WalletState{Balance: decimal.Zero},
	}
}

func newTestRest(wallet *stubWallet, verifier *stubVerifier) *Rest {
	rest := &Rest{
		Router:       chi.NewRouter(),
		Auth:         &stubAuth{},
		Wallet:       wallet,
		Verifier:     verifier,
		Notifier:     &stubNotifier{},
		DashboardURL: "http://console.local/dashboard",
	}
	rest.Route()
	return rest
}

func TestPaymentReturnVerifiesAndRedirects(t *testing.T) {
	v := &stubVerifier{}
	rest := newTestRest(&stubWallet{snapshot: emptySnapshot()}, v)

	req := httptest.NewRequest(http.MethodGet,
		"/payments/return?status=successful&tx_ref=tx-100&transaction_id=9001&ref=k1", nil)
	rec := httptest.NewRecorder()
	rest.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "http://console.local/dashboard", rec.Header().Get("Location"))

	require.Len(t, v.processed, 1)
	require.Equal(t, "tx-100", v.processed[0].TxRef)
	require.Equal(t, "9001", v.processed[0].TransactionID)
	require.Equal(t, "successful", v.processed[0].Status)
	require.Equal(t, "k1", v.processed[0].ClientRef)
}

func TestPaymentReturnWithoutParamsSkipsVerification(t *testing.T) {
	v := &stubVerifier{}
	rest := newTestRest(&stubWallet{snapshot: emptySnapshot()}, v)

	req := httptest.NewRequest(http.MethodGet, "/payments/return?tx_ref=tx-100", nil)
	rec := httptest.NewRecorder()
	rest.Router.ServeHTTP(rec, req)

	// the browser is still sent to the dashboard
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Empty(t, v.processed)
}

func TestWalletSnapshotCarriesStatusColors(t *testing.T) {
	w := &stubWallet{snapshot: &models.WalletSnapshot{
		WalletState: models.WalletState{
			Balance: decimal.NewFromFloat(120.50),
			Transactions: []*models.Transaction{
				{ID: "t1", Status: models.TxStatusPending},
				{ID: "t2", Status: models.TxStatusCompleted},
			},
		},
		Authoritative: true,
	}}
	rest := newTestRest(w, &stubVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallet/", nil)
	rec := httptest.NewRecorder()
	rest.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Result struct {
			Balance      string            `json:"balance"`
			StatusColors map[string]string `json:"statusColors"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "120.5", body.Result.Balance)
	require.Equal(t, map[string]string{
		models.TxStatusPending:   "yellow",
		models.TxStatusCompleted: "green",
	}, body.Result.StatusColors)
}

func TestLoginRoute(t *testing.T) {
	rest := newTestRest(&stubWallet{snapshot: emptySnapshot()}, &stubVerifier{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"admin@example.com","password":"secret"}`))
	rec := httptest.NewRecorder()
	rest.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Result models.AuthorizedAdmin `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "console-token", body.Result.AccessToken)
}

func TestLoginRejectsBadEmail(t *testing.T) {
	rest := newTestRest(&stubWallet{snapshot: emptySnapshot()}, &stubVerifier{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"broken","password":"secret"}`))
	rec := httptest.NewRecorder()
	rest.Router.ServeHTTP(rec, req)
	require.NotEqual(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid email format")
}

func TestCreateDepositRoute(t *testing.T) {
	w := &stubWallet{snapshot: emptySnapshot()}
	rest := newTestRest(w, &stubVerifier{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/deposit",
		strings.NewReader(`{"amount":"100","currency":"RWF"}`))
	rec := httptest.NewRecorder()
	rest.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Result models.DepositResponse `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "https://checkout.example/pay", body.Result.Link)

	require.NotNil(t, w.deposited)
	require.True(t, w.deposited.Amount.Equal(decimal.NewFromInt(100)))
}

func TestTransferRouteReportsOutcome(t *testing.T) {
	w := &stubWallet{snapshot: emptySnapshot(), transfer: true}
	rest := newTestRest(w, &stubVerifier{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/transfer",
		strings.NewReader(`{"userEmail":"a@b.com","amount":"50"}`))
	rec := httptest.NewRecorder()
	rest.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Result models.TransferResponse `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Result.Success)
}

func TestExportTransactionsHeaders(t *testing.T) {
	rest := newTestRest(&stubWallet{snapshot: emptySnapshot()}, &stubVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallet/transactions.csv", nil)
	rec := httptest.NewRecorder()
	rest.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	require.Contains(t, rec.Body.String(), "Amount (USD)")
}
