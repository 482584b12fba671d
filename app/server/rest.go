package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/frabrice/Emodocar-web/app/auth"
	"github.com/frabrice/Emodocar-web/app/bookings"
	"github.com/frabrice/Emodocar-web/app/fleet"
	"github.com/frabrice/Emodocar-web/app/models"
	"github.com/frabrice/Emodocar-web/app/notifier"
	"github.com/frabrice/Emodocar-web/app/verifier"
	"github.com/frabrice/Emodocar-web/app/wallet"
	"github.com/frabrice/Emodocar-web/pkg/web"
)

const (
	apiPrefix = "/api/v1"

	// PaymentReturnPath is where the payment gateway redirects the admin's
	// browser after checkout.
	PaymentReturnPath = "/payments/return"
)

// Rest is a gateway for incoming HTTP requests
type Rest struct {
	Router       chi.Router
	Auth         auth.Service
	Wallet       wallet.Service
	Verifier     verifier.Service
	Fleet        fleet.Service
	Bookings     bookings.Service
	Notifier     notifier.Service
	DashboardURL string
}

func (s *Rest) Route() {
	s.Router.Route(apiPrefix, func(r chi.Router) {
		// public routes
		r.Post("/auth/login", s.login)

		// private routes
		r.Group(func(r chi.Router) {
			r.Use(s.Auth.GetJWTVerifier(), s.Auth.GetJWTAuthenticator())

			r.Get("/subscribe", s.subscribe)
			r.Get("/notifications", s.notifications)

			r.Route("/wallet", func(r chi.Router) {
				r.Get("/", s.walletSnapshot)
				r.Post("/refresh", s.refreshWallet)
				r.Post("/deposit", s.createDeposit)
				r.Post("/transfer", s.transferFunds)
				r.Get("/transactions.csv", s.exportTransactions)
			})

			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", s.listVehicles)
				r.Get("/{plate}", s.getVehicle)
				r.Delete("/{plate}", s.deleteVehicle)
			})

			r.Post("/bookings", s.listBookings)
		})
	})

	// the gateway-facing return route stays outside the api prefix: its
	// address is baked into every deposit's redirect url
	s.Router.Get(PaymentReturnPath, s.paymentReturn)
}

func (s *Rest) login(w http.ResponseWriter, r *http.Request) {
	in := new(models.LoginRequest)
	if err := render.DecodeJSON(r.Body, in); err != nil {
		web.RenderError(w, r, err)
		return
	}

	out, err := s.Auth.Login(r.Context(), in)
	if err != nil {
		web.RenderError(w, r, err)
		return
	}

	web.RenderResult(w, r, out)
}

type walletView struct {
	*models.WalletSnapshot
	StatusColors map[string]string `json:"statusColors"`
}

func (s *Rest) walletSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot := s.Wallet.Snapshot()

	colors := make(map[string]string)
	for _, t := range snapshot.Transactions {
		colors[t.Status] = models.StatusColor(t.Status)
	}

	web.RenderResult(w, r, &walletView{WalletSnapshot: snapshot, StatusColors: colors})
}

type refreshRequest struct {
	Page  uint64 `json:"page"`
	Limit uint64 `json:"limit"`
}

func (s *Rest) refreshWallet(w http.ResponseWriter, r *http.Request) {
	in := new(refreshRequest)
	if err := render.DecodeJSON(r.Body, in); err != nil {
		web.RenderError(w, r, err)
		return
	}

	s.Wallet.Fetch(r.Context(), in.Page, in.Limit)
	web.RenderResult(w, r, s.Wallet.Snapshot())
}

func (s *Rest) createDeposit(w http.ResponseWriter, r *http.Request) {
	in := new(models.NewDeposit)
	if err := render.DecodeJSON(r.Body, in); err != nil {
		web.RenderError(w, r, err)
		return
	}

	link, err := s.Wallet.Deposit(r.Context(), in)
	if err != nil {
		web.RenderError(w, r, err)
		return
	}

	web.RenderResult(w, r, &models.DepositResponse{Link: link})
}

func (s *Rest) transferFunds(w http.ResponseWriter, r *http.Request) {
	in := new(models.NewTransfer)
	if err := render.DecodeJSON(r.Body, in); err != nil {
		web.RenderError(w, r, err)
		return
	}

	ok := s.Wallet.Transfer(r.Context(), in)
	web.RenderResult(w, r, &models.TransferResponse{Success: ok})
}

func (s *Rest) exportTransactions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="emodocar_transactions.csv"`)
	if err := s.Wallet.ExportCSV(w); err != nil {
		web.RenderError(w, r, err)
	}
}

func (s *Rest) listVehicles(w http.ResponseWriter, r *http.Request) {
	filter := &models.VehicleFilter{Limit: 10}

	if q := r.URL.Query().Get("page"); q != "" {
		filter.Page, _ = strconv.ParseUint(q, 10, 64)
	}
	if q := r.URL.Query().Get("limit"); q != "" {
		filter.Limit, _ = strconv.ParseUint(q, 10, 64)
	}

	out, err := s.Fleet.Search(r.Context(), filter)
	if err != nil {
		web.RenderError(w, r, err)
		return
	}

	web.RenderResult(w, r, out)
}

func (s *Rest) getVehicle(w http.ResponseWriter, r *http.Request) {
	out, err := s.Fleet.Get(r.Context(), chi.URLParam(r, "plate"))
	if err != nil {
		web.RenderError(w, r, err)
		return
	}

	web.RenderResult(w, r, out)
}

func (s *Rest) deleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := s.Fleet.Delete(r.Context(), chi.URLParam(r, "plate")); err != nil {
		web.RenderError(w, r, err)
		return
	}

	web.RenderResult(w, r, map[string]bool{"deleted": true})
}

func (s *Rest) listBookings(w http.ResponseWriter, r *http.Request) {
	in := new(models.BookingFilter)
	if err := render.DecodeJSON(r.Body, in); err != nil {
		web.RenderError(w, r, err)
		return
	}

	out, err := s.Bookings.List(r.Context(), in)
	if err != nil {
		web.RenderError(w, r, err)
		return
	}

	web.RenderResult(w, r, out)
}

func (s *Rest) subscribe(w http.ResponseWriter, r *http.Request) {
	if err := s.Notifier.Subscribe(r.Context(), &models.NewSubscription{
		ResponseWriter: w,
		Request:        r,
	}); err != nil {
		web.RenderError(w, r, err)
	}
}

func (s *Rest) notifications(w http.ResponseWriter, r *http.Request) {
	web.RenderResult(w, r, s.Notifier.Live())
}

// paymentReturn consumes the gateway's query parameters and sends the
// browser on to the dashboard with the parameters stripped, so a reload or
// back-navigation cannot re-trigger verification.
func (s *Rest) paymentReturn(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	ret := &models.PaymentReturn{
		Status:        query.Get("status"),
		TxRef:         query.Get("tx_ref"),
		TransactionID: query.Get("transaction_id"),
		ClientRef:     query.Get("ref"),
	}

	if ret.Complete() {
		s.Verifier.Process(r.Context(), ret)
	}

	http.Redirect(w, r, s.DashboardURL, http.StatusSeeOther)
}
