package main

import (
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/jwtauth"

	"github.com/frabrice/Emodocar-web/app/auth"
	"github.com/frabrice/Emodocar-web/app/backend"
	"github.com/frabrice/Emodocar-web/app/bookings"
	"github.com/frabrice/Emodocar-web/app/config"
	"github.com/frabrice/Emodocar-web/app/fleet"
	"github.com/frabrice/Emodocar-web/app/notifier"
	"github.com/frabrice/Emodocar-web/app/server"
	"github.com/frabrice/Emodocar-web/app/session"
	"github.com/frabrice/Emodocar-web/app/verifier"
	"github.com/frabrice/Emodocar-web/app/wallet"
	"github.com/frabrice/Emodocar-web/pkg/log"
	"github.com/frabrice/Emodocar-web/pkg/web"
	webware "github.com/frabrice/Emodocar-web/pkg/web/middleware"
)

const (
	maxRequestsAllowed    = 10000
	serverShutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		panic(err)
	}

	zlog := log.ConfigureLogger(cfg.Logging)
	defer func() {
		_ = zlog.Sync() // flush the logger
	}()

	notifierSvc := notifier.NewManager(cfg.Caching.NotificationTTL)

	sessionSvc := &session.Manager{Notifier: notifierSvc}

	backendSvc := &backend.Manager{
		Config: cfg.Backend,
		HttpClient: &http.Client{
			Timeout: cfg.Backend.Timeout,
		},
		Session: sessionSvc,
	}

	consoleBase := strings.TrimRight(cfg.Console.BaseURL, "/")
	walletSvc := wallet.NewManager(
		backendSvc, sessionSvc, notifierSvc, cfg.Wallet, consoleBase+server.PaymentReturnPath,
	)
	defer walletSvc.Close()

	verifierSvc := verifier.NewManager(
		backendSvc, walletSvc, notifierSvc, cfg.Wallet.VerifyCooldown, cfg.Secrets.Token,
	)
	fleetSvc := fleet.NewManager(backendSvc, notifierSvc, cfg.Caching.VehicleTTL)
	bookingsSvc := bookings.NewManager(backendSvc)

	authSvc := &auth.Manager{
		JWTAuth: jwtauth.New("HS256", []byte(cfg.Secrets.Token), nil),
		Backend: backendSvc,
		Session: sessionSvc,
	}

	router := newRouter()
	rest := server.Rest{
		Router:       router,
		Auth:         authSvc,
		Wallet:       walletSvc,
		Verifier:     verifierSvc,
		Fleet:        fleetSvc,
		Bookings:     bookingsSvc,
		Notifier:     notifierSvc,
		DashboardURL: consoleBase + cfg.Console.DashboardPath,
	}
	rest.Route() // handle http requests

	// start the notifier, an http server and remember to shut it down
	srv := &http.Server{
		Addr:    cfg.RestAddr,
		Handler: router,
	}
	go notifierSvc.Start()
	go web.Start(srv)
	defer web.Shutdown(srv, serverShutdownTimeout)

	// wait for the program exit
	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
	<-exit
}

func newRouter() chi.Router {
	router := chi.NewRouter()

	// add middleware
	router.Use(
		middleware.Throttle(maxRequestsAllowed),
		middleware.RealIP,
		webware.ZapLogger,
		webware.Recoverer,
	)

	return router
}
