package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/frabrice/Emodocar-web/app/config"
	"github.com/frabrice/Emodocar-web/app/models"
	"github.com/frabrice/Emodocar-web/app/session"
	"github.com/frabrice/Emodocar-web/pkg/response"
)

const (
	loginPath    = "/auth/login"
	walletPath   = "/wallet"
	depositPath  = "/wallet/deposit"
	verifyPath   = "/wallet/verify"
	transferPath = "/wallet/transfer"

	vehicleSearchPath = "/vehicle/search"
	vehiclePath       = "/vehicle/"
	adminVehiclePath  = "/admin/vehicle/"
	bookingsPath      = "/admin/bookings"
)

// messages the backend uses for a dead bearer token; either one terminates
// the session globally
var sessionExpiredMessages = map[string]bool{
	"Invalid token":     true,
	"No token provided": true,
}

// Manager talks to the marketplace backend. Every authenticated call
// attaches the session's bearer token.
type Manager struct {
	Config     config.Backend
	HttpClient *http.Client
	Session    session.Service
}

func (m *Manager) Login(ctx context.Context, login *models.LoginRequest) (*models.LoginResponse, error) {
	if err := login.Validate(); err != nil {
		return nil, err
	}

	out := new(models.LoginResponse)
	if err := m.post(ctx, loginPath, nil, login, out, false); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Manager) FetchWallet(ctx context.Context, page, limit uint64) (*models.WalletResponse, error) {
	query := url.Values{}
	query.Set("page", strconv.FormatUint(page, 10))
	query.Set("limit", strconv.FormatUint(limit, 10))

	out := new(models.WalletResponse)
	if err := m.get(ctx, walletPath, query, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Manager) CreateDeposit(ctx context.Context, deposit *models.DepositRequest) (*models.DepositResponse, error) {
	out := new(models.DepositResponse)
	if err := m.post(ctx, depositPath, nil, deposit, out, true); err != nil {
		return nil, err
	}
	if out.Link == "" {
		return nil, errors.New("the backend returned no payment link")
	}
	return out, nil
}

func (m *Manager) VerifyPayment(ctx context.Context, ret *models.PaymentReturn) (*models.VerifyResponse, error) {
	query := url.Values{}
	query.Set("tx_ref", ret.TxRef)
	query.Set("status", ret.Status)
	query.Set("transaction_id", ret.TransactionID)

	out := new(models.VerifyResponse)
	if err := m.get(ctx, verifyPath, query, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Manager) Transfer(ctx context.Context, transfer *models.NewTransfer) (*models.TransferResponse, error) {
	out := new(models.TransferResponse)
	if err := m.post(ctx, transferPath, nil, transfer, out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Manager) SearchVehicles(ctx context.Context, filter *models.VehicleFilter) (*models.VehicleList, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("page", strconv.FormatUint(filter.Page, 10))
	query.Set("limit", strconv.FormatUint(filter.Limit, 10))

	out := new(models.VehicleList)
	if err := m.post(ctx, vehicleSearchPath, query, struct{}{}, out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Manager) GetVehicle(ctx context.Context, plate string) (*models.Vehicle, error) {
	if plate == "" {
		return nil, errors.New("empty plate number provided")
	}

	out := new(models.Vehicle)
	if err := m.get(ctx, vehiclePath+url.PathEscape(plate), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Manager) DeleteVehicle(ctx context.Context, plate string) error {
	if plate == "" {
		return errors.New("empty plate number provided")
	}

	return m.do(ctx, http.MethodDelete, adminVehiclePath+url.PathEscape(plate), nil, nil, nil, true)
}

func (m *Manager) ListBookings(ctx context.Context, query *models.BookingQuery) (*models.BookingList, error) {
	out := new(models.BookingList)
	if err := m.post(ctx, bookingsPath, nil, query, out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Manager) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return m.do(ctx, http.MethodGet, path, query, nil, out, true)
}

func (m *Manager) post(ctx context.Context, path string, query url.Values, body, out interface{}, auth bool) error {
	return m.do(ctx, http.MethodPost, path, query, body, out, auth)
}

// do performs one backend call: marshals the body, attaches the bearer
// token, maps error bodies to coded errors and decodes the payload.
func (m *Manager) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, auth bool) error {
	endpoint := m.Config.BasePath + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal a request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return errors.Wrap(err, "failed to create a request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+m.Session.Token())
	}

	resp, err := m.HttpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to reach the marketplace backend")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read a backend response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return m.asError(ctx, resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err = json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(err, "failed to unmarshal a backend response")
	}
	return nil
}

// asError converts an error body to a coded error. A 401 carrying one of
// the known token messages kills the session.
func (m *Manager) asError(ctx context.Context, status int, raw []byte) error {
	msg := new(models.ErrorResponse)
	_ = json.Unmarshal(raw, msg)

	if status == http.StatusUnauthorized && sessionExpiredMessages[msg.Message] {
		m.Session.Expire(ctx, msg.Message)
		return response.NewError(response.CodeUnauthorized, msg.Message)
	}

	if msg.Message != "" {
		return response.NewError(status, msg.Message)
	}
	return response.NewError(status, "the marketplace backend returned status "+strconv.Itoa(status))
}
