package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/AlexZinkM/dapp-wallet/internal/model"
	"github.com/AlexZinkM/dapp-wallet/internal/network"
	"github.com/AlexZinkM/dapp-wallet/internal/session"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	qrSize       = 256
	maxBodyBytes = 64 << 10
)

// Options configures a SessionHandler.
type Options struct {
	// SwitchTargetChainID is the chain offered by the switch helper.
	SwitchTargetChainID uint64
	RequestTimeout      time.Duration
}

// SessionHandler exposes the wallet session over HTTP
type SessionHandler struct {
	controller *session.Controller
	opts       Options
	logger     *zap.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(controller *session.Controller, opts Options, logger *zap.Logger) (*SessionHandler, error) {
	if controller == nil {
		return nil, errors.New("session controller is required")
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{controller: controller, opts: opts, logger: logger}, nil
}

// GetSession handles GET /session
// @Summary      Get wallet session
// @Description  Returns account, network, balance and connection flags
// @Tags         session
// @Produce      json
// @Success      200  {object}  model.SessionResponse
// @Router       /session [get]
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.response(h.controller.Snapshot()))
}

// Connect handles POST /session/connect
// @Summary      Connect wallet
// @Description  Requests account access from the wallet and loads network and balance
// @Tags         session
// @Produce      json
// @Success      200  {object}  model.SessionResponse
// @Failure      403  {object}  model.ErrorResponse
// @Failure      503  {object}  model.ErrorResponse
// @Router       /session/connect [post]
func (h *SessionHandler) Connect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.opts.RequestTimeout)
	defer cancel()

	if err := h.controller.Connect(ctx); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.response(h.controller.Snapshot()))
}

// Disconnect handles POST /session/disconnect
// @Summary      Disconnect wallet
// @Description  Clears the session and stops following wallet events
// @Tags         session
// @Produce      json
// @Success      200  {object}  model.SessionResponse
// @Router       /session/disconnect [post]
func (h *SessionHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}
	h.controller.Disconnect()
	writeJSON(w, http.StatusOK, h.response(h.controller.Snapshot()))
}

// SwitchNetwork handles POST /network/switch
// @Summary      Switch network
// @Description  Asks the wallet to switch chain, adding it first when the wallet does not know it
// @Tags         network
// @Accept       json
// @Produce      json
// @Param        request  body      model.SwitchRequest  true  "Target chain"
// @Success      200      {object}  model.SessionResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Router       /network/switch [post]
func (h *SessionHandler) SwitchNetwork(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.SwitchRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}
	if req.ChainID == "" {
		req.ChainID = network.FormatChainID(h.opts.SwitchTargetChainID)
	}
	chainID, err := network.ParseChainID(req.ChainID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}

	meta := req.Metadata
	if meta == nil {
		if known, ok := network.Known(chainID); ok {
			meta = &known
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.opts.RequestTimeout)
	defer cancel()

	if err := h.controller.RequestNetworkSwitch(ctx, network.FormatChainID(chainID), meta); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.response(h.controller.Snapshot()))
}

// QRCode handles GET /session/qr
// @Summary      Account QR code
// @Description  Returns a PNG QR code of the connected address
// @Tags         session
// @Produce      png
// @Success      200
// @Failure      404  {object}  model.ErrorResponse
// @Router       /session/qr [get]
func (h *SessionHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	s := h.controller.Snapshot()
	if !s.Connected() {
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: "wallet not connected", Code: "NOT_CONNECTED"})
		return
	}

	png, err := qrcode.Encode(s.Account.Hex(), qrcode.Medium, qrSize)
	if err != nil {
		h.logger.Error("failed to generate QR code", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *SessionHandler) response(s session.State) model.SessionResponse {
	features := h.controller.Features()
	resp := model.SessionResponse{
		ChainID:        s.ChainID,
		NetworkName:    s.NetworkName,
		Balance:        s.Balance,
		DisplayBalance: s.DisplayBalance(),
		Currency:       s.CurrencySymbol(),
		IsConnecting:   s.IsConnecting,
		Error:          s.Error,
		Features:       model.Flags{ChainSwitch: features.ChainSwitch, DarkMode: features.DarkMode},
	}
	if s.Account != nil {
		addr := s.Account.Hex()
		resp.Account = &addr
	}
	if features.ChainSwitch && h.opts.SwitchTargetChainID != 0 {
		resp.SwitchTarget = &model.SwitchTarget{
			ChainID: network.FormatChainID(h.opts.SwitchTargetChainID),
			Name:    network.Label(h.opts.SwitchTargetChainID),
			Active:  s.ChainID != nil && *s.ChainID == h.opts.SwitchTargetChainID,
		}
	}
	return resp
}

// statusFor maps session errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, session.ErrUserRejected):
		return http.StatusForbidden
	case errors.Is(err, session.ErrFeatureDisabled):
		return http.StatusNotFound
	case errors.Is(err, session.ErrUnknownChain):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrConnectAborted):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), model.ErrorResponse{Error: err.Error(), Code: session.Code(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
