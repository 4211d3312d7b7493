package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/AlexZinkM/dapp-wallet/internal/model"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// AccountManager is the wallet side the operator controls: which accounts
// are exposed and whether the connection approval stands.
type AccountManager interface {
	SetAccounts(accounts []ethcommon.Address)
	Lock()
}

// WalletHandler lets the local operator drive wallet events
type WalletHandler struct {
	wallet AccountManager
	logger *zap.Logger
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(wallet AccountManager, logger *zap.Logger) (*WalletHandler, error) {
	if wallet == nil {
		return nil, errors.New("wallet is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WalletHandler{wallet: wallet, logger: logger}, nil
}

// Lock handles POST /wallet/lock
// @Summary      Lock wallet
// @Description  Revokes the connection approval; connected sessions see an empty account list and disconnect
// @Tags         wallet
// @Success      204
// @Router       /wallet/lock [post]
func (h *WalletHandler) Lock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}
	h.wallet.Lock()
	h.logger.Info("wallet locked by operator")
	w.WriteHeader(http.StatusNoContent)
}

// SetAccounts handles POST /wallet/accounts
// @Summary      Replace wallet accounts
// @Description  Replaces the exposed accounts; the first one becomes the session account
// @Tags         wallet
// @Accept       json
// @Param        request  body  model.AccountsRequest  true  "Accounts"
// @Success      204
// @Failure      400  {object}  model.ErrorResponse
// @Router       /wallet/accounts [post]
func (h *WalletHandler) SetAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.AccountsRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}
	if len(req.Accounts) == 0 {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "at least one account is required", Code: "INVALID_REQUEST"})
		return
	}

	accounts := make([]ethcommon.Address, 0, len(req.Accounts))
	for _, a := range req.Accounts {
		if !ethcommon.IsHexAddress(a) {
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: fmt.Sprintf("%q is not a hex address", a), Code: "INVALID_REQUEST"})
			return
		}
		accounts = append(accounts, ethcommon.HexToAddress(a))
	}

	h.wallet.SetAccounts(accounts)
	h.logger.Info("wallet accounts replaced", zap.Int("count", len(accounts)))
	w.WriteHeader(http.StatusNoContent)
}
