package session

import (
	"fmt"

	"github.com/AlexZinkM/dapp-wallet/internal/common"
	"github.com/AlexZinkM/dapp-wallet/internal/network"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// State is the view state of a wallet session.
type State struct {
	Account      *ethcommon.Address `json:"account"`
	Balance      string             `json:"balance"`
	ChainID      *uint64            `json:"chainId"`
	NetworkName  string             `json:"networkName"`
	IsConnecting bool               `json:"isConnecting"`
	Error        string             `json:"error,omitempty"`
}

// Connected reports whether an account is set.
func (s State) Connected() bool {
	return s.Account != nil
}

// CurrencySymbol returns the native currency symbol of the current chain.
func (s State) CurrencySymbol() string {
	if s.ChainID == nil {
		return network.CurrencySymbol(0)
	}
	return network.CurrencySymbol(*s.ChainID)
}

// DisplayBalance renders the balance with 4 decimals and the currency suffix,
// "Loading..." while connected without a balance, and "" when disconnected.
func (s State) DisplayBalance() string {
	if !s.Connected() {
		return ""
	}
	if s.Balance == "" {
		return "Loading..."
	}
	fixed, err := common.FormatFixed(s.Balance, common.DisplayDecimal)
	if err != nil {
		return fmt.Sprintf("%s %s", s.Balance, s.CurrencySymbol())
	}
	return fmt.Sprintf("%s %s", fixed, s.CurrencySymbol())
}

func (s State) clone() State {
	out := s
	if s.Account != nil {
		a := *s.Account
		out.Account = &a
	}
	if s.ChainID != nil {
		id := *s.ChainID
		out.ChainID = &id
	}
	return out
}

func (s State) equal(o State) bool {
	if (s.Account == nil) != (o.Account == nil) || (s.Account != nil && *s.Account != *o.Account) {
		return false
	}
	if (s.ChainID == nil) != (o.ChainID == nil) || (s.ChainID != nil && *s.ChainID != *o.ChainID) {
		return false
	}
	return s.Balance == o.Balance &&
		s.NetworkName == o.NetworkName &&
		s.IsConnecting == o.IsConnecting &&
		s.Error == o.Error
}
