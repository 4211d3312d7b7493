package model

import "github.com/AlexZinkM/dapp-wallet/internal/network"

// SessionResponse represents response for GET /session
type SessionResponse struct {
	Account        *string `json:"account"`
	ChainID        *uint64 `json:"chainId"`
	NetworkName    string  `json:"networkName"`
	Balance        string  `json:"balance"`
	DisplayBalance string  `json:"displayBalance"`
	Currency       string  `json:"currency"`
	IsConnecting   bool    `json:"isConnecting"`
	Error          string  `json:"error,omitempty"`
	Features       Flags   `json:"features"`
	// SwitchTarget is the chain the switch helper offers, when enabled.
	SwitchTarget *SwitchTarget `json:"switchTarget,omitempty"`
}

// Flags mirrors the enabled feature flags.
type Flags struct {
	ChainSwitch bool `json:"chainSwitch"`
	DarkMode    bool `json:"darkMode"`
}

// SwitchTarget describes the chain offered by the switch helper.
type SwitchTarget struct {
	ChainID string `json:"chainId"`
	Name    string `json:"name"`
	// Active is true when the wallet is already on this chain.
	Active bool `json:"active"`
}

// SwitchRequest represents request for POST /network/switch.
// Metadata is optional; known chains are filled in from the built-in registry.
type SwitchRequest struct {
	ChainID  string            `json:"chainId"`
	Metadata *network.Metadata `json:"metadata,omitempty"`
}

// AccountsRequest represents request for POST /wallet/accounts.
type AccountsRequest struct {
	Accounts []string `json:"accounts"`
}
