// Package network holds chain identifiers, display labels and the
// add-chain metadata offered to a wallet provider.
package network

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	MainnetChainID         uint64 = 1
	SepoliaChainID         uint64 = 11155111
	UnichainSepoliaChainID uint64 = 1301

	defaultCurrencySymbol = "ETH"
)

// Currency describes a chain's native currency (EIP-3085 nativeCurrency).
type Currency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// Metadata is the wallet_addEthereumChain payload for a chain.
type Metadata struct {
	ChainID           string   `json:"chainId"`
	ChainName         string   `json:"chainName"`
	NativeCurrency    Currency `json:"nativeCurrency"`
	RPCURLs           []string `json:"rpcUrls"`
	BlockExplorerURLs []string `json:"blockExplorerUrls,omitempty"`
}

// ID returns the numeric chain id carried by the metadata.
func (m Metadata) ID() (uint64, error) {
	return ParseChainID(m.ChainID)
}

// Validate checks the fields a provider needs to register the chain.
func (m Metadata) Validate() error {
	if _, err := m.ID(); err != nil {
		return err
	}
	if strings.TrimSpace(m.ChainName) == "" {
		return fmt.Errorf("chainName is required")
	}
	if len(m.RPCURLs) == 0 {
		return fmt.Errorf("at least one rpc url is required")
	}
	if m.NativeCurrency.Symbol == "" {
		return fmt.Errorf("nativeCurrency.symbol is required")
	}
	return nil
}

var ether = Currency{Name: "Ether", Symbol: defaultCurrencySymbol, Decimals: 18}

var known = map[uint64]Metadata{
	MainnetChainID: {
		ChainID:           FormatChainID(MainnetChainID),
		ChainName:         "Ethereum Mainnet",
		NativeCurrency:    ether,
		RPCURLs:           []string{"https://ethereum-rpc.publicnode.com"},
		BlockExplorerURLs: []string{"https://etherscan.io"},
	},
	SepoliaChainID: {
		ChainID:           FormatChainID(SepoliaChainID),
		ChainName:         "Sepolia Testnet",
		NativeCurrency:    Currency{Name: "Sepolia Ether", Symbol: defaultCurrencySymbol, Decimals: 18},
		RPCURLs:           []string{"https://ethereum-sepolia-rpc.publicnode.com"},
		BlockExplorerURLs: []string{"https://sepolia.etherscan.io"},
	},
	UnichainSepoliaChainID: {
		ChainID:           FormatChainID(UnichainSepoliaChainID),
		ChainName:         "Unichain Sepolia",
		NativeCurrency:    ether,
		RPCURLs:           []string{"https://sepolia.unichain.org"},
		BlockExplorerURLs: []string{"https://sepolia.uniscan.xyz"},
	},
}

// Label returns the display name for a chain id.
func Label(chainID uint64) string {
	switch chainID {
	case MainnetChainID:
		return "Ethereum Mainnet"
	case SepoliaChainID:
		return "Sepolia Testnet"
	case UnichainSepoliaChainID:
		return "Unichain Sepolia"
	default:
		return fmt.Sprintf("Chain ID: %d", chainID)
	}
}

// LabelOf is Label for an optional chain id; nil yields "".
func LabelOf(chainID *uint64) string {
	if chainID == nil {
		return ""
	}
	return Label(*chainID)
}

// Known returns the built-in add-chain metadata for a chain id.
func Known(chainID uint64) (Metadata, bool) {
	m, ok := known[chainID]
	if !ok {
		return Metadata{}, false
	}
	m.RPCURLs = append([]string(nil), m.RPCURLs...)
	m.BlockExplorerURLs = append([]string(nil), m.BlockExplorerURLs...)
	return m, true
}

// CurrencySymbol returns the native currency symbol, "ETH" for unknown chains.
func CurrencySymbol(chainID uint64) string {
	if m, ok := known[chainID]; ok {
		return m.NativeCurrency.Symbol
	}
	return defaultCurrencySymbol
}

// ParseChainID parses a chain id given as 0x-prefixed hex or as a decimal string.
func ParseChainID(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		// hexutil rejects leading zeros, which some wallets emit
		id, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid chain id %q: %w", s, err)
		}
		return id, nil
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chain id %q: %w", s, err)
	}
	return id, nil
}

// FormatChainID renders a chain id as the 0x-prefixed hex used on the wire.
func FormatChainID(chainID uint64) string {
	return hexutil.EncodeUint64(chainID)
}
