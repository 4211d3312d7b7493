// Package provider defines the wallet provider contract the session controller
// talks to, modelled on EIP-1193, and a local multi-chain implementation backed
// by go-ethereum JSON-RPC clients.
package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

// Events emitted by a provider.
const (
	EventAccountsChanged = "accountsChanged"
	EventChainChanged    = "chainChanged"
)

// JSON-RPC methods understood by the session controller.
const (
	MethodRequestAccounts = "eth_requestAccounts"
	MethodAccounts        = "eth_accounts"
	MethodChainID         = "eth_chainId"
	MethodNetVersion      = "net_version"
	MethodGetBalance      = "eth_getBalance"
	MethodSwitchChain     = "wallet_switchEthereumChain"
	MethodAddChain        = "wallet_addEthereumChain"
)

// Provider error codes (EIP-1193, EIP-1474, EIP-3326).
const (
	CodeUserRejected      = 4001
	CodeUnauthorized      = 4100
	CodeUnsupportedMethod = 4200
	CodeUnrecognizedChain = 4902
	CodeInvalidParams     = -32602
	CodeInternal          = -32603
	CodeMethodNotFound    = -32601
)

// Listener receives the JSON payload of an event.
type Listener func(payload json.RawMessage)

// ListenerID identifies a registration so exactly that listener can be removed.
type ListenerID uint64

// Provider brokers wallet requests and blockchain RPC calls.
type Provider interface {
	// Request performs a JSON-RPC style call. result may be nil when the caller
	// does not need the response.
	Request(ctx context.Context, method string, params []any, result any) error
	On(event string, fn Listener) ListenerID
	RemoveListener(event string, id ListenerID)
}

// RPCError is a provider error carrying a numeric code.
type RPCError struct {
	Code    int
	Message string
}

var _ rpc.Error = (*RPCError)(nil)

func (e *RPCError) Error() string {
	return e.Message
}

// ErrorCode implements go-ethereum's rpc.Error.
func (e *RPCError) ErrorCode() int {
	return e.Code
}

func errUserRejected() error {
	return &RPCError{Code: CodeUserRejected, Message: "User rejected the request."}
}

func errUnauthorized() error {
	return &RPCError{Code: CodeUnauthorized, Message: "The requested account has not been authorized by the user."}
}

func errUnrecognizedChain(chainID string) error {
	return &RPCError{
		Code:    CodeUnrecognizedChain,
		Message: fmt.Sprintf("Unrecognized chain ID %q. Try adding the chain using wallet_addEthereumChain first.", chainID),
	}
}

func errInvalidParams(format string, args ...any) error {
	return &RPCError{Code: CodeInvalidParams, Message: fmt.Sprintf(format, args...)}
}

func errInternal(format string, args ...any) error {
	return &RPCError{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}
