package session

import (
	"errors"
	"fmt"

	"github.com/AlexZinkM/dapp-wallet/internal/provider"

	"github.com/ethereum/go-ethereum/rpc"
)

var (
	ErrProviderUnavailable = errors.New("Please install MetaMask or another Ethereum wallet")
	ErrUserRejected        = errors.New("request rejected by user")
	ErrUnknownChain        = errors.New("chain not registered in wallet")
	ErrRequestFailed       = errors.New("wallet request failed")
	ErrFeatureDisabled     = errors.New("network switching is disabled")
	// ErrConnectAborted is returned by Connect when Disconnect ran while it was in flight.
	ErrConnectAborted = errors.New("connect aborted by disconnect")
)

// Classify maps a provider failure onto the session error taxonomy.
// The returned error matches both the taxonomy sentinel and the cause.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrProviderUnavailable, ErrUserRejected, ErrUnknownChain, ErrRequestFailed, ErrFeatureDisabled, ErrConnectAborted} {
		if errors.Is(err, known) {
			return err
		}
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case provider.CodeUserRejected:
			return fmt.Errorf("%w: %w", ErrUserRejected, err)
		case provider.CodeUnrecognizedChain:
			return fmt.Errorf("%w: %w", ErrUnknownChain, err)
		}
	}
	return fmt.Errorf("%w: %w", ErrRequestFailed, err)
}

// Code returns a stable identifier for an error, used by the HTTP layer.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrProviderUnavailable):
		return "PROVIDER_UNAVAILABLE"
	case errors.Is(err, ErrUserRejected):
		return "USER_REJECTED"
	case errors.Is(err, ErrUnknownChain):
		return "UNKNOWN_CHAIN"
	case errors.Is(err, ErrFeatureDisabled):
		return "FEATURE_DISABLED"
	case errors.Is(err, ErrConnectAborted):
		return "CONNECT_ABORTED"
	default:
		return "REQUEST_FAILED"
	}
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	switch Code(err) {
	case "PROVIDER_UNAVAILABLE":
		return "provider_unavailable"
	case "USER_REJECTED":
		return "user_rejected"
	case "UNKNOWN_CHAIN":
		return "unknown_chain"
	case "FEATURE_DISABLED":
		return "disabled"
	case "CONNECT_ABORTED":
		return "aborted"
	default:
		return "request_failed"
	}
}
