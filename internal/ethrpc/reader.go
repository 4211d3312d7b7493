// Package ethrpc reads chain state through a wallet provider.
package ethrpc

import (
	"context"
	"fmt"
	"math/big"

	"github.com/AlexZinkM/dapp-wallet/internal/network"
	"github.com/AlexZinkM/dapp-wallet/internal/provider"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Reader issues typed read calls over a Provider.
type Reader struct {
	provider provider.Provider
}

// NewReader creates a Reader for p.
func NewReader(p provider.Provider) *Reader {
	return &Reader{provider: p}
}

// ChainID returns the provider's active chain id.
func (r *Reader) ChainID(ctx context.Context) (uint64, error) {
	var raw string
	if err := r.provider.Request(ctx, provider.MethodChainID, nil, &raw); err != nil {
		return 0, err
	}
	id, err := network.ParseChainID(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to decode chain id: %w", err)
	}
	return id, nil
}

// BalanceAt returns the latest native balance of address in wei.
func (r *Reader) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	var balance hexutil.Big
	if err := r.provider.Request(ctx, provider.MethodGetBalance, []any{address.Hex(), "latest"}, &balance); err != nil {
		return nil, err
	}
	return balance.ToInt(), nil
}
