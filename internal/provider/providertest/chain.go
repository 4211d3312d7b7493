package providertest

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/AlexZinkM/dapp-wallet/internal/provider"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// Chain serves the eth_ namespace of a single in-process chain.
type Chain struct {
	ID uint64

	mu       sync.Mutex
	balances map[common.Address]*big.Int
}

// NewChain returns a chain with no balances.
func NewChain(id uint64) *Chain {
	return &Chain{ID: id, balances: make(map[common.Address]*big.Int)}
}

// SetBalance sets the wei balance of addr.
func (c *Chain) SetBalance(addr common.Address, wei *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balances[addr] = new(big.Int).Set(wei)
}

// ChainId answers eth_chainId.
func (c *Chain) ChainId() *hexutil.Big {
	return (*hexutil.Big)(new(big.Int).SetUint64(c.ID))
}

// GetBalance answers eth_getBalance.
func (c *Chain) GetBalance(addr common.Address, block string) (*hexutil.Big, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.balances[addr]; ok {
		return (*hexutil.Big)(new(big.Int).Set(b)), nil
	}
	return (*hexutil.Big)(big.NewInt(0)), nil
}

// BlockNumber answers eth_blockNumber.
func (c *Chain) BlockNumber() hexutil.Uint64 {
	return 42
}

// Dialer returns a provider.DialFunc that connects URLs to in-process chains.
// Unknown URLs fail as if the endpoint were unreachable.
func Dialer(t testing.TB, chains map[string]*Chain) provider.DialFunc {
	t.Helper()
	return func(ctx context.Context, url string) (*rpc.Client, error) {
		c, ok := chains[url]
		if !ok {
			return nil, errors.New("connection refused")
		}
		srv := rpc.NewServer()
		if err := srv.RegisterName("eth", c); err != nil {
			return nil, err
		}
		t.Cleanup(srv.Stop)
		return rpc.DialInProc(srv), nil
	}
}
