// Package session implements the wallet session controller: it connects to a
// wallet provider, tracks account, chain and balance, and follows the
// provider's accountsChanged and chainChanged events.
//
// State lives in a Store. Every store mutation happens under the controller
// lock, so subscribers observe changes in the order they were applied and
// never see an account without a chain id.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/AlexZinkM/dapp-wallet/internal/common"
	"github.com/AlexZinkM/dapp-wallet/internal/ethrpc"
	"github.com/AlexZinkM/dapp-wallet/internal/metrics"
	"github.com/AlexZinkM/dapp-wallet/internal/network"
	"github.com/AlexZinkM/dapp-wallet/internal/provider"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

const defaultRequestTimeout = 15 * time.Second

// Features toggles optional behaviour.
type Features struct {
	ChainSwitch bool `json:"chainSwitch"`
	DarkMode    bool `json:"darkMode"`
}

// Config holds the dependencies of a Controller.
type Config struct {
	// Provider is the wallet; nil means no wallet is present.
	Provider provider.Provider
	Store    *Store
	Logger   *zap.Logger
	Metrics  *metrics.Collector
	Features Features
	// RequestTimeout bounds balance refreshes triggered by provider events.
	RequestTimeout time.Duration
}

type listenerReg struct {
	event string
	id    provider.ListenerID
}

// Controller drives a single wallet session.
type Controller struct {
	provider provider.Provider
	reader   *ethrpc.Reader
	store    *Store
	logger   *zap.Logger
	metrics  *metrics.Collector
	features Features
	timeout  time.Duration

	mu         sync.Mutex
	generation uint64
	connecting int
	listeners  []listenerReg
}

// NewController creates a disconnected controller.
func NewController(cfg Config) *Controller {
	c := &Controller{
		store:    cfg.Store,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		features: cfg.Features,
		timeout:  cfg.RequestTimeout,
	}
	if c.store == nil {
		c.store = NewStore()
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.timeout <= 0 {
		c.timeout = defaultRequestTimeout
	}
	if cfg.Provider != nil {
		c.provider = &instrumented{Provider: cfg.Provider, metrics: cfg.Metrics}
		c.reader = ethrpc.NewReader(c.provider)
	}
	return c
}

// Store returns the observable session state.
func (c *Controller) Store() *Store {
	return c.store
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot() State {
	return c.store.Snapshot()
}

// Features returns the enabled feature flags.
func (c *Controller) Features() Features {
	return c.features
}

// Connect requests account access, reads chain id and balance of the first
// account, subscribes to provider events and commits the session.
// On failure the previous session is left as it was and State.Error is set.
func (c *Controller) Connect(ctx context.Context) error {
	c.mu.Lock()
	gen := c.generation
	c.connecting++
	c.store.update(func(s *State) {
		s.Error = ""
		s.IsConnecting = true
	})
	c.mu.Unlock()

	account, chainID, balance, err := c.open(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.connecting--

	if err == nil && gen != c.generation {
		err = ErrConnectAborted
	}
	c.metrics.RecordConnect(outcome(err))
	if err != nil {
		c.logger.Error("error connecting wallet", zap.Error(err))
		c.store.update(func(s *State) {
			s.IsConnecting = c.connecting > 0
			if !errors.Is(err, ErrConnectAborted) {
				s.Error = err.Error()
			}
		})
		return err
	}

	// Reconnecting must not leave the previous registrations behind.
	c.removeListenersLocked()
	c.addListenersLocked()

	c.store.update(func(s *State) {
		s.Account = &account
		s.ChainID = &chainID
		s.Balance = common.WeiToEther(balance)
		s.IsConnecting = c.connecting > 0
	})
	c.metrics.SetConnected(true)
	c.logger.Info("wallet connected",
		zap.String("account", account.Hex()),
		zap.Uint64("chain_id", chainID),
		zap.String("network", network.Label(chainID)))
	return nil
}

// open performs the provider calls of Connect in order: accounts, chain, balance.
func (c *Controller) open(ctx context.Context) (ethcommon.Address, uint64, *big.Int, error) {
	if c.provider == nil {
		return ethcommon.Address{}, 0, nil, ErrProviderUnavailable
	}

	var accounts []string
	if err := c.provider.Request(ctx, provider.MethodRequestAccounts, nil, &accounts); err != nil {
		return ethcommon.Address{}, 0, nil, Classify(err)
	}
	if len(accounts) == 0 {
		return ethcommon.Address{}, 0, nil, Classify(errors.New("wallet returned no accounts"))
	}
	if !ethcommon.IsHexAddress(accounts[0]) {
		return ethcommon.Address{}, 0, nil, Classify(errors.New("wallet returned an invalid address"))
	}
	account := ethcommon.HexToAddress(accounts[0])

	chainID, err := c.reader.ChainID(ctx)
	if err != nil {
		return ethcommon.Address{}, 0, nil, Classify(err)
	}
	balance, err := c.reader.BalanceAt(ctx, account)
	if err != nil {
		return ethcommon.Address{}, 0, nil, Classify(err)
	}
	return account, chainID, balance, nil
}

// Disconnect clears the session and removes the provider listeners.
// Calling it while disconnected is a no-op. A Connect in flight is aborted.
func (c *Controller) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.removeListenersLocked()
	before := c.store.Snapshot()
	c.store.update(func(s *State) {
		s.Account = nil
		s.ChainID = nil
		s.Balance = ""
	})
	c.metrics.SetConnected(false)
	if before.Connected() {
		c.logger.Info("wallet disconnected", zap.String("account", before.Account.Hex()))
	}
}

// OnAccountsChanged follows the wallet's account list: empty means
// disconnect, otherwise the first account is adopted and its balance refreshed.
func (c *Controller) OnAccountsChanged(accounts []string) {
	if len(accounts) == 0 {
		c.Disconnect()
		return
	}
	if !ethcommon.IsHexAddress(accounts[0]) {
		c.logger.Warn("ignoring invalid account from wallet", zap.String("account", accounts[0]))
		return
	}
	account := ethcommon.HexToAddress(accounts[0])

	c.mu.Lock()
	if !c.store.Snapshot().Connected() {
		c.mu.Unlock()
		return
	}
	c.store.update(func(s *State) { s.Account = &account })
	c.mu.Unlock()

	c.logger.Info("account changed", zap.String("account", account.Hex()))
	c.refreshWithTimeout(account)
}

// OnChainChanged records the new chain id and refreshes the balance of the
// active account.
func (c *Controller) OnChainChanged(chainIDHex string) {
	chainID, err := network.ParseChainID(chainIDHex)
	if err != nil {
		c.logger.Warn("ignoring malformed chain id from wallet", zap.String("chain_id", chainIDHex), zap.Error(err))
		return
	}

	c.mu.Lock()
	snap := c.store.Snapshot()
	if !snap.Connected() {
		c.mu.Unlock()
		return
	}
	c.store.update(func(s *State) { s.ChainID = &chainID })
	account := *snap.Account
	c.mu.Unlock()

	c.logger.Info("chain changed",
		zap.Uint64("chain_id", chainID),
		zap.String("network", network.Label(chainID)))
	c.refreshWithTimeout(account)
}

// RefreshBalance re-reads the balance of address. Failures are logged and
// never surface in State.Error. A result for an account that is no longer
// active is dropped.
func (c *Controller) RefreshBalance(ctx context.Context, address ethcommon.Address) {
	if c.provider == nil {
		return
	}

	wei, err := c.reader.BalanceAt(ctx, address)
	c.metrics.RecordBalanceRefresh(err == nil)
	if err != nil {
		c.logger.Warn("error updating balance", zap.String("account", address.Hex()), zap.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.store.Snapshot()
	if snap.Account == nil || *snap.Account != address {
		c.logger.Debug("dropping balance for inactive account", zap.String("account", address.Hex()))
		return
	}
	c.store.update(func(s *State) { s.Balance = common.WeiToEther(wei) })
}

// RequestNetworkSwitch asks the wallet to switch to targetChainHex. When the
// wallet does not know the chain and meta is given, exactly one
// wallet_addEthereumChain follow-up is sent and its outcome reported.
func (c *Controller) RequestNetworkSwitch(ctx context.Context, targetChainHex string, meta *network.Metadata) error {
	err := c.requestNetworkSwitch(ctx, targetChainHex, meta)
	c.metrics.RecordSwitch(outcome(err))
	if err != nil {
		c.logger.Error("error switching network",
			zap.String("target_chain", targetChainHex),
			zap.Error(err))
		if !errors.Is(err, ErrFeatureDisabled) {
			c.setError(err)
		}
	}
	return err
}

func (c *Controller) requestNetworkSwitch(ctx context.Context, targetChainHex string, meta *network.Metadata) error {
	if !c.features.ChainSwitch {
		return ErrFeatureDisabled
	}
	if c.provider == nil {
		return ErrProviderUnavailable
	}

	params := []any{map[string]string{"chainId": targetChainHex}}
	err := Classify(c.provider.Request(ctx, provider.MethodSwitchChain, params, nil))
	if err == nil || !errors.Is(err, ErrUnknownChain) || meta == nil {
		return err
	}

	c.logger.Info("chain unknown to wallet, requesting add",
		zap.String("chain_id", meta.ChainID),
		zap.String("name", meta.ChainName))
	return Classify(c.provider.Request(ctx, provider.MethodAddChain, []any{meta}, nil))
}

func (c *Controller) setError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.update(func(s *State) { s.Error = err.Error() })
}

func (c *Controller) refreshWithTimeout(account ethcommon.Address) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	c.RefreshBalance(ctx, account)
}

func (c *Controller) addListenersLocked() {
	c.listeners = append(c.listeners,
		listenerReg{
			event: provider.EventAccountsChanged,
			id:    c.provider.On(provider.EventAccountsChanged, c.handleAccountsChanged),
		},
		listenerReg{
			event: provider.EventChainChanged,
			id:    c.provider.On(provider.EventChainChanged, c.handleChainChanged),
		},
	)
}

func (c *Controller) removeListenersLocked() {
	if c.provider == nil {
		return
	}
	for _, l := range c.listeners {
		c.provider.RemoveListener(l.event, l.id)
	}
	c.listeners = nil
}

func (c *Controller) handleAccountsChanged(payload json.RawMessage) {
	var accounts []string
	if err := json.Unmarshal(payload, &accounts); err != nil {
		c.logger.Warn("malformed accountsChanged payload", zap.Error(err))
		return
	}
	c.OnAccountsChanged(accounts)
}

func (c *Controller) handleChainChanged(payload json.RawMessage) {
	var chainIDHex string
	if err := json.Unmarshal(payload, &chainIDHex); err != nil {
		c.logger.Warn("malformed chainChanged payload", zap.Error(err))
		return
	}
	c.OnChainChanged(chainIDHex)
}

// instrumented times provider requests.
type instrumented struct {
	provider.Provider
	metrics *metrics.Collector
}

func (p *instrumented) Request(ctx context.Context, method string, params []any, result any) error {
	start := time.Now()
	err := p.Provider.Request(ctx, method, params, result)
	p.metrics.ObserveRequest(method, time.Since(start))
	return err
}
