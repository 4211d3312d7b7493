package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/AlexZinkM/dapp-wallet/internal/network"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// DialFunc opens a JSON-RPC client for a chain endpoint.
type DialFunc func(ctx context.Context, url string) (*rpc.Client, error)

// Config holds the dependencies of a Wallet.
type Config struct {
	Accounts []common.Address
	Approver Approver
	Dial     DialFunc
	Logger   *zap.Logger
}

type chainConn struct {
	meta   network.Metadata
	client *ethclient.Client
}

type registration struct {
	id ListenerID
	fn Listener
}

// Wallet is a local wallet provider. It exposes a fixed set of accounts
// after the user approves a connection, and serves chain reads from
// go-ethereum clients for every registered chain.
type Wallet struct {
	mu        sync.Mutex
	accounts  []common.Address
	approved  bool
	chains    map[uint64]*chainConn
	active    uint64
	hasActive bool

	listeners map[string][]registration
	nextID    ListenerID

	approver Approver
	dial     DialFunc
	logger   *zap.Logger
}

// NewWallet creates a wallet with no chains registered.
func NewWallet(cfg Config) *Wallet {
	w := &Wallet{
		accounts:  append([]common.Address(nil), cfg.Accounts...),
		chains:    make(map[uint64]*chainConn),
		listeners: make(map[string][]registration),
		approver:  cfg.Approver,
		dial:      cfg.Dial,
		logger:    cfg.Logger,
	}
	if w.approver == nil {
		w.approver = AutoApprove
	}
	if w.dial == nil {
		w.dial = rpc.DialContext
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	return w
}

// ConnectChain dials url, identifies the chain behind it and registers it.
// The first chain registered becomes active.
func (w *Wallet) ConnectChain(ctx context.Context, url string) (uint64, error) {
	client, chainID, err := w.open(ctx, url)
	if err != nil {
		return 0, err
	}

	meta, ok := network.Known(chainID)
	if !ok {
		meta = network.Metadata{
			ChainID:        network.FormatChainID(chainID),
			ChainName:      network.Label(chainID),
			NativeCurrency: network.Currency{Name: "Ether", Symbol: network.CurrencySymbol(chainID), Decimals: 18},
		}
	}
	meta.RPCURLs = []string{url}

	w.register(chainID, meta, client)
	w.logger.Info("chain registered",
		zap.Uint64("chain_id", chainID),
		zap.String("name", meta.ChainName),
		zap.String("rpc_url", url))
	return chainID, nil
}

// ChainIDs returns the registered chain ids in ascending order.
func (w *Wallet) ChainIDs() []uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	ids := make([]uint64, 0, len(w.chains))
	for id := range w.chains {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SetAccounts replaces the wallet accounts and notifies listeners when connected.
func (w *Wallet) SetAccounts(accounts []common.Address) {
	w.mu.Lock()
	w.accounts = append([]common.Address(nil), accounts...)
	approved := w.approved
	payload := hexAddresses(w.accounts)
	w.mu.Unlock()

	if approved {
		w.emit(EventAccountsChanged, payload)
	}
}

// Lock revokes the connection approval; listeners see an empty account list.
func (w *Wallet) Lock() {
	w.mu.Lock()
	wasApproved := w.approved
	w.approved = false
	w.mu.Unlock()

	if wasApproved {
		w.emit(EventAccountsChanged, []string{})
	}
}

// Close closes every chain client.
func (w *Wallet) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, c := range w.chains {
		c.client.Close()
		delete(w.chains, id)
	}
	w.hasActive = false
}

// On registers fn for event and returns its registration id.
func (w *Wallet) On(event string, fn Listener) ListenerID {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextID++
	w.listeners[event] = append(w.listeners[event], registration{id: w.nextID, fn: fn})
	return w.nextID
}

// RemoveListener removes the registration id from event. Unknown ids are ignored.
func (w *Wallet) RemoveListener(event string, id ListenerID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	regs := w.listeners[event]
	for i, r := range regs {
		if r.id == id {
			w.listeners[event] = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(w.listeners[event]) == 0 {
		delete(w.listeners, event)
	}
}

// ListenerCount returns the number of listeners registered for event.
func (w *Wallet) ListenerCount(event string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.listeners[event])
}

var signingMethods = map[string]bool{
	"eth_sendTransaction":  true,
	"eth_sign":             true,
	"personal_sign":        true,
	"eth_signTypedData_v4": true,
}

// Request dispatches a JSON-RPC call. Wallet methods are handled locally,
// everything else is forwarded to the active chain.
func (w *Wallet) Request(ctx context.Context, method string, params []any, result any) error {
	switch method {
	case MethodRequestAccounts:
		return w.requestAccounts(ctx, result)
	case MethodAccounts:
		w.mu.Lock()
		accounts := []string{}
		if w.approved {
			accounts = hexAddresses(w.accounts)
		}
		w.mu.Unlock()
		return assign(result, accounts)
	case MethodChainID:
		id, err := w.activeID()
		if err != nil {
			return err
		}
		return assign(result, network.FormatChainID(id))
	case MethodNetVersion:
		id, err := w.activeID()
		if err != nil {
			return err
		}
		return assign(result, strconv.FormatUint(id, 10))
	case MethodGetBalance:
		return w.getBalance(ctx, params, result)
	case MethodSwitchChain:
		return w.switchChain(params)
	case MethodAddChain:
		return w.addChain(ctx, params)
	}

	if signingMethods[method] {
		w.mu.Lock()
		approved := w.approved
		w.mu.Unlock()
		if !approved {
			return errUnauthorized()
		}
		// No key material is held; signing belongs to an external signer.
		return &RPCError{Code: CodeUnsupportedMethod, Message: fmt.Sprintf("method %s is not supported", method)}
	}
	if strings.HasPrefix(method, "wallet_") {
		return &RPCError{Code: CodeUnsupportedMethod, Message: fmt.Sprintf("method %s is not supported", method)}
	}

	c, err := w.activeChain()
	if err != nil {
		return err
	}
	var raw json.RawMessage
	if err := c.client.Client().CallContext(ctx, &raw, method, params...); err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return json.Unmarshal(raw, result)
}

func (w *Wallet) requestAccounts(ctx context.Context, result any) error {
	w.mu.Lock()
	approved := w.approved
	accounts := hexAddresses(w.accounts)
	w.mu.Unlock()

	if !approved {
		ok, err := w.approver.Approve(ctx, ApprovalRequest{
			Kind:   ApprovalConnect,
			Detail: fmt.Sprintf("expose %d account(s)", len(accounts)),
		})
		if err != nil {
			w.logger.Warn("connection approval failed", zap.Error(err))
			return errUserRejected()
		}
		if !ok {
			w.logger.Info("connection rejected by user")
			return errUserRejected()
		}
		w.mu.Lock()
		w.approved = true
		accounts = hexAddresses(w.accounts)
		w.mu.Unlock()
	}
	return assign(result, accounts)
}

func (w *Wallet) getBalance(ctx context.Context, params []any, result any) error {
	var addr string
	if err := decodeParam(params, 0, &addr); err != nil {
		return err
	}
	if !common.IsHexAddress(addr) {
		return errInvalidParams("invalid address %q", addr)
	}

	c, err := w.activeChain()
	if err != nil {
		return err
	}
	balance, err := c.client.BalanceAt(ctx, common.HexToAddress(addr), nil)
	if err != nil {
		return fmt.Errorf("failed to get balance: %w", err)
	}
	return assign(result, (*hexutil.Big)(balance))
}

type switchChainParam struct {
	ChainID string `json:"chainId"`
}

func (w *Wallet) switchChain(params []any) error {
	var p switchChainParam
	if err := decodeParam(params, 0, &p); err != nil {
		return err
	}
	id, err := network.ParseChainID(p.ChainID)
	if err != nil {
		return errInvalidParams("%v", err)
	}
	return w.activate(id, p.ChainID)
}

func (w *Wallet) addChain(ctx context.Context, params []any) error {
	var meta network.Metadata
	if err := decodeParam(params, 0, &meta); err != nil {
		return err
	}
	if err := meta.Validate(); err != nil {
		return errInvalidParams("invalid chain metadata: %v", err)
	}
	id, _ := meta.ID()

	w.mu.Lock()
	_, exists := w.chains[id]
	w.mu.Unlock()

	if !exists {
		ok, err := w.approver.Approve(ctx, ApprovalRequest{
			Kind:   ApprovalAddChain,
			Detail: fmt.Sprintf("add %s (%d) via %s", meta.ChainName, id, meta.RPCURLs[0]),
		})
		if err != nil || !ok {
			return errUserRejected()
		}

		client, remoteID, err := w.open(ctx, meta.RPCURLs[0])
		if err != nil {
			return err
		}
		if remoteID != id {
			client.Close()
			return errInvalidParams("rpc endpoint reports chain %d, expected %d", remoteID, id)
		}
		w.register(id, meta, client)
		w.logger.Info("chain added",
			zap.Uint64("chain_id", id),
			zap.String("name", meta.ChainName))
	}

	// Adding a chain also switches to it.
	return w.activate(id, meta.ChainID)
}

// activate makes id the active chain and emits chainChanged if it changed.
func (w *Wallet) activate(id uint64, requested string) error {
	w.mu.Lock()
	if _, ok := w.chains[id]; !ok {
		w.mu.Unlock()
		return errUnrecognizedChain(requested)
	}
	changed := !w.hasActive || w.active != id
	w.active = id
	w.hasActive = true
	w.mu.Unlock()

	if changed {
		w.logger.Info("active chain switched", zap.Uint64("chain_id", id))
		w.emit(EventChainChanged, network.FormatChainID(id))
	}
	return nil
}

func (w *Wallet) open(ctx context.Context, url string) (*ethclient.Client, uint64, error) {
	rc, err := w.dial(ctx, url)
	if err != nil {
		return nil, 0, errInternal("failed to dial %s: %v", url, err)
	}
	client := ethclient.NewClient(rc)

	id, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, 0, errInternal("failed to read chain id from %s: %v", url, err)
	}
	if !id.IsUint64() {
		client.Close()
		return nil, 0, errInternal("chain id %s out of range", id)
	}
	return client, id.Uint64(), nil
}

func (w *Wallet) register(id uint64, meta network.Metadata, client *ethclient.Client) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if old, ok := w.chains[id]; ok {
		old.client.Close()
	}
	w.chains[id] = &chainConn{meta: meta, client: client}
	if !w.hasActive {
		w.active = id
		w.hasActive = true
	}
}

func (w *Wallet) activeID() (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.hasActive {
		return 0, errInternal("no chain configured")
	}
	return w.active, nil
}

func (w *Wallet) activeChain() (*chainConn, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.hasActive {
		return nil, errInternal("no chain configured")
	}
	return w.chains[w.active], nil
}

// emit calls listeners in registration order without holding the lock,
// so listeners may call back into the wallet.
func (w *Wallet) emit(event string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.logger.Error("failed to encode event", zap.String("event", event), zap.Error(err))
		return
	}

	w.mu.Lock()
	regs := append([]registration(nil), w.listeners[event]...)
	w.mu.Unlock()

	for _, r := range regs {
		r.fn(payload)
	}
}

func hexAddresses(accounts []common.Address) []string {
	out := make([]string, len(accounts))
	for i, a := range accounts {
		out[i] = a.Hex()
	}
	return out
}

// assign copies v into result through its JSON form, the way a response
// would arrive over the wire.
func assign(result any, v any) error {
	if result == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return errInternal("failed to encode result: %v", err)
	}
	if err := json.Unmarshal(b, result); err != nil {
		return errInternal("failed to decode result: %v", err)
	}
	return nil
}

func decodeParam(params []any, i int, dst any) error {
	if len(params) <= i {
		return errInvalidParams("missing parameter %d", i)
	}
	b, err := json.Marshal(params[i])
	if err != nil {
		return errInvalidParams("invalid parameter %d: %v", i, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return errInvalidParams("invalid parameter %d: %v", i, err)
	}
	return nil
}
