package provider_test

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"testing"

	"github.com/AlexZinkM/dapp-wallet/internal/network"
	"github.com/AlexZinkM/dapp-wallet/internal/provider"
	"github.com/AlexZinkM/dapp-wallet/internal/provider/providertest"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap/zaptest"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

func newTestWallet(t *testing.T, approver provider.Approver) *provider.Wallet {
	t.Helper()
	oneEther, _ := new(big.Int).SetString("1000000000000000000", 10)
	sepolia := providertest.NewChain(network.SepoliaChainID)
	sepolia.SetBalance(alice, oneEther)
	unichain := providertest.NewChain(network.UnichainSepoliaChainID)
	unichain.SetBalance(alice, big.NewInt(5))
	chains := map[string]*providertest.Chain{
		"http://sepolia":  sepolia,
		"http://unichain": unichain,
		"http://liar":     providertest.NewChain(7),
	}
	w := provider.NewWallet(provider.Config{
		Accounts: []common.Address{alice, bob},
		Approver: approver,
		Dial:     providertest.Dialer(t, chains),
		Logger:   zaptest.NewLogger(t),
	})
	if _, err := w.ConnectChain(context.Background(), "http://sepolia"); err != nil {
		t.Fatalf("connect chain: %v", err)
	}
	t.Cleanup(w.Close)
	return w
}

func codeOf(err error) int {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode()
	}
	return 0
}

func TestRequestAccountsApproved(t *testing.T) {
	w := newTestWallet(t, provider.AutoApprove)
	ctx := context.Background()

	var before []string
	if err := w.Request(ctx, provider.MethodAccounts, nil, &before); err != nil {
		t.Fatalf("eth_accounts: %v", err)
	}
	if len(before) != 0 {
		t.Fatalf("expected no accounts before approval, got %v", before)
	}

	var accounts []string
	if err := w.Request(ctx, provider.MethodRequestAccounts, nil, &accounts); err != nil {
		t.Fatalf("eth_requestAccounts: %v", err)
	}
	if len(accounts) != 2 || accounts[0] != alice.Hex() {
		t.Fatalf("unexpected accounts %v", accounts)
	}

	var after []string
	if err := w.Request(ctx, provider.MethodAccounts, nil, &after); err != nil {
		t.Fatalf("eth_accounts: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("expected accounts after approval, got %v", after)
	}
}

func TestRequestAccountsRejected(t *testing.T) {
	deny := provider.ApproverFunc(func(context.Context, provider.ApprovalRequest) (bool, error) { return false, nil })
	w := newTestWallet(t, deny)

	err := w.Request(context.Background(), provider.MethodRequestAccounts, nil, nil)
	if codeOf(err) != provider.CodeUserRejected {
		t.Fatalf("expected user rejected, got %v", err)
	}
}

func TestChainIDAndBalance(t *testing.T) {
	w := newTestWallet(t, provider.AutoApprove)
	ctx := context.Background()

	var chainID string
	if err := w.Request(ctx, provider.MethodChainID, nil, &chainID); err != nil {
		t.Fatalf("eth_chainId: %v", err)
	}
	if chainID != "0xaa36a7" {
		t.Fatalf("unexpected chain id %q", chainID)
	}

	var version string
	if err := w.Request(ctx, provider.MethodNetVersion, nil, &version); err != nil {
		t.Fatalf("net_version: %v", err)
	}
	if version != "11155111" {
		t.Fatalf("unexpected net_version %q", version)
	}

	var balance hexutil.Big
	if err := w.Request(ctx, provider.MethodGetBalance, []any{alice.Hex(), "latest"}, &balance); err != nil {
		t.Fatalf("eth_getBalance: %v", err)
	}
	if balance.ToInt().String() != "1000000000000000000" {
		t.Fatalf("unexpected balance %s", balance.ToInt())
	}

	err := w.Request(ctx, provider.MethodGetBalance, []any{"not-an-address"}, &balance)
	if codeOf(err) != provider.CodeInvalidParams {
		t.Fatalf("expected invalid params, got %v", err)
	}
}

func TestForwardsUnknownMethodsToActiveChain(t *testing.T) {
	w := newTestWallet(t, provider.AutoApprove)

	var block hexutil.Uint64
	if err := w.Request(context.Background(), "eth_blockNumber", nil, &block); err != nil {
		t.Fatalf("eth_blockNumber: %v", err)
	}
	if block != 42 {
		t.Fatalf("unexpected block %d", block)
	}

	err := w.Request(context.Background(), "wallet_watchAsset", nil, nil)
	if codeOf(err) != provider.CodeUnsupportedMethod {
		t.Fatalf("expected unsupported method, got %v", err)
	}
}

func TestSigningNeedsApprovalAndIsUnsupported(t *testing.T) {
	w := newTestWallet(t, provider.AutoApprove)
	ctx := context.Background()

	err := w.Request(ctx, "personal_sign", []any{"0x00", alice.Hex()}, nil)
	if codeOf(err) != provider.CodeUnauthorized {
		t.Fatalf("expected unauthorized before approval, got %v", err)
	}
	if err := w.Request(ctx, provider.MethodRequestAccounts, nil, nil); err != nil {
		t.Fatalf("eth_requestAccounts: %v", err)
	}
	err = w.Request(ctx, "eth_sendTransaction", []any{map[string]string{"from": alice.Hex()}}, nil)
	if codeOf(err) != provider.CodeUnsupportedMethod {
		t.Fatalf("expected unsupported method after approval, got %v", err)
	}
}

func TestSwitchUnknownChain(t *testing.T) {
	w := newTestWallet(t, provider.AutoApprove)

	err := w.Request(context.Background(), provider.MethodSwitchChain, []any{map[string]string{"chainId": "0x515"}}, nil)
	if codeOf(err) != provider.CodeUnrecognizedChain {
		t.Fatalf("expected unrecognized chain, got %v", err)
	}
}

func TestAddChainSwitchesAndEmits(t *testing.T) {
	w := newTestWallet(t, provider.AutoApprove)
	ctx := context.Background()

	var events []string
	w.On(provider.EventChainChanged, func(payload json.RawMessage) {
		var hex string
		if err := json.Unmarshal(payload, &hex); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		events = append(events, hex)
	})

	meta, _ := network.Known(network.UnichainSepoliaChainID)
	meta.RPCURLs = []string{"http://unichain"}
	if err := w.Request(ctx, provider.MethodAddChain, []any{meta}, nil); err != nil {
		t.Fatalf("wallet_addEthereumChain: %v", err)
	}
	if len(events) != 1 || events[0] != "0x515" {
		t.Fatalf("expected one chainChanged 0x515, got %v", events)
	}

	// Switching back and forth emits once per change.
	if err := w.Request(ctx, provider.MethodSwitchChain, []any{map[string]string{"chainId": "0xaa36a7"}}, nil); err != nil {
		t.Fatalf("switch: %v", err)
	}
	if err := w.Request(ctx, provider.MethodSwitchChain, []any{map[string]string{"chainId": "0xaa36a7"}}, nil); err != nil {
		t.Fatalf("switch: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %v", events)
	}

	if ids := w.ChainIDs(); len(ids) != 2 || ids[0] != network.UnichainSepoliaChainID {
		t.Fatalf("unexpected chain ids %v", ids)
	}
}

func TestAddChainRejectsMismatchedEndpoint(t *testing.T) {
	w := newTestWallet(t, provider.AutoApprove)

	meta, _ := network.Known(network.UnichainSepoliaChainID)
	meta.RPCURLs = []string{"http://liar"}
	err := w.Request(context.Background(), provider.MethodAddChain, []any{meta}, nil)
	if codeOf(err) != provider.CodeInvalidParams {
		t.Fatalf("expected invalid params, got %v", err)
	}
	if len(w.ChainIDs()) != 1 {
		t.Fatalf("mismatched chain must not be registered")
	}
}

func TestAddChainInvalidMetadata(t *testing.T) {
	w := newTestWallet(t, provider.AutoApprove)

	err := w.Request(context.Background(), provider.MethodAddChain, []any{network.Metadata{ChainID: "0x515"}}, nil)
	if codeOf(err) != provider.CodeInvalidParams {
		t.Fatalf("expected invalid params, got %v", err)
	}
	err = w.Request(context.Background(), provider.MethodAddChain, nil, nil)
	if codeOf(err) != provider.CodeInvalidParams {
		t.Fatalf("expected invalid params for missing metadata, got %v", err)
	}
}

func TestLockAndSetAccountsEmit(t *testing.T) {
	w := newTestWallet(t, provider.AutoApprove)
	ctx := context.Background()

	var got [][]string
	id := w.On(provider.EventAccountsChanged, func(payload json.RawMessage) {
		var accounts []string
		if err := json.Unmarshal(payload, &accounts); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		got = append(got, accounts)
	})

	// Not approved yet, nothing to announce.
	w.SetAccounts([]common.Address{bob})
	if len(got) != 0 {
		t.Fatalf("unexpected events before approval: %v", got)
	}

	if err := w.Request(ctx, provider.MethodRequestAccounts, nil, nil); err != nil {
		t.Fatalf("eth_requestAccounts: %v", err)
	}
	w.SetAccounts([]common.Address{alice})
	w.Lock()
	w.Lock()

	if len(got) != 2 || got[0][0] != alice.Hex() || len(got[1]) != 0 {
		t.Fatalf("unexpected events %v", got)
	}

	w.RemoveListener(provider.EventAccountsChanged, id)
	if n := w.ListenerCount(provider.EventAccountsChanged); n != 0 {
		t.Fatalf("expected no listeners, got %d", n)
	}
}

func TestRemoveListenerRemovesOnlyThatRegistration(t *testing.T) {
	w := provider.NewWallet(provider.Config{})
	first := w.On(provider.EventChainChanged, func(json.RawMessage) {})
	w.On(provider.EventChainChanged, func(json.RawMessage) {})

	w.RemoveListener(provider.EventChainChanged, first)
	w.RemoveListener(provider.EventChainChanged, first)
	w.RemoveListener(provider.EventAccountsChanged, first)

	if n := w.ListenerCount(provider.EventChainChanged); n != 1 {
		t.Fatalf("expected 1 listener, got %d", n)
	}
}

func TestNoChainConfigured(t *testing.T) {
	w := provider.NewWallet(provider.Config{})

	err := w.Request(context.Background(), provider.MethodChainID, nil, nil)
	if codeOf(err) != provider.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestConnectChainUnreachable(t *testing.T) {
	w := provider.NewWallet(provider.Config{Dial: providertest.Dialer(t, nil)})

	if _, err := w.ConnectChain(context.Background(), "http://nowhere"); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseAnswer(t *testing.T) {
	for _, yes := range []string{"y\n", "YES", " yes "} {
		if !provider.ParseAnswer(yes) {
			t.Fatalf("expected %q to approve", yes)
		}
	}
	for _, no := range []string{"", "n", "nope", "\n"} {
		if provider.ParseAnswer(no) {
			t.Fatalf("expected %q to reject", no)
		}
	}
}
