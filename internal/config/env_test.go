package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ACCOUNTS", "0x00000000000000000000000000000000000000a1")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", c.Port)
	}
	if c.Approval != ApprovalPrompt {
		t.Fatalf("expected prompt approval, got %q", c.Approval)
	}
	if c.RequestTimeout != 15*time.Second {
		t.Fatalf("expected 15s timeout, got %v", c.RequestTimeout)
	}
	if !c.ChainSwitchEnabled || c.SwitchTargetChainID != 1301 {
		t.Fatalf("unexpected switch defaults: %v %d", c.ChainSwitchEnabled, c.SwitchTargetChainID)
	}
}

func TestLoadListsAndFlags(t *testing.T) {
	t.Setenv("ACCOUNTS", "0x00000000000000000000000000000000000000a1,0x00000000000000000000000000000000000000b2")
	t.Setenv("EXTRA_RPC_URLS", "http://a:8545,http://b:8545")
	t.Setenv("APPROVAL", "auto")
	t.Setenv("DARK_MODE", "true")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Accounts) != 2 || len(c.ExtraRPCURLs) != 2 {
		t.Fatalf("expected 2 accounts and 2 extra urls, got %v %v", c.Accounts, c.ExtraRPCURLs)
	}
	if !c.DarkMode {
		t.Fatal("expected dark mode")
	}

	cfg = c
	t.Cleanup(func() { cfg = nil })
	urls := GetRPCURLs()
	if len(urls) != 3 || urls[0] != c.RPCURL {
		t.Fatalf("unexpected rpc urls %v", urls)
	}
}

func TestLoadRequiresAccounts(t *testing.T) {
	t.Setenv("ACCOUNTS", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadRejectsUnknownApproval(t *testing.T) {
	t.Setenv("ACCOUNTS", "0x00000000000000000000000000000000000000a1")
	t.Setenv("APPROVAL", "sometimes")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "APPROVAL") {
		t.Fatalf("expected APPROVAL in error, got %v", err)
	}
}

func TestGetPanicsBeforeInit(t *testing.T) {
	cfg = nil
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Get()
}
