package network

import "testing"

func TestLabel(t *testing.T) {
	tests := []struct {
		chainID uint64
		want    string
	}{
		{1, "Ethereum Mainnet"},
		{11155111, "Sepolia Testnet"},
		{1301, "Unichain Sepolia"},
		{999, "Chain ID: 999"},
		{0, "Chain ID: 0"},
	}
	for _, tt := range tests {
		if got := Label(tt.chainID); got != tt.want {
			t.Fatalf("Label(%d) = %q, want %q", tt.chainID, got, tt.want)
		}
	}
}

func TestLabelOf(t *testing.T) {
	if got := LabelOf(nil); got != "" {
		t.Fatalf("expected empty label for nil, got %q", got)
	}
	id := uint64(1301)
	if got := LabelOf(&id); got != "Unichain Sepolia" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestParseChainID(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"0x1", 1},
		{"0x01", 1},
		{"0xaa36a7", 11155111},
		{"0X515", 1301},
		{"1301", 1301},
	}
	for _, tt := range tests {
		got, err := ParseChainID(tt.in)
		if err != nil {
			t.Fatalf("ParseChainID(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseChainID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "0x", "0xzz", "mainnet"} {
		if _, err := ParseChainID(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestFormatChainID(t *testing.T) {
	if got := FormatChainID(UnichainSepoliaChainID); got != "0x515" {
		t.Fatalf("unexpected hex %q", got)
	}
	if got := FormatChainID(SepoliaChainID); got != "0xaa36a7" {
		t.Fatalf("unexpected hex %q", got)
	}
}

func TestKnownReturnsCopy(t *testing.T) {
	m, ok := Known(UnichainSepoliaChainID)
	if !ok {
		t.Fatal("expected unichain sepolia metadata")
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("built-in metadata invalid: %v", err)
	}
	m.RPCURLs[0] = "http://mutated"

	again, _ := Known(UnichainSepoliaChainID)
	if again.RPCURLs[0] == "http://mutated" {
		t.Fatal("Known leaked internal slice")
	}
	if _, ok := Known(999); ok {
		t.Fatal("unexpected metadata for unknown chain")
	}
}

func TestMetadataValidate(t *testing.T) {
	m := Metadata{ChainID: "0x515", ChainName: "x", NativeCurrency: ether}
	if err := m.Validate(); err == nil {
		t.Fatal("expected error without rpc urls")
	}
	m.RPCURLs = []string{"http://localhost:8545"}
	if err := m.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	m.ChainID = "nope"
	if err := m.Validate(); err == nil {
		t.Fatal("expected error for bad chain id")
	}
}

func TestCurrencySymbol(t *testing.T) {
	if got := CurrencySymbol(999); got != "ETH" {
		t.Fatalf("unexpected default symbol %q", got)
	}
	if got := CurrencySymbol(MainnetChainID); got != "ETH" {
		t.Fatalf("unexpected mainnet symbol %q", got)
	}
}
