package session

import (
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

func TestStoreDerivesNetworkName(t *testing.T) {
	s := NewStore()
	id := uint64(999)
	snap := s.update(func(st *State) { st.ChainID = &id })
	if snap.NetworkName != "Chain ID: 999" {
		t.Fatalf("unexpected network name %q", snap.NetworkName)
	}

	snap = s.update(func(st *State) { st.ChainID = nil })
	if snap.NetworkName != "" {
		t.Fatalf("expected empty network name, got %q", snap.NetworkName)
	}
}

func TestStoreNotifiesInOrderAndUnsubscribes(t *testing.T) {
	s := NewStore()
	var order []string
	unsubA := s.Subscribe(func(State) { order = append(order, "a") })
	s.Subscribe(func(State) { order = append(order, "b") })

	s.update(func(st *State) { st.IsConnecting = true })
	unsubA()
	s.update(func(st *State) { st.IsConnecting = false })
	// No change, no notification.
	s.update(func(st *State) { st.IsConnecting = false })

	if got := len(order); got != 3 || order[0] != "a" || order[1] != "b" || order[2] != "b" {
		t.Fatalf("unexpected notifications %v", order)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	addr := ethcommon.HexToAddress("0x00000000000000000000000000000000000000a1")
	id := uint64(1)
	s.update(func(st *State) {
		st.Account = &addr
		st.ChainID = &id
	})

	snap := s.Snapshot()
	*snap.ChainID = 5
	snap.Account[0] = 0xff

	again := s.Snapshot()
	if *again.ChainID != 1 || *again.Account != addr {
		t.Fatalf("snapshot aliases store state: %+v", again)
	}
}

func TestDisplayBalance(t *testing.T) {
	addr := ethcommon.HexToAddress("0x00000000000000000000000000000000000000a1")
	mainnet := uint64(1)

	tests := []struct {
		name  string
		state State
		want  string
	}{
		{"disconnected", State{}, ""},
		{"loading", State{Account: &addr, ChainID: &mainnet}, "Loading..."},
		{"rounded", State{Account: &addr, ChainID: &mainnet, Balance: "1.23456789"}, "1.2346 ETH"},
		{"zero", State{Account: &addr, ChainID: &mainnet, Balance: "0.0"}, "0.0000 ETH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.DisplayBalance(); got != tt.want {
				t.Fatalf("DisplayBalance() = %q, want %q", got, tt.want)
			}
		})
	}
}
