// Package providertest provides a scriptable in-memory provider for tests.
package providertest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/AlexZinkM/dapp-wallet/internal/provider"
)

// HandlerFunc answers one JSON-RPC method.
type HandlerFunc func(params []any) (any, error)

// Call records a request seen by the fake.
type Call struct {
	Method string
	Params []any
}

type registration struct {
	id provider.ListenerID
	fn provider.Listener
}

// Fake is a provider.Provider whose responses are set per method.
type Fake struct {
	mu        sync.Mutex
	handlers  map[string]HandlerFunc
	calls     []Call
	listeners map[string][]registration
	nextID    provider.ListenerID
}

var _ provider.Provider = (*Fake)(nil)

// New returns a fake with no handlers.
func New() *Fake {
	return &Fake{
		handlers:  make(map[string]HandlerFunc),
		listeners: make(map[string][]registration),
	}
}

// Handle sets the handler for method.
func (f *Fake) Handle(method string, fn HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method] = fn
}

// Return makes method answer v.
func (f *Fake) Return(method string, v any) {
	f.Handle(method, func([]any) (any, error) { return v, nil })
}

// Fail makes method fail with a provider error.
func (f *Fake) Fail(method string, code int, message string) {
	f.Handle(method, func([]any) (any, error) {
		return nil, &provider.RPCError{Code: code, Message: message}
	})
}

// Request implements provider.Provider.
func (f *Fake) Request(ctx context.Context, method string, params []any, result any) error {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: method, Params: params})
	fn, ok := f.handlers[method]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if !ok {
		return &provider.RPCError{Code: provider.CodeMethodNotFound, Message: fmt.Sprintf("method %s not found", method)}
	}
	v, err := fn(params)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, result)
}

// On implements provider.Provider.
func (f *Fake) On(event string, fn provider.Listener) provider.ListenerID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.listeners[event] = append(f.listeners[event], registration{id: f.nextID, fn: fn})
	return f.nextID
}

// RemoveListener implements provider.Provider.
func (f *Fake) RemoveListener(event string, id provider.ListenerID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	regs := f.listeners[event]
	for i, r := range regs {
		if r.id == id {
			f.listeners[event] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Emit delivers v to every listener of event.
func (f *Fake) Emit(event string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	f.mu.Lock()
	regs := append([]registration(nil), f.listeners[event]...)
	f.mu.Unlock()
	for _, r := range regs {
		r.fn(payload)
	}
}

// ListenerCount returns the number of listeners on event.
func (f *Fake) ListenerCount(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners[event])
}

// Calls returns how many times method was requested.
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Methods returns requested methods in order.
func (f *Fake) Methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Method
	}
	return out
}

// LastParams returns the params of the latest call to method.
func (f *Fake) LastParams(method string) []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Method == method {
			return f.calls[i].Params
		}
	}
	return nil
}
