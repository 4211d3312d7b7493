package provider

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Approval kinds a wallet asks its user about.
const (
	ApprovalConnect  = "connect"
	ApprovalAddChain = "add_chain"
)

// ApprovalRequest describes what the user is asked to allow.
type ApprovalRequest struct {
	Kind   string
	Detail string
}

// Approver decides whether a user-facing wallet request is allowed.
type Approver interface {
	Approve(ctx context.Context, req ApprovalRequest) (bool, error)
}

// ApproverFunc adapts a function to Approver.
type ApproverFunc func(ctx context.Context, req ApprovalRequest) (bool, error)

// Approve calls f.
func (f ApproverFunc) Approve(ctx context.Context, req ApprovalRequest) (bool, error) {
	return f(ctx, req)
}

// AutoApprove allows every request.
var AutoApprove Approver = ApproverFunc(func(context.Context, ApprovalRequest) (bool, error) {
	return true, nil
})

// TerminalApprover asks on the controlling terminal and answers yes only to "y" or "yes".
// One reader goroutine owns In for the approver's lifetime, so a line typed
// after a prompt timed out answers the next prompt. Prompts are serialised.
type TerminalApprover struct {
	In  io.Reader
	Out io.Writer

	once  sync.Once
	turn  chan struct{}
	lines chan answer
}

type answer struct {
	line string
	err  error
}

// NewTerminalApprover returns an approver bound to stdin/stderr.
func NewTerminalApprover() *TerminalApprover {
	return &TerminalApprover{In: os.Stdin, Out: os.Stderr}
}

// Approve prompts the user. It fails when In is a file that is not a terminal.
func (a *TerminalApprover) Approve(ctx context.Context, req ApprovalRequest) (bool, error) {
	if f, ok := a.In.(interface{ Fd() uintptr }); ok && !term.IsTerminal(int(f.Fd())) {
		return false, errors.New("stdin is not a terminal: run interactively or set APPROVAL=auto")
	}
	a.once.Do(a.start)

	select {
	case a.turn <- struct{}{}:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	defer func() { <-a.turn }()

	fmt.Fprintf(a.Out, "Wallet %s request: %s. Approve? [y/N]: ", req.Kind, req.Detail)

	select {
	case <-ctx.Done():
		fmt.Fprintln(a.Out)
		return false, ctx.Err()
	case ans, ok := <-a.lines:
		if !ok {
			return false, errors.New("approval input closed")
		}
		if ans.err != nil {
			return false, ans.err
		}
		return ParseAnswer(ans.line), nil
	}
}

func (a *TerminalApprover) start() {
	a.turn = make(chan struct{}, 1)
	a.lines = make(chan answer)
	go func() {
		defer close(a.lines)
		r := bufio.NewReader(a.In)
		for {
			line, err := r.ReadString('\n')
			if err != nil && line == "" {
				a.lines <- answer{err: fmt.Errorf("failed to read answer: %w", err)}
				return
			}
			a.lines <- answer{line: line}
		}
	}()
}

// ParseAnswer reports whether a prompt answer means yes.
func ParseAnswer(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
