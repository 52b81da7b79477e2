// Package confirm implements the two-step "are you sure?" flow used before
// destructive console actions.
package confirm

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
)

var (
	ErrNotOpen = errors.New("no confirmation is open")
	ErrPending = errors.New("confirmation is already in progress")
)

// State is the dialog's position in the flow.
type State int

const (
	Closed State = iota
	Open
	Pending
	// Failed means the last confirmed action returned an error. The dialog
	// stays open so the user can retry or cancel.
	Failed
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case Pending:
		return "pending"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Action is the mutation a confirmation guards. It runs at most once per
// Confirm call.
type Action func(ctx context.Context) error

// Handle tracks one confirmed action running in the background.
type Handle struct {
	done chan struct{}
	err  error
}

// Done is closed when the action has finished.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the action's result. It is only meaningful after Done is closed.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Wait blocks until the action finishes or ctx ends. A cancelled wait does not
// stop the action.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dialog holds at most one pending confirmation.
type Dialog struct {
	mu      sync.Mutex
	state   State
	subject string
	err     error
	log     zerolog.Logger
}

func NewDialog(log zerolog.Logger) *Dialog {
	return &Dialog{log: log.With().Str("component", "confirm").Logger()}
}

// Request opens the dialog for subject, replacing any open or failed request.
// It fails with ErrPending while an action is running.
func (d *Dialog) Request(subject string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == Pending {
		return ErrPending
	}
	d.state = Open
	d.subject = subject
	d.err = nil
	return nil
}

// Confirm starts action on its own goroutine and returns a Handle for it. On
// success the dialog closes; on failure it moves to Failed and keeps the error.
func (d *Dialog) Confirm(ctx context.Context, action Action) (*Handle, error) {
	d.mu.Lock()
	switch d.state {
	case Closed:
		d.mu.Unlock()
		return nil, ErrNotOpen
	case Pending:
		d.mu.Unlock()
		return nil, ErrPending
	}
	d.state = Pending
	d.err = nil
	subject := d.subject
	d.mu.Unlock()

	h := &Handle{done: make(chan struct{})}
	go func() {
		err := d.run(ctx, subject, action)

		d.mu.Lock()
		if err != nil {
			d.state = Failed
			d.err = err
		} else {
			d.state = Closed
			d.subject = ""
		}
		d.mu.Unlock()

		h.err = err
		close(h.done)
	}()
	return h, nil
}

func (d *Dialog) run(ctx context.Context, subject string, action Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			var stack [4096]byte
			n := runtime.Stack(stack[:], false)

			d.log.Error().
				Str("subject", subject).
				Str("panic", fmt.Sprintf("%v", r)).
				Str("stack", string(stack[:n])).
				Msg("panic recovered")

			err = fmt.Errorf("confirm %s: panic: %v", subject, r)
		}
	}()
	return action(ctx)
}

// Cancel closes the dialog without running anything. It fails with ErrPending
// while an action is running.
func (d *Dialog) Cancel() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == Pending {
		return ErrPending
	}
	d.state = Closed
	d.subject = ""
	d.err = nil
	return nil
}

func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Subject returns what the open request is about, or "" when closed.
func (d *Dialog) Subject() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.subject
}

// Err returns the error of the last failed action.
func (d *Dialog) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}
