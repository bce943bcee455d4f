package httpclient

import (
	"context"
	"sync/atomic"
)

// State is the lifecycle state of a call.
type State int32

const (
	StateIdle State = iota
	StateSubmitted
	StateCompleted
	StateFailed
	StateCancelled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitted:
		return "submitted"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// Call is the handle of an asynchronous call.
//
// The state leaves Submitted exactly once: either the worker settles it as
// Completed or Failed and then runs one handler, or Cancel settles it as
// Cancelled and no handler runs.
type Call struct {
	id     string
	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}
}

func newCall(id string, cancel context.CancelFunc) *Call {
	c := &Call{id: id, cancel: cancel, done: make(chan struct{})}
	c.state.Store(int32(StateSubmitted))
	return c
}

// ID returns the call ID used in logs and spans.
func (c *Call) ID() string { return c.id }

// State returns the current state.
func (c *Call) State() State { return State(c.state.Load()) }

// Done is closed once the call is terminal and its handler, if any, returned.
func (c *Call) Done() <-chan struct{} { return c.done }

// Wait blocks until Done and returns the final state.
func (c *Call) Wait() State {
	<-c.done
	return c.State()
}

// Cancel aborts the call if it has not settled yet. It is safe to call any
// number of times and after completion.
func (c *Call) Cancel() {
	if c.settle(StateCancelled) {
		c.cancel()
	}
}

// settle moves the call out of Submitted. It returns false if another
// party already did.
func (c *Call) settle(to State) bool {
	return c.state.CompareAndSwap(int32(StateSubmitted), int32(to))
}

func (c *Call) finish() {
	close(c.done)
}
