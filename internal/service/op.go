package service

import (
	"context"
	"sync"
)

// Op is a handle on an asynchronous session operation.
type Op struct {
	done   chan struct{}
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

func finishedOp(err error) *Op {
	op := &Op{done: make(chan struct{}), cancel: func() {}}
	op.finish(err)
	return op
}

func (o *Op) finish(err error) {
	o.mu.Lock()
	o.err = err
	o.mu.Unlock()
	close(o.done)
}

// Done is closed when the operation has finished.
func (o *Op) Done() <-chan struct{} { return o.done }

// Err returns the operation's result, or nil while it is still running.
func (o *Op) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Wait blocks until the operation finishes or ctx ends.
func (o *Op) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel cancels the operation's context. A step that is still waiting on
// the network fails with a canceled error and leaves the session signed
// out; steps that already finished stay applied. Use Close to make the
// completion of every in-flight operation a no-op.
func (o *Op) Cancel() { o.cancel() }

// startOpLocked launches fn on its own goroutine. s.mu must be held.
func (s *SessionManager) startOpLocked(ctx context.Context, fn func(context.Context) error) *Op {
	if s.closed {
		return finishedOp(errClosed())
	}
	opCtx, cancel := context.WithCancel(ctx)
	op := &Op{done: make(chan struct{}), cancel: cancel}
	s.ops[op] = struct{}{}

	go func() {
		err := fn(opCtx)
		if err == nil && opCtx.Err() != nil && !s.isOpen() {
			err = errClosed()
		}
		s.mu.Lock()
		delete(s.ops, op)
		s.mu.Unlock()
		cancel()
		op.finish(err)
	}()
	return op
}

func (s *SessionManager) isOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}
