package evclient

import (
	"context"
	"fmt"
)

// Task runs one function in the background and holds its result. Cancel
// cancels the context passed to the function; the function decides how
// quickly it stops.
type Task[T any] struct {
	cancel context.CancelFunc
	done   chan struct{}

	value T
	err   error
}

// Start runs fn in a new goroutine under a context derived from ctx.
func Start[T any](ctx context.Context, fn func(context.Context) (T, error)) *Task[T] {
	taskCtx, cancel := context.WithCancel(ctx)
	t := &Task[T]{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go t.run(taskCtx, fn)
	return t
}

func (t *Task[T]) run(ctx context.Context, fn func(context.Context) (T, error)) {
	defer close(t.done)
	defer t.cancel()
	defer func() {
		if r := recover(); r != nil {
			var zero T
			t.value, t.err = zero, fmt.Errorf("evclient: task panicked: %v", r)
		}
	}()
	t.value, t.err = fn(ctx)
}

// Cancel asks the task to stop. Safe to call more than once and after completion.
func (t *Task[T]) Cancel() {
	t.cancel()
}

// Done is closed when the function has returned.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Result blocks until the task finishes and returns what the function returned.
func (t *Task[T]) Result() (T, error) {
	<-t.done
	return t.value, t.err
}

// Wait is Result bounded by ctx. It does not cancel the task when ctx ends.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
