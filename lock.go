package mediator

import "context"

// lock is a mutual exclusion primitive whose acquisition can be abandoned
// when the caller's context ends. It backs the concurrent execution model.
type lock struct {
	ch chan struct{}
}

func newLock() *lock {
	return &lock{ch: make(chan struct{}, 1)}
}

// acquire blocks until the lock is held or ctx is done. On error the lock
// is not held.
func (l *lock) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case l.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *lock) release() {
	select {
	case <-l.ch:
	default:
		panic("mediator: release of unlocked lock")
	}
}
