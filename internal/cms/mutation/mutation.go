// Package mutation sends writes and tells the list view to re-fetch. The
// displayed list is never patched locally; it only changes through a
// refresh.
package mutation

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrBusy is returned when a write is attempted while another one from the
// same dispatcher has not finished, mirroring a form's disabled submit
// button.
var ErrBusy = errors.New("another change is still being saved")

// Store performs the actual writes, one request each
type Store[T any] interface {
	Create(ctx context.Context, item T) error
	Update(ctx context.Context, id string, item T) error
	Remove(ctx context.Context, id string) error
}

// Refresher re-fetches the page currently on screen
type Refresher interface {
	Refresh()
}

// RefresherFunc adapts a function to Refresher
type RefresherFunc func()

func (f RefresherFunc) Refresh() { f() }

type validator interface {
	Validate() error
}

type Dispatcher[T any] struct {
	store      Store[T]
	refresher  Refresher
	generation atomic.Uint64
	busy       atomic.Bool
}

// New returns a dispatcher writing through store. refresher may be nil when
// nothing is displayed, in which case only the generation advances.
func New[T any](store Store[T], refresher Refresher) *Dispatcher[T] {
	return &Dispatcher[T]{store: store, refresher: refresher}
}

// Generation counts successful writes. Observers can compare it to decide
// whether their view is out of date.
func (d *Dispatcher[T]) Generation() uint64 {
	return d.generation.Load()
}

// Create validates item, when it knows how, and sends it
func (d *Dispatcher[T]) Create(ctx context.Context, item T) error {
	if err := validate(item); err != nil {
		return err
	}
	return d.dispatch(func() error { return d.store.Create(ctx, item) })
}

func (d *Dispatcher[T]) Update(ctx context.Context, id string, item T) error {
	if err := validate(item); err != nil {
		return err
	}
	return d.dispatch(func() error { return d.store.Update(ctx, id, item) })
}

func (d *Dispatcher[T]) Remove(ctx context.Context, id string) error {
	return d.dispatch(func() error { return d.store.Remove(ctx, id) })
}

func (d *Dispatcher[T]) dispatch(write func() error) error {
	if !d.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	err := write()
	d.busy.Store(false)
	if err != nil {
		return err
	}

	d.generation.Add(1)
	if d.refresher != nil {
		d.refresher.Refresh()
	}
	return nil
}

func validate(item any) error {
	if v, ok := item.(validator); ok {
		return v.Validate()
	}
	return nil
}
