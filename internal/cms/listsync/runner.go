package listsync

import (
	"context"
	"sync"
)

// FetchFunc loads one page. It is called from its own goroutine.
type FetchFunc[T any] func(ctx context.Context, page int) (Page[T], error)

type Config[T any] struct {
	Fetch       FetchFunc[T]
	PageSize    int
	InitialPage int
	// OnChange, when set, is called with the new state after every start
	// and every applied completion. Calls never overlap and each one sees the
	// state current at the time of the call, so a callback may repeat a state
	// but never report an older one after a newer one. It runs with the
	// state lock released and may call back into the runner, except for
	// SetPage and Refresh which would wait on the callback itself.
	OnChange func(State[T])
}

// Runner hosts a Controller on goroutines. Fetches are never cancelled by
// later ones; the controller discards whatever arrives stale.
type Runner[T any] struct {
	ctx      context.Context
	fetch    FetchFunc[T]
	onChange func(State[T])

	mu   sync.Mutex
	ctrl *Controller[T]
	wg   sync.WaitGroup

	notifyMu sync.Mutex
}

// NewRunner creates the controller and starts the initial fetch
func NewRunner[T any](ctx context.Context, cfg Config[T]) *Runner[T] {
	ctrl, ticket := NewController[T](cfg.InitialPage, cfg.PageSize)
	r := &Runner[T]{
		ctx:      ctx,
		fetch:    cfg.Fetch,
		onChange: cfg.OnChange,
		ctrl:     ctrl,
	}
	r.start(ticket)
	return r
}

func (r *Runner[T]) SetPage(n int) {
	r.mu.Lock()
	ticket, started := r.ctrl.SetPage(n)
	r.mu.Unlock()
	if started {
		r.start(ticket)
	}
}

func (r *Runner[T]) Refresh() {
	r.mu.Lock()
	ticket := r.ctrl.Refresh()
	r.mu.Unlock()
	r.start(ticket)
}

func (r *Runner[T]) State() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctrl.State()
}

// Wait blocks until every fetch started so far has completed
func (r *Runner[T]) Wait() {
	r.wg.Wait()
}

func (r *Runner[T]) start(t Ticket) {
	r.notify()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		page, err := r.fetch(r.ctx, t.Page)

		r.mu.Lock()
		applied := r.ctrl.Complete(t, page, err)
		r.mu.Unlock()

		if applied {
			r.notify()
		}
	}()
}

func (r *Runner[T]) notify() {
	if r.onChange == nil {
		return
	}
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()
	r.onChange(r.State())
}
