// Package listsync keeps a paginated list view in step with a remote
// collection. The Controller is a plain state machine driven by its host;
// Runner is a goroutine based host for non-interactive callers.
package listsync

import (
	perr "github.com/pressroom/pressctl/internal/err"
	"github.com/pressroom/pressctl/internal/util/pagination"
)

// Page is one normalized page of a collection
type Page[T any] struct {
	Items      []T
	Page       int
	TotalPages int
	TotalItems int
}

type Status int

const (
	Idle Status = iota
	Loading
	Error
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// State is what a list view renders. Err is only set while Status is Error.
type State[T any] struct {
	Items      []T
	Page       int
	TotalPages int
	TotalItems int
	Status     Status
	Err        string
}

// Ticket identifies one started fetch. The host performs the fetch for
// Ticket.Page and hands the result back to Complete with the same ticket.
type Ticket struct {
	Page int
	Seq  uint64
}

// Controller owns the target page and the last applied state. It is not
// safe for concurrent use; hosts serialize calls.
type Controller[T any] struct {
	pageSize int
	target   int
	seq      uint64
	state    State[T]
}

// NewController returns a controller already loading initialPage and the
// ticket for that first fetch. pageSize caps how many items are kept from a
// page; zero keeps everything.
func NewController[T any](initialPage, pageSize int) (*Controller[T], Ticket) {
	if initialPage < 1 {
		initialPage = 1
	}
	c := &Controller[T]{
		pageSize: pageSize,
		target:   initialPage,
		state:    State[T]{Page: initialPage, TotalPages: 1},
	}
	return c, c.begin()
}

// SetPage moves the target to n. It reports false, and starts nothing, when
// n is already the target and the last fetch did not fail.
func (c *Controller[T]) SetPage(n int) (Ticket, bool) {
	if n < 1 {
		n = 1
	}
	if n == c.target && c.state.Status != Error {
		return Ticket{}, false
	}
	c.target = n
	return c.begin(), true
}

// Refresh always starts a fetch of the target page. Mutations and the
// manual retry both come through here.
func (c *Controller[T]) Refresh() Ticket {
	return c.begin()
}

// Complete applies the outcome of the fetch identified by t. Results for a
// page other than the target, or from any fetch older than the latest, are
// discarded and Complete reports false.
func (c *Controller[T]) Complete(t Ticket, page Page[T], err error) bool {
	if t.Page != c.target || t.Seq != c.seq {
		return false
	}

	if err != nil {
		c.state.Items = nil
		c.state.Status = Error
		c.state.Err = perr.Message(err)
		return true
	}

	items := page.Items
	if c.pageSize > 0 && len(items) > c.pageSize {
		items = items[:c.pageSize]
	}
	total := pagination.NormalizeTotal(page.TotalPages)
	current := page.Page
	if current < 1 {
		current = t.Page
	}

	c.state = State[T]{
		Items:      items,
		Page:       pagination.Clamp(current, total),
		TotalPages: total,
		TotalItems: page.TotalItems,
		Status:     Idle,
	}
	return true
}

// State returns a copy of the current state
func (c *Controller[T]) State() State[T] {
	rv := c.state
	rv.Items = append([]T(nil), c.state.Items...)
	return rv
}

// Target is the page the controller is trying to show
func (c *Controller[T]) Target() int {
	return c.target
}

// Overshoot reports the last valid page when the target lies past the end
// of the collection, which happens after deleting the only item on the last
// page. It returns 0 when the target is in range or no data has loaded.
func (c *Controller[T]) Overshoot() int {
	if c.state.Status != Idle || c.target <= c.state.TotalPages {
		return 0
	}
	return c.state.TotalPages
}

func (c *Controller[T]) begin() Ticket {
	c.seq++
	c.state.Status = Loading
	c.state.Err = ""
	return Ticket{Page: c.target, Seq: c.seq}
}
