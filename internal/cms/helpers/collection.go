package helpers

import (
	"context"
	"fmt"

	"github.com/pressroom/pressctl/internal/cms/client"
	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/pressroom/pressctl/internal/cms/listsync"
	"github.com/pressroom/pressctl/internal/cms/normalize"
	"golang.org/x/sync/errgroup"
)

// DefaultFetchConcurrency bounds the page requests FetchAll keeps in flight
const DefaultFetchConcurrency = 4

// Collection is the typed view of one backend collection. It satisfies
// mutation.Store[T].
type Collection[T content.Item] struct {
	api     client.API
	kind    content.Kind
	newItem func() T
}

func NewCollection[T content.Item](api client.API, kind content.Kind, newItem func() T) *Collection[T] {
	return &Collection[T]{api: api, kind: kind, newItem: newItem}
}

func (c *Collection[T]) Kind() content.Kind {
	return c.kind
}

// List fetches and normalizes one page
func (c *Collection[T]) List(ctx context.Context, page, size int) (listsync.Page[T], error) {
	raw, err := c.api.List(ctx, c.kind, page, size)
	if err != nil {
		return listsync.Page[T]{}, err
	}
	return normalize.Decode[T](raw, c.kind.ItemsKey)
}

// FetchPage adapts List for a listsync controller
func (c *Collection[T]) FetchPage(size int) listsync.FetchFunc[T] {
	return func(ctx context.Context, page int) (listsync.Page[T], error) {
		return c.List(ctx, page, size)
	}
}

// FetchAll reads page one, then the remaining pages in waves of at most
// concurrency requests. Items are returned in page order. The reported page
// count is only trusted as far as the reported item total allows, and the
// walk stops at the first empty page.
func (c *Collection[T]) FetchAll(ctx context.Context, size, concurrency int) ([]T, error) {
	first, err := c.List(ctx, 1, size)
	if err != nil {
		return nil, err
	}
	rv := first.Items
	last := lastPage(first, size)
	concurrency = max(concurrency, 1)

	for next := 2; next <= last; next += concurrency {
		batch := make([][]T, min(concurrency, last-next+1))
		g, gctx := errgroup.WithContext(ctx)
		for i := range batch {
			n := next + i
			g.Go(func() error {
				p, err := c.List(gctx, n, size)
				if err != nil {
					return fmt.Errorf("page %d: %w", n, err)
				}
				batch[i] = p.Items
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for _, items := range batch {
			if len(items) == 0 {
				return rv, nil
			}
			rv = append(rv, items...)
		}
	}
	return rv, nil
}

// lastPage bounds the reported page count by ceil(totalItems/size)
func lastPage[T any](first listsync.Page[T], size int) int {
	if len(first.Items) == 0 {
		return 1
	}
	last := first.TotalPages
	if size > 0 && first.TotalItems >= len(first.Items) {
		byItems := first.TotalItems / size
		if first.TotalItems%size != 0 {
			byItems++
		}
		last = min(last, byItems)
	}
	return last
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	raw, err := c.api.Get(ctx, c.kind, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return normalize.DecodeItem[T](raw, c.kind.Singular)
}

func (c *Collection[T]) Create(ctx context.Context, item T) error {
	_, err := c.api.Create(ctx, c.kind, item.Payload())
	return err
}

func (c *Collection[T]) Update(ctx context.Context, id string, item T) error {
	_, err := c.api.Update(ctx, c.kind, id, item.Payload())
	return err
}

func (c *Collection[T]) Remove(ctx context.Context, id string) error {
	return c.api.Delete(ctx, c.kind, id)
}
