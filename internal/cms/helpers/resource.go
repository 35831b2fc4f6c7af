package helpers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pressroom/pressctl/internal/cms/client"
	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/pressroom/pressctl/internal/cms/listsync"
)

// Resource is a Collection with the item type erased, for code that picks
// the collection at run time (command arguments, the browser's tab key).
type Resource interface {
	Kind() content.Kind
	// New returns a blank item with form defaults applied
	New() content.Item
	// Overlay decodes a JSON document on top of base. Fields missing from
	// doc keep their value from base.
	Overlay(base content.Item, doc []byte) (content.Item, error)
	List(ctx context.Context, page, size int) (listsync.Page[content.Item], error)
	FetchPage(size int) listsync.FetchFunc[content.Item]
	FetchAll(ctx context.Context, size, concurrency int) ([]content.Item, error)
	Get(ctx context.Context, id string) (content.Item, error)
	Create(ctx context.Context, item content.Item) error
	Update(ctx context.Context, id string, item content.Item) error
	Remove(ctx context.Context, id string) error
}

// ForKind returns the Resource for kind
func ForKind(api client.API, kind content.Kind) (Resource, error) {
	switch kind.Name {
	case content.Blogs.Name:
		return erased[content.Blog]{NewCollection(api, kind, content.NewBlog)}, nil
	case content.NewsKind.Name:
		return erased[content.News]{NewCollection(api, kind, content.NewNews)}, nil
	case content.Testimonials.Name:
		return erased[content.Testimonial]{NewCollection(api, kind, content.NewTestimonial)}, nil
	}
	return nil, fmt.Errorf("unknown collection %q", kind.Name)
}

type erased[T content.Item] struct {
	c *Collection[T]
}

func (e erased[T]) Kind() content.Kind { return e.c.kind }

func (e erased[T]) New() content.Item { return e.c.newItem() }

func (e erased[T]) Overlay(base content.Item, doc []byte) (content.Item, error) {
	item, err := e.cast(base)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(doc, &item); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", e.c.kind.Label, err)
	}
	return item, nil
}

func (e erased[T]) List(ctx context.Context, page, size int) (listsync.Page[content.Item], error) {
	p, err := e.c.List(ctx, page, size)
	return widen(p), err
}

func (e erased[T]) FetchPage(size int) listsync.FetchFunc[content.Item] {
	return func(ctx context.Context, page int) (listsync.Page[content.Item], error) {
		return e.List(ctx, page, size)
	}
}

func (e erased[T]) FetchAll(ctx context.Context, size, concurrency int) ([]content.Item, error) {
	items, err := e.c.FetchAll(ctx, size, concurrency)
	if err != nil {
		return nil, err
	}
	return widenItems(items), nil
}

func (e erased[T]) Get(ctx context.Context, id string) (content.Item, error) {
	item, err := e.c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (e erased[T]) Create(ctx context.Context, item content.Item) error {
	typed, err := e.cast(item)
	if err != nil {
		return err
	}
	return e.c.Create(ctx, typed)
}

func (e erased[T]) Update(ctx context.Context, id string, item content.Item) error {
	typed, err := e.cast(item)
	if err != nil {
		return err
	}
	return e.c.Update(ctx, id, typed)
}

func (e erased[T]) Remove(ctx context.Context, id string) error {
	return e.c.Remove(ctx, id)
}

func (e erased[T]) cast(item content.Item) (T, error) {
	if item == nil {
		return e.c.newItem(), nil
	}
	typed, ok := item.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%T is not a %s", item, e.c.kind.Label)
	}
	return typed, nil
}

func widen[T content.Item](p listsync.Page[T]) listsync.Page[content.Item] {
	return listsync.Page[content.Item]{
		Items:      widenItems(p.Items),
		Page:       p.Page,
		TotalPages: p.TotalPages,
		TotalItems: p.TotalItems,
	}
}

func widenItems[T content.Item](items []T) []content.Item {
	rv := make([]content.Item, len(items))
	for i, item := range items {
		rv[i] = item
	}
	return rv
}
