// Package normalize reshapes the list payloads the backend has been seen to
// return into a single page shape.
//
// Accepted shapes, for items key "blogs":
//
//	{"data": {"blogs": [...], "currentPage": 2, "totalPages": 4}}
//	{"blogs": [...], "page": 2, "totalPages": 4, "totalBlogs": 37}
//	[...]
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pressroom/pressctl/internal/cms/listsync"
	"github.com/tidwall/gjson"
)

// Raw is a normalized page whose items have not been decoded yet
type Raw struct {
	Items      []json.RawMessage
	Page       int
	TotalPages int
	TotalItems int
}

var (
	pageKeys       = []string{"page", "currentPage"}
	totalPageKeys  = []string{"totalPages", "pages"}
	metaContainers = []string{"pagination", "meta"}
)

// Parse never fails: anything that is not one of the known shapes yields an
// empty first page.
func Parse(raw []byte, itemsKey string) Raw {
	if itemsKey == "" {
		itemsKey = "items"
	}
	root := gjson.ParseBytes(raw)

	if root.IsArray() {
		items := rawItems(root)
		return Raw{Items: items, Page: 1, TotalPages: 1, TotalItems: len(items)}
	}

	container := root
	if data := root.Get("data"); data.IsObject() && data.Get(itemsKey).Exists() {
		container = data
	}

	var items []json.RawMessage
	switch list := container.Get(itemsKey); {
	case list.IsArray():
		items = rawItems(list)
	case !list.Exists() && root.Get("data").IsArray():
		items = rawItems(root.Get("data"))
	}

	scopes := []gjson.Result{container}
	if container.Raw != root.Raw {
		scopes = append(scopes, root)
	}
	for _, name := range metaContainers {
		if m := root.Get(name); m.IsObject() {
			scopes = append(scopes, m)
		}
	}

	rv := Raw{
		Items:      items,
		Page:       firstPositive(scopes, pageKeys, 1),
		TotalPages: firstPositive(scopes, totalPageKeys, 1),
	}
	totalKeys := []string{"totalItems", "total" + capitalize(itemsKey), "total", "count"}
	rv.TotalItems = firstNonNegative(scopes, totalKeys, len(items))
	return rv
}

// Decode parses raw and unmarshals every item into T
func Decode[T any](raw []byte, itemsKey string) (listsync.Page[T], error) {
	r := Parse(raw, itemsKey)
	items := make([]T, 0, len(r.Items))
	for i, msg := range r.Items {
		var item T
		if err := json.Unmarshal(msg, &item); err != nil {
			return listsync.Page[T]{}, fmt.Errorf("decoding %s item %d: %w", itemsKey, i, err)
		}
		items = append(items, item)
	}
	return listsync.Page[T]{
		Items:      items,
		Page:       r.Page,
		TotalPages: r.TotalPages,
		TotalItems: r.TotalItems,
	}, nil
}

func rawItems(list gjson.Result) []json.RawMessage {
	arr := list.Array()
	rv := make([]json.RawMessage, 0, len(arr))
	for _, el := range arr {
		rv = append(rv, json.RawMessage(el.Raw))
	}
	return rv
}

func firstPositive(scopes []gjson.Result, keys []string, orElse int) int {
	for _, s := range scopes {
		for _, k := range keys {
			if v, ok := number(s.Get(k)); ok && v > 0 {
				return v
			}
		}
	}
	return orElse
}

func firstNonNegative(scopes []gjson.Result, keys []string, orElse int) int {
	for _, s := range scopes {
		for _, k := range keys {
			if v, ok := number(s.Get(k)); ok && v >= 0 {
				return v
			}
		}
	}
	return orElse
}

// number accepts JSON numbers and numeric strings ("3"), which some
// backends emit for query-string derived values.
func number(r gjson.Result) (int, bool) {
	switch r.Type {
	case gjson.Number:
		return int(r.Int()), true
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if s == "" {
			return 0, false
		}
		for _, c := range s {
			if c < '0' || c > '9' {
				return 0, false
			}
		}
		return int(r.Int()), true
	default:
		return 0, false
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Item unwraps a single item response. The item may be the body itself or
// sit under "data" or under its singular name ({"blog": {...}}).
func Item(raw []byte, singularKey string) []byte {
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return raw
	}
	if data := root.Get("data"); data.IsObject() {
		root = data
	}
	if singularKey != "" {
		if inner := root.Get(singularKey); inner.IsObject() {
			return []byte(inner.Raw)
		}
	}
	return []byte(root.Raw)
}

// DecodeItem unwraps raw with Item and unmarshals it into T
func DecodeItem[T any](raw []byte, singularKey string) (T, error) {
	var rv T
	if err := json.Unmarshal(Item(raw, singularKey), &rv); err != nil {
		return rv, fmt.Errorf("decoding %s: %w", singularKey, err)
	}
	return rv, nil
}
