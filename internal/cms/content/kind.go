package content

import (
	"fmt"
	"strings"
)

// Kind describes one collection on the backend
type Kind struct {
	// Name is the plural, used in commands and as the collection path
	Name string
	// Singular is used for single item commands ("get blog <id>")
	Singular string
	// Label is the human noun ("news article")
	Label string
	// ItemsKey is the list field in collection responses
	ItemsKey string
	Aliases  []string
}

// Path returns the collection path, or the item path when id is given
func (k Kind) Path(id string) string {
	if id == "" {
		return "/" + k.Name
	}
	return "/" + k.Name + "/" + id
}

var (
	Blogs = Kind{
		Name:     "blogs",
		Singular: "blog",
		Label:    "blog post",
		ItemsKey: "blogs",
		Aliases:  []string{"blog", "b"},
	}
	NewsKind = Kind{
		Name:     "news",
		Singular: "news",
		Label:    "news article",
		ItemsKey: "news",
		Aliases:  []string{"article", "articles", "n"},
	}
	Testimonials = Kind{
		Name:     "testimonials",
		Singular: "testimonial",
		Label:    "testimonial",
		ItemsKey: "testimonials",
		Aliases:  []string{"testimonial", "t"},
	}

	// Kinds lists every collection in the order views cycle through them
	Kinds = []Kind{Blogs, NewsKind, Testimonials}
)

// LookupKind resolves a collection by name, singular or alias
func LookupKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range Kinds {
		if name == k.Name || name == k.Singular {
			return k, nil
		}
		for _, a := range k.Aliases {
			if name == a {
				return k, nil
			}
		}
	}
	names := make([]string, 0, len(Kinds))
	for _, k := range Kinds {
		names = append(names, k.Name)
	}
	return Kind{}, fmt.Errorf("unknown collection %q, must be one of %s", name, strings.Join(names, ", "))
}

// Next returns the collection after k, wrapping around
func (k Kind) Next() Kind {
	for i, candidate := range Kinds {
		if candidate.Name == k.Name {
			return Kinds[(i+1)%len(Kinds)]
		}
	}
	return Kinds[0]
}
