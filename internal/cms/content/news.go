package content

import (
	"fmt"
	"slices"
	"strings"
	"time"

	perr "github.com/pressroom/pressctl/internal/err"
)

const (
	MaxExcerpt      = 300
	DefaultCategory = "General"
)

// Categories the backend accepts for news, in form order
var Categories = []string{"Medical", "Legal", "Healthcare", "Law Updates", "Research", "General"}

type News struct {
	ID       string   `json:"_id,omitempty"`
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content,omitempty"`
	Category string   `json:"category"`
	Author   string   `json:"author"`
	Date     Date     `json:"date"`
	Tags     Tags     `json:"tags"`
	Featured bool     `json:"featured"`
	Images   []string `json:"images,omitempty"`
	SEO
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func NewNews() News {
	return News{Category: DefaultCategory, Date: Today(), Tags: Tags{}}
}

func (n News) GetID() string       { return n.ID }
func (n News) DisplayName() string { return n.Title }

func (n News) Validate() error {
	v := &perr.ValidationFailure{Resource: "news"}
	v.Require("title", n.Title)
	v.Require("excerpt", n.Excerpt)
	if runeLen(n.Excerpt) > MaxExcerpt {
		v.Reject("excerpt", fmt.Sprintf("must be at most %d characters", MaxExcerpt))
	}
	if !slices.Contains(Categories, n.Category) {
		v.Reject("category", "must be one of "+strings.Join(Categories, ", "))
	}
	v.Require("author", n.Author)
	if n.Date.IsZero() {
		v.Reject("date", "is required")
	}
	validateSEO(v, n.SEO)
	return v.OrNil()
}

func (n News) Payload() any {
	n.ID = ""
	n.CreatedAt = nil
	n.UpdatedAt = nil
	if n.Tags == nil {
		n.Tags = Tags{}
	}
	return n
}
