package content

import (
	"time"

	perr "github.com/pressroom/pressctl/internal/err"
)

type Blog struct {
	ID      string   `json:"_id,omitempty"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Content string   `json:"content,omitempty"`
	Date    Date     `json:"date"`
	Images  []string `json:"images,omitempty"`
	SEO
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func NewBlog() Blog {
	return Blog{Date: Today()}
}

func (b Blog) GetID() string       { return b.ID }
func (b Blog) DisplayName() string { return b.Title }

func (b Blog) Validate() error {
	v := &perr.ValidationFailure{Resource: "blog"}
	v.Require("title", b.Title)
	v.Require("summary", b.Summary)
	if b.Date.IsZero() {
		v.Reject("date", "is required")
	}
	validateSEO(v, b.SEO)
	return v.OrNil()
}

func (b Blog) Payload() any {
	b.ID = ""
	b.CreatedAt = nil
	b.UpdatedAt = nil
	return b
}

func validateSEO(v *perr.ValidationFailure, seo SEO) {
	if runeLen(seo.MetaDescription) > MaxMetaDescription {
		v.Reject("seoMetaDescription", "must be at most 160 characters")
	}
}
