// Package content holds the three item types the backend stores and the
// rules a form submission must satisfy before it is sent.
package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Item is implemented by Blog, News and Testimonial
type Item interface {
	// GetID returns the server assigned identifier, empty before creation
	GetID() string
	// DisplayName is the short label used in prompts and messages
	DisplayName() string
	// Validate checks the form rules. A non-nil result is always a
	// *err.ValidationFailure.
	Validate() error
	// Payload returns the request body for create and update, with
	// server managed fields removed
	Payload() any
}

// SEO fields are flattened into each item on the wire
type SEO struct {
	FocusKeyword    string `json:"seoFocusKeyword,omitempty"`
	Title           string `json:"seoTitle,omitempty"`
	MetaDescription string `json:"seoMetaDescription,omitempty"`
}

const MaxMetaDescription = 160

const dateLayout = "2006-01-02"

// Date is a calendar day. It is entered as YYYY-MM-DD, sent as RFC 3339 at
// UTC midnight and accepts either form when decoding.
type Date struct {
	time.Time
}

// ParseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{t.UTC()}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	y, m, d := t.UTC().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}, nil
}

// Today returns the current day, the default for new items
func Today() Date {
	y, m, d := time.Now().UTC().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.UTC().Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.UTC().Format(time.RFC3339))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Tags decode from a JSON array or from comma separated text, which is how
// they are typed in forms and input files.
type Tags []string

// ParseTags splits comma separated text, trimming entries and dropping
// empty ones
func ParseTags(text string) Tags {
	rv := Tags{}
	for _, part := range strings.Split(text, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			rv = append(rv, tag)
		}
	}
	return rv
}

func (t Tags) String() string {
	return strings.Join(t, ", ")
}

func (t *Tags) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*t = ParseTags(strings.Join(list, ","))
		return nil
	}
	var text string
	if err := json.Unmarshal(b, &text); err != nil {
		return fmt.Errorf("tags must be a list or comma separated text")
	}
	*t = ParseTags(text)
	return nil
}

// runeLen counts characters the way a form's maxlength does
func runeLen(s string) int {
	return len([]rune(s))
}
