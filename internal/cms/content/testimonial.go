package content

import (
	"fmt"
	"time"

	perr "github.com/pressroom/pressctl/internal/err"
)

const (
	MaxDescription = 1000
	MinRating      = 1
	MaxRating      = 5
	DefaultRating  = 5
)

type Testimonial struct {
	ID          string     `json:"_id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Date        Date       `json:"date"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	Rating      int        `json:"rating"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func NewTestimonial() Testimonial {
	return Testimonial{Date: Today(), Rating: DefaultRating}
}

func (t Testimonial) GetID() string       { return t.ID }
func (t Testimonial) DisplayName() string { return t.Name }

func (t Testimonial) Validate() error {
	v := &perr.ValidationFailure{Resource: "testimonial"}
	v.Require("name", t.Name)
	v.Require("description", t.Description)
	if runeLen(t.Description) > MaxDescription {
		v.Reject("description", fmt.Sprintf("must be at most %d characters", MaxDescription))
	}
	if t.Date.IsZero() {
		v.Reject("date", "is required")
	}
	if t.Rating < MinRating || t.Rating > MaxRating {
		v.Reject("rating", fmt.Sprintf("must be between %d and %d", MinRating, MaxRating))
	}
	return v.OrNil()
}

func (t Testimonial) Payload() any {
	t.ID = ""
	t.CreatedAt = nil
	t.UpdatedAt = nil
	return t
}

// Stars renders the rating as filled and empty stars
func (t Testimonial) Stars() string {
	rating := min(max(t.Rating, 0), MaxRating)
	rv := ""
	for i := 1; i <= MaxRating; i++ {
		if i <= rating {
			rv += "★"
		} else {
			rv += "☆"
		}
	}
	return rv
}
