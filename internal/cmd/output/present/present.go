// Package present turns content items into the shapes each output needs:
// text records for the cli printer, table rows for the browser and
// markdown for detail views.
package present

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/pressroom/pressctl/internal/util"
)

const (
	missing = "n/a"
	// TextCellWidth bounds free text columns in text output
	TextCellWidth = 48
)

type Column struct {
	Title string
	Width int
}

// Columns returns the browser table layout for kind
func Columns(kind content.Kind) []Column {
	switch kind.Name {
	case content.Blogs.Name:
		return []Column{{"ID", 9}, {"Title", 32}, {"Summary", 40}, {"Date", 10}, {"Images", 6}}
	case content.NewsKind.Name:
		return []Column{{"ID", 9}, {"Title", 30}, {"Category", 12}, {"Author", 16}, {"Date", 10}, {"★", 1}}
	case content.Testimonials.Name:
		return []Column{{"ID", 9}, {"Name", 20}, {"Rating", 5}, {"Description", 44}, {"Date", 10}}
	}
	return []Column{{"ID", 9}, {"Name", 40}}
}

// Row returns the cells for item in Columns order. Cells are not truncated;
// the table does that for its own widths.
func Row(item content.Item) []string {
	switch v := item.(type) {
	case content.Blog:
		return []string{util.AbbreviateID(v.ID), v.Title, oneLine(v.Summary), v.Date.String(), count(len(v.Images))}
	case content.News:
		featured := ""
		if v.Featured {
			featured = "★"
		}
		return []string{util.AbbreviateID(v.ID), v.Title, v.Category, v.Author, v.Date.String(), featured}
	case content.Testimonial:
		return []string{util.AbbreviateID(v.ID), v.Name, v.Stars(), oneLine(v.Description), v.Date.String()}
	}
	return []string{util.AbbreviateID(item.GetID()), item.DisplayName()}
}

type blogRecord struct {
	ID               string
	Title            string
	Summary          string
	Date             string
	Images           string
	SEOTitle         string
	LocalUpdatedTime string
}

type newsRecord struct {
	ID               string
	Title            string
	Category         string
	Author           string
	Date             string
	Tags             string
	Featured         string
	LocalUpdatedTime string
}

type testimonialRecord struct {
	ID          string
	Name        string
	Rating      string
	Description string
	Date        string
}

// Record returns the text display record for a single item
func Record(item content.Item) any {
	switch v := item.(type) {
	case content.Blog:
		return blogRecord{
			ID:               orMissing(v.ID),
			Title:            cell(v.Title),
			Summary:          cell(v.Summary),
			Date:             orMissing(v.Date.String()),
			Images:           count(len(v.Images)),
			SEOTitle:         cell(v.SEO.Title),
			LocalUpdatedTime: localTime(v.UpdatedAt),
		}
	case content.News:
		return newsRecord{
			ID:               orMissing(v.ID),
			Title:            cell(v.Title),
			Category:         orMissing(v.Category),
			Author:           cell(v.Author),
			Date:             orMissing(v.Date.String()),
			Tags:             cell(v.Tags.String()),
			Featured:         fmt.Sprint(v.Featured),
			LocalUpdatedTime: localTime(v.UpdatedAt),
		}
	case content.Testimonial:
		return testimonialRecord{
			ID:          orMissing(v.ID),
			Name:        cell(v.Name),
			Rating:      fmt.Sprintf("%d/%d", v.Rating, content.MaxRating),
			Description: cell(v.Description),
			Date:        orMissing(v.Date.String()),
		}
	}
	return struct{ ID, Name string }{orMissing(item.GetID()), cell(item.DisplayName())}
}

// Records returns a typed slice of text records so the printer lays them
// out as one table
func Records(items []content.Item) any {
	if len(items) == 0 {
		return []struct{ ID string }{}
	}
	switch items[0].(type) {
	case content.Blog:
		return records[blogRecord](items)
	case content.News:
		return records[newsRecord](items)
	case content.Testimonial:
		return records[testimonialRecord](items)
	}
	rv := make([]any, len(items))
	for i, item := range items {
		rv[i] = Record(item)
	}
	return rv
}

func records[R any](items []content.Item) []R {
	rv := make([]R, 0, len(items))
	for _, item := range items {
		if r, ok := Record(item).(R); ok {
			rv = append(rv, r)
		}
	}
	return rv
}

// cell flattens s to one line and truncates it to TextCellWidth cells
func cell(s string) string {
	s = oneLine(s)
	if s == "" {
		return missing
	}
	return runewidth.Truncate(s, TextCellWidth, "…")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}

func count(n int) string {
	if n == 0 {
		return "-"
	}
	return fmt.Sprint(n)
}

func localTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return missing
	}
	return t.In(time.Local).Format("2006-01-02 15:04:05")
}
