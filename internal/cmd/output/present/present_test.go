package present

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowMatchesColumns(t *testing.T) {
	items := []content.Item{
		content.Blog{ID: "64b7f0c2a1b2c3d4e5f60718", Title: "Hello"},
		content.News{ID: "64b7f0c2a1b2c3d4e5f60719", Title: "Update", Featured: true},
		content.Testimonial{ID: "64b7f0c2a1b2c3d4e5f60720", Name: "Ada", Rating: 4},
	}
	kinds := []content.Kind{content.Blogs, content.NewsKind, content.Testimonials}
	for i, item := range items {
		assert.Len(t, Row(item), len(Columns(kinds[i])), kinds[i].Name)
	}
}

func TestRowFlattensText(t *testing.T) {
	row := Row(content.Blog{Title: "T", Summary: "line one\n\n  line two"})
	assert.Equal(t, "line one line two", row[2])
	assert.Equal(t, "-", row[4])
}

func TestRecordUsesMissingMarker(t *testing.T) {
	rec, ok := Record(content.Blog{Title: "Only a title"}).(blogRecord)
	require.True(t, ok)
	assert.Equal(t, "n/a", rec.ID)
	assert.Equal(t, "n/a", rec.Summary)
	assert.Equal(t, "n/a", rec.LocalUpdatedTime)
	assert.Equal(t, "Only a title", rec.Title)
}

func TestRecordTruncatesWideCells(t *testing.T) {
	long := strings.Repeat("記事", 40)
	rec := Record(content.News{Title: long}).(newsRecord)
	assert.LessOrEqual(t, runewidth.StringWidth(rec.Title), TextCellWidth)
	assert.True(t, strings.HasSuffix(rec.Title, "…"))
}

func TestRecordsAreTyped(t *testing.T) {
	out := Records([]content.Item{
		content.Testimonial{Name: "A", Rating: 5},
		content.Testimonial{Name: "B", Rating: 3},
	})
	recs, ok := out.([]testimonialRecord)
	require.True(t, ok)
	require.Len(t, recs, 2)
	assert.Equal(t, "3/5", recs[1].Rating)

	_, ok = Records(nil).([]struct{ ID string })
	assert.True(t, ok)
}

func TestMarkdownSummarisesImages(t *testing.T) {
	md := Markdown(content.Blog{
		Title:  "Launch *day*",
		Images: []string{"data:image/png;base64,AAAA"},
		SEO:    content.SEO{Title: "Launch"},
	})
	assert.Contains(t, md, `# Launch \*day\*`)
	assert.Contains(t, md, "## Images")
	assert.NotContains(t, md, "base64,AAAA")
	assert.Contains(t, md, "## SEO")
}

func TestMarkdownQuotesTestimonial(t *testing.T) {
	md := Markdown(content.Testimonial{Name: "Ada", Description: "Great\nservice", Rating: 5})
	assert.Contains(t, md, "> Great\n> service")
	assert.Contains(t, md, "★★★★★")
	assert.NotContains(t, md, "## Images")
}
