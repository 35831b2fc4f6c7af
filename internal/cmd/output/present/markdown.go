package present

import (
	"fmt"
	"strings"

	"github.com/pressroom/pressctl/internal/cms/content"
)

// Markdown renders item as a markdown document for the detail view and
// "get --output text --detail". Inline images are summarised, never
// dumped.
func Markdown(item content.Item) string {
	var b strings.Builder
	switch v := item.(type) {
	case content.Blog:
		heading(&b, v.Title)
		meta(&b, "Date", v.Date.String())
		meta(&b, "ID", v.ID)
		paragraph(&b, "*"+escape(v.Summary)+"*")
		paragraph(&b, v.Content)
		images(&b, v.Images)
		seo(&b, v.SEO)
	case content.News:
		heading(&b, v.Title)
		meta(&b, "Category", v.Category)
		meta(&b, "Author", v.Author)
		meta(&b, "Date", v.Date.String())
		if v.Featured {
			meta(&b, "Featured", "yes")
		}
		if len(v.Tags) > 0 {
			meta(&b, "Tags", v.Tags.String())
		}
		meta(&b, "ID", v.ID)
		paragraph(&b, "*"+escape(v.Excerpt)+"*")
		paragraph(&b, v.Content)
		images(&b, v.Images)
		seo(&b, v.SEO)
	case content.Testimonial:
		heading(&b, v.Name)
		meta(&b, "Rating", v.Stars())
		meta(&b, "Date", v.Date.String())
		meta(&b, "ID", v.ID)
		paragraph(&b, "> "+strings.ReplaceAll(strings.TrimSpace(v.Description), "\n", "\n> "))
		if v.ImageURL != "" {
			images(&b, []string{v.ImageURL})
		}
	default:
		heading(&b, item.DisplayName())
		meta(&b, "ID", item.GetID())
	}
	return strings.TrimSpace(b.String()) + "\n"
}

func heading(b *strings.Builder, title string) {
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(b, "# %s\n\n", escape(title))
}

func meta(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "- **%s:** %s\n", label, escape(value))
}

func paragraph(b *strings.Builder, text string) {
	text = strings.TrimSpace(text)
	if text == "" || text == "**" {
		return
	}
	fmt.Fprintf(b, "\n%s\n", text)
}

func images(b *strings.Builder, imgs []string) {
	if len(imgs) == 0 {
		return
	}
	b.WriteString("\n## Images\n\n")
	for _, img := range imgs {
		fmt.Fprintf(b, "- %s\n", escape(content.DescribeImage(img)))
	}
}

func seo(b *strings.Builder, s content.SEO) {
	if s == (content.SEO{}) {
		return
	}
	b.WriteString("\n## SEO\n\n")
	meta(b, "Focus keyword", s.FocusKeyword)
	meta(b, "Title", s.Title)
	meta(b, "Meta description", s.MetaDescription)
}

var escaper = strings.NewReplacer("*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`)

// escape neutralises markdown syntax in single line values
func escape(s string) string {
	return escaper.Replace(s)
}
