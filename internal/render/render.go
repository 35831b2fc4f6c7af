// Package render turns the markdown built for item details into terminal
// output.
package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
)

type Options struct {
	// NoColor renders plain text suitable for pipes and logs
	NoColor bool
	// Width wraps at this many cells; zero keeps glamour's default
	Width int
}

var renderers sync.Map

// Markdown renders md for a terminal. Rendering failures fall back to the
// markdown source wrapped at Width.
func Markdown(md string, opts Options) string {
	r, err := renderer(opts)
	if err != nil {
		return fallback(md, opts.Width)
	}
	out, err := r.Render(md)
	if err != nil {
		return fallback(md, opts.Width)
	}
	return tidy(out)
}

func renderer(opts Options) (*glamour.TermRenderer, error) {
	if cached, ok := renderers.Load(opts); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	options := []glamour.TermRendererOption{glamour.WithEmoji()}
	if opts.NoColor {
		options = append(options,
			glamour.WithStandardStyle("notty"),
			glamour.WithColorProfile(termenv.Ascii),
		)
	} else {
		options = append(options,
			glamour.WithAutoStyle(),
			glamour.WithColorProfile(termenv.TrueColor),
		)
	}
	if opts.Width > 0 {
		options = append(options, glamour.WithWordWrap(opts.Width))
	}

	r, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return nil, err
	}
	actual, _ := renderers.LoadOrStore(opts, r)
	return actual.(*glamour.TermRenderer), nil
}

func fallback(md string, width int) string {
	if width <= 0 {
		return strings.TrimSpace(md)
	}
	return strings.TrimSpace(wordwrap.String(md, width))
}

// tidy drops glamour's outer padding and trailing spaces
func tidy(s string) string {
	s = strings.Trim(s, "\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.Join(lines, "\n")
}
