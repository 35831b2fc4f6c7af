// Package theme holds the colour palettes used by the interactive browser.
// Palettes are derived from a handful of seed colours so every theme shares
// the same semantic slots.
package theme

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultName is used when no theme is configured
const DefaultName = "press"

// Token names a semantic colour slot
type Token string

const (
	ColorTextPrimary Token = "text.primary"
	ColorTextMuted   Token = "text.muted"
	ColorBorder      Token = "border"
	ColorSurface     Token = "surface"
	ColorPrimary     Token = "primary"
	ColorPrimaryText Token = "primary.text"
	ColorAccent      Token = "accent"
	ColorSuccess     Token = "success"
	ColorWarning     Token = "warning"
	ColorDanger      Token = "danger"
	ColorDangerText  Token = "danger.text"
	ColorHighlight   Token = "highlight"
)

// Color stores light and dark terminal variants
type Color struct {
	Light string
	Dark  string
}

func (c Color) Adaptive() lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: c.Light, Dark: c.Dark}
}

type Palette struct {
	Name        string
	DisplayName string
	Colors      map[Token]Color
}

// Color returns the colour for token, falling back to the default palette
func (p Palette) Color(token Token) Color {
	if c, ok := p.Colors[token]; ok {
		return c
	}
	if c, ok := builtin()[DefaultName].Colors[token]; ok {
		return c
	}
	return Color{Light: "#000000", Dark: "#FFFFFF"}
}

func (p Palette) Adaptive(token Token) lipgloss.AdaptiveColor {
	return p.Color(token).Adaptive()
}

func (p Palette) ForegroundStyle(token Token) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.Adaptive(token))
}

func (p Palette) BackgroundStyle(token Token) lipgloss.Style {
	return lipgloss.NewStyle().Background(p.Adaptive(token))
}

type contextKey struct{}

var (
	registryOnce sync.Once
	palettes     map[string]Palette

	currentMu sync.RWMutex
	current   Palette
)

func ContextWithPalette(ctx context.Context, p Palette) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the palette on ctx, or the current one
func FromContext(ctx context.Context) Palette {
	if ctx != nil {
		if p, ok := ctx.Value(contextKey{}).(Palette); ok {
			return p
		}
	}
	return Current()
}

// Available returns the registered theme names, sorted
func Available() []string {
	names := make([]string, 0, len(builtin()))
	for k := range builtin() {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func Get(name string) (Palette, bool) {
	p, ok := builtin()[sanitizeName(name)]
	return p, ok
}

// SetCurrent activates the named palette; an empty name selects the default
func SetCurrent(name string) error {
	name = sanitizeName(name)
	if name == "" {
		name = DefaultName
	}
	p, ok := Get(name)
	if !ok {
		return fmt.Errorf("unknown color theme %q, must be one of %s", name, strings.Join(Available(), ", "))
	}
	currentMu.Lock()
	current = p
	currentMu.Unlock()
	return nil
}

func Current() Palette {
	currentMu.RLock()
	p := current
	currentMu.RUnlock()
	if p.Name == "" {
		return builtin()[DefaultName]
	}
	return p
}

// Flag is a pflag.Value restricted to registered theme names
type Flag struct {
	value string
}

func NewFlag(defaultValue string) *Flag {
	if _, ok := Get(defaultValue); !ok {
		defaultValue = DefaultName
	}
	return &Flag{value: sanitizeName(defaultValue)}
}

func (f *Flag) String() string {
	if f == nil || f.value == "" {
		return DefaultName
	}
	return f.value
}

func (f *Flag) Set(v string) error {
	if _, ok := Get(v); !ok {
		return fmt.Errorf("invalid color theme %q, must be one of %s", v, strings.Join(Available(), ", "))
	}
	f.value = sanitizeName(v)
	return nil
}

func (f *Flag) Type() string {
	return "string"
}

func builtin() map[string]Palette {
	registryOnce.Do(func() {
		palettes = map[string]Palette{}
		for _, s := range seeds {
			p := s.palette()
			palettes[p.Name] = p
		}
	})
	return palettes
}

// seed is the minimum a palette is derived from
type seed struct {
	name    string
	display string
	primary string
	accent  string
	danger  string
	success string
	warning string
	// ink is the darkest text colour, paper the lightest background
	ink   string
	paper string
}

var seeds = []seed{
	{
		name: DefaultName, display: "Press",
		primary: "#1D4ED8", accent: "#0EA5E9", danger: "#DC2626", success: "#16A34A", warning: "#D97706",
		ink: "#111827", paper: "#F9FAFB",
	},
	{
		name: "newsprint", display: "Newsprint",
		primary: "#3F3F46", accent: "#A16207", danger: "#B91C1C", success: "#3F6212", warning: "#B45309",
		ink: "#18181B", paper: "#FAFAF9",
	},
	{
		name: "evergreen", display: "Evergreen",
		primary: "#047857", accent: "#0D9488", danger: "#BE123C", success: "#15803D", warning: "#CA8A04",
		ink: "#052E16", paper: "#F0FDF4",
	},
	{
		name: "mono", display: "Monochrome",
		primary: "#404040", accent: "#737373", danger: "#262626", success: "#525252", warning: "#A3A3A3",
		ink: "#0A0A0A", paper: "#FAFAFA",
	},
}

func (s seed) palette() Palette {
	colors := map[Token]Color{
		ColorTextPrimary: {Light: s.ink, Dark: s.paper},
		ColorTextMuted:   {Light: blend(s.ink, s.paper, 0.45), Dark: blend(s.paper, s.ink, 0.4)},
		ColorBorder:      {Light: blend(s.ink, s.paper, 0.75), Dark: blend(s.paper, s.ink, 0.7)},
		ColorSurface:     {Light: s.paper, Dark: s.ink},
		ColorPrimary:     {Light: s.primary, Dark: lighten(s.primary, 0.3)},
		ColorAccent:      {Light: s.accent, Dark: lighten(s.accent, 0.2)},
		ColorSuccess:     {Light: s.success, Dark: lighten(s.success, 0.25)},
		ColorWarning:     {Light: s.warning, Dark: lighten(s.warning, 0.2)},
		ColorDanger:      {Light: s.danger, Dark: lighten(s.danger, 0.2)},
		ColorHighlight:   {Light: blend(s.primary, s.paper, 0.85), Dark: blend(s.primary, s.ink, 0.6)},
	}
	colors[ColorPrimaryText] = contrastPair(colors[ColorPrimary])
	colors[ColorDangerText] = contrastPair(colors[ColorDanger])
	return Palette{Name: s.name, DisplayName: s.display, Colors: colors}
}

func contrastPair(c Color) Color {
	return Color{Light: contrast(c.Light), Dark: contrast(c.Dark)}
}

// blend mixes from towards to by t in Lab space
func blend(from, to string, t float64) string {
	a, err := colorful.Hex(from)
	if err != nil {
		return from
	}
	b, err := colorful.Hex(to)
	if err != nil {
		return from
	}
	return strings.ToUpper(a.BlendLab(b, clamp(t)).Clamped().Hex())
}

func lighten(hex string, t float64) string {
	return blend(hex, "#FFFFFF", t)
}

func contrast(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "#FFFFFF"
	}
	r, g, b := c.LinearRgb()
	if 0.2126*r+0.7152*g+0.0722*b > 0.45 {
		return "#111111"
	}
	return "#FFFFFF"
}

func clamp(v float64) float64 {
	return min(max(v, 0), 1)
}

func sanitizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
