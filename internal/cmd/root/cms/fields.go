package cms

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	cmdpkg "github.com/pressroom/pressctl/internal/cmd"
	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/pressroom/pressctl/internal/cms/helpers"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"sigs.k8s.io/yaml"
)

type fieldType int

const (
	stringField fieldType = iota
	// textField accepts @path to read the value from a file
	textField
	dateField
	tagsField
	intField
	boolField
)

// field maps one command line flag onto one wire field
type field struct {
	flag  string
	key   string
	typ   fieldType
	usage string
}

var seoFields = []field{
	{"seo-focus-keyword", "seoFocusKeyword", stringField, "SEO focus keyword"},
	{"seo-title", "seoTitle", stringField, "SEO title"},
	{"seo-meta-description", "seoMetaDescription", stringField,
		fmt.Sprintf("SEO meta description, at most %d characters", content.MaxMetaDescription)},
}

func fieldsFor(kind content.Kind) []field {
	switch kind.Name {
	case content.Blogs.Name:
		return append([]field{
			{"title", "title", stringField, "Post title (required)"},
			{"summary", "summary", textField, "Short summary shown in listings (required)"},
			{"content", "content", textField, "Post body, or @file to read it from a file"},
			{"date", "date", dateField, "Publication date as YYYY-MM-DD (defaults to today)"},
		}, seoFields...)
	case content.NewsKind.Name:
		return append([]field{
			{"title", "title", stringField, "Article title (required)"},
			{"excerpt", "excerpt", textField,
				fmt.Sprintf("Excerpt, at most %d characters (required)", content.MaxExcerpt)},
			{"content", "content", textField, "Article body, or @file to read it from a file"},
			{"category", "category", stringField,
				fmt.Sprintf("One of %s (defaults to %s)", strings.Join(content.Categories, ", "), content.DefaultCategory)},
			{"author", "author", stringField, "Author name (required)"},
			{"date", "date", dateField, "Publication date as YYYY-MM-DD (defaults to today)"},
			{"tags", "tags", tagsField, "Comma separated tags"},
			{"featured", "featured", boolField, "Mark the article as featured"},
		}, seoFields...)
	case content.Testimonials.Name:
		return []field{
			{"name", "name", stringField, "Name of the person quoted (required)"},
			{"description", "description", textField,
				fmt.Sprintf("Testimonial text, at most %d characters (required)", content.MaxDescription)},
			{"date", "date", dateField, "Date as YYYY-MM-DD (defaults to today)"},
			{"rating", "rating", intField,
				fmt.Sprintf("Rating from %d to %d (defaults to %d)", content.MinRating, content.MaxRating, content.DefaultRating)},
		}
	}
	return nil
}

func addFieldFlags(kind content.Kind, cmd *cobra.Command) {
	flags := cmd.Flags()
	for _, f := range fieldsFor(kind) {
		switch f.typ {
		case intField:
			flags.Int(f.flag, 0, f.usage)
		case boolField:
			flags.Bool(f.flag, false, f.usage)
		default:
			flags.String(f.flag, "", f.usage)
		}
	}

	if kind.Name == content.Testimonials.Name {
		flags.String(ImageFlagName, "", "Path to a photo, stored inline as a data URL")
	} else {
		flags.StringSlice(ImageFlagName, nil,
			"Path to an image, stored inline as a data URL. Repeat to attach several; replaces existing images")
	}

	flags.StringP(FileFlagName, FileFlagShort, "",
		"YAML or JSON file with the item fields, or - to read standard input. Flags override file values")
}

// overlayInput applies the -f document and then the field flags on top of
// item. changed reports whether any input was given.
func overlayInput(cmd *cobra.Command, resource helpers.Resource, item content.Item, stdin io.Reader,
) (rv content.Item, changed bool, err error) {
	rv = item
	flags := cmd.Flags()

	if path, _ := flags.GetString(FileFlagName); path != "" {
		doc, err := readInputFile(path, stdin)
		if err != nil {
			return nil, false, &cmdpkg.ConfigurationError{Err: err}
		}
		if rv, err = resource.Overlay(rv, doc); err != nil {
			return nil, false, &cmdpkg.ConfigurationError{Err: fmt.Errorf("invalid input file %s: %w", path, err)}
		}
		changed = true
	}

	values, err := flagValues(resource.Kind(), flags)
	if err != nil {
		return nil, false, &cmdpkg.ConfigurationError{Err: err}
	}
	if len(values) == 0 {
		return rv, changed, nil
	}
	doc, err := json.Marshal(values)
	if err != nil {
		return nil, false, err
	}
	if rv, err = resource.Overlay(rv, doc); err != nil {
		return nil, false, &cmdpkg.ConfigurationError{Err: err}
	}
	return rv, true, nil
}

// flagValues collects the changed field flags as wire keys and values
func flagValues(kind content.Kind, flags *pflag.FlagSet) (map[string]any, error) {
	values := map[string]any{}
	for _, f := range fieldsFor(kind) {
		if !flags.Changed(f.flag) {
			continue
		}
		switch f.typ {
		case intField:
			v, _ := flags.GetInt(f.flag)
			values[f.key] = v
		case boolField:
			v, _ := flags.GetBool(f.flag)
			values[f.key] = v
		case dateField:
			s, _ := flags.GetString(f.flag)
			d, err := content.ParseDate(s)
			if err != nil {
				return nil, fmt.Errorf("--%s: %w", f.flag, err)
			}
			values[f.key] = d
		case tagsField:
			s, _ := flags.GetString(f.flag)
			values[f.key] = content.ParseTags(s)
		case textField:
			s, _ := flags.GetString(f.flag)
			text, err := readTextValue(s)
			if err != nil {
				return nil, fmt.Errorf("--%s: %w", f.flag, err)
			}
			values[f.key] = text
		default:
			s, _ := flags.GetString(f.flag)
			values[f.key] = s
		}
	}

	if !flags.Changed(ImageFlagName) {
		return values, nil
	}
	if kind.Name == content.Testimonials.Name {
		path, _ := flags.GetString(ImageFlagName)
		url := ""
		if path != "" {
			var err error
			if url, err = content.ImageDataURL(path); err != nil {
				return nil, err
			}
		}
		values["imageUrl"] = url
		return values, nil
	}
	paths, _ := flags.GetStringSlice(ImageFlagName)
	urls, err := content.ImageDataURLs(paths)
	if err != nil {
		return nil, err
	}
	values["images"] = urls
	return values, nil
}

// readTextValue resolves @path to the file's contents
func readTextValue(s string) (string, error) {
	path, ok := strings.CutPrefix(s, "@")
	if !ok {
		return s, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}

// readInputFile loads a YAML or JSON document and returns it as JSON
func readInputFile(path string, stdin io.Reader) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		if stdin == nil {
			return nil, fmt.Errorf("no standard input available")
		}
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	doc, err := yaml.YAMLToJSON(b)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if trimmed := strings.TrimSpace(string(doc)); trimmed == "null" || !strings.HasPrefix(trimmed, "{") {
		return nil, fmt.Errorf("%s must contain a single object", path)
	}
	return doc, nil
}
