package normalizers

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const Indentation = `  `

type source struct {
	string
}

// LongDesc normalizes a command's long description following
// a convention
func LongDesc(s string) string {
	return source{s}.trim().string
}

// Examples normalizes a command's examples following
// a convention
func Examples(s string) string {
	if len(s) == 0 {
		return s
	}
	return source{s}.trim().indent().string
}

// Title upper-cases the first letter of every word, used for resource labels
// in prompts and headings ("news article" -> "News Article").
func Title(s string) string {
	return cases.Title(language.English).String(s)
}

func (s source) trim() source {
	s.string = strings.TrimSpace(s.string)
	return s
}

func (s source) indent() source {
	lines := strings.Split(s.string, "\n")
	for i, line := range lines {
		lines[i] = Indentation + strings.TrimSpace(line)
	}
	s.string = strings.Join(lines, "\n")
	return s
}
