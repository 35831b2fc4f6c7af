package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExamplesIndentsEveryLine(t *testing.T) {
	got := Examples(`
	# list blogs
	pressctl list blogs
	`)
	assert.Equal(t, "  # list blogs\n  pressctl list blogs", got)
	assert.Empty(t, Examples(""))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "News Article", Title("news article"))
	assert.Equal(t, "Testimonial", Title("testimonial"))
}
