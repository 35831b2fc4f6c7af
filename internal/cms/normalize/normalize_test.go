package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blog struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		key        string
		items      int
		page       int
		totalPages int
		totalItems int
	}{
		{
			name: "wrapped in data",
			body: `{"data":{"blogs":[{"_id":"1"},{"_id":"2"}],"currentPage":2,"totalPages":4,"totalBlogs":37}}`,
			key:  "blogs", items: 2, page: 2, totalPages: 4, totalItems: 37,
		},
		{
			name: "top level key",
			body: `{"news":[{"_id":"1"}],"page":3,"totalPages":3,"totalItems":21}`,
			key:  "news", items: 1, page: 3, totalPages: 3, totalItems: 21,
		},
		{
			name: "bare array",
			body: `[{"_id":"1"},{"_id":"2"},{"_id":"3"}]`,
			key:  "testimonials", items: 3, page: 1, totalPages: 1, totalItems: 3,
		},
		{
			name: "missing metadata defaults",
			body: `{"blogs":[{"_id":"1"}]}`,
			key:  "blogs", items: 1, page: 1, totalPages: 1, totalItems: 1,
		},
		{
			name: "non array items become empty",
			body: `{"blogs":{"_id":"1"},"totalPages":2}`,
			key:  "blogs", items: 0, page: 1, totalPages: 2, totalItems: 0,
		},
		{
			name: "unknown object",
			body: `{"status":"ok"}`,
			key:  "blogs", items: 0, page: 1, totalPages: 1, totalItems: 0,
		},
		{
			name: "pagination envelope",
			body: `{"data":[{"_id":"1"}],"pagination":{"page":"2","totalPages":"5","total":41}}`,
			key:  "blogs", items: 1, page: 2, totalPages: 5, totalItems: 41,
		},
		{
			name: "zero total pages normalized",
			body: `{"testimonials":[],"currentPage":1,"totalPages":0,"totalTestimonials":0}`,
			key:  "testimonials", items: 0, page: 1, totalPages: 1, totalItems: 0,
		},
		{
			name: "metadata next to data wrapper",
			body: `{"data":{"news":[{"_id":"1"}]},"page":4,"totalPages":9}`,
			key:  "news", items: 1, page: 4, totalPages: 9, totalItems: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse([]byte(tt.body), tt.key)
			assert.Len(t, got.Items, tt.items)
			assert.Equal(t, tt.page, got.Page)
			assert.Equal(t, tt.totalPages, got.TotalPages)
			assert.Equal(t, tt.totalItems, got.TotalItems)
		})
	}
}

func TestParseIsDeterministic(t *testing.T) {
	body := []byte(`{"data":{"blogs":[{"_id":"1"}],"currentPage":1,"totalPages":1}}`)
	assert.Equal(t, Parse(body, "blogs"), Parse(body, "blogs"))
}

func TestParseGarbageYieldsEmptyPage(t *testing.T) {
	got := Parse([]byte(`not json`), "blogs")
	assert.Empty(t, got.Items)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 1, got.TotalPages)
}

func TestDecode(t *testing.T) {
	body := []byte(`{"blogs":[{"_id":"a1","title":"First"},{"_id":"b2","title":"Second"}],"currentPage":1,"totalPages":2,"totalBlogs":12}`)

	page, err := Decode[blog](body, "blogs")
	require.NoError(t, err)

	assert.Equal(t, []blog{{ID: "a1", Title: "First"}, {ID: "b2", Title: "Second"}}, page.Items)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 12, page.TotalItems)
}

func TestDecodeReportsBadItems(t *testing.T) {
	_, err := Decode[blog]([]byte(`["just a string"]`), "blogs")
	assert.ErrorContains(t, err, "decoding blogs item 0")
}

func TestItemUnwrapping(t *testing.T) {
	tests := map[string]string{
		"bare":     `{"_id":"a1","title":"First"}`,
		"data":     `{"data":{"_id":"a1","title":"First"}}`,
		"singular": `{"blog":{"_id":"a1","title":"First"}}`,
		"both":     `{"data":{"blog":{"_id":"a1","title":"First"}}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := DecodeItem[blog]([]byte(body), "blog")
			require.NoError(t, err)
			assert.Equal(t, blog{ID: "a1", Title: "First"}, got)
		})
	}
}
