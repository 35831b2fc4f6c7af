package helpers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/pressroom/pressctl/internal/cms/mutation"
	"github.com/pressroom/pressctl/internal/config"
	perr "github.com/pressroom/pressctl/internal/err"
	testConfig "github.com/pressroom/pressctl/test/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBlogs(t *testing.T, api *MockAPI, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		b := content.NewBlog()
		b.Title = fmt.Sprintf("post %02d", i)
		b.Summary = "summary"
		api.Seed(content.Blogs, b)
	}
}

func TestCollectionListDecodesWrappedPage(t *testing.T) {
	api := NewMockAPI()
	seedBlogs(t, api, 12)
	blogs := NewCollection(api, content.Blogs, content.NewBlog)

	page, err := blogs.List(context.Background(), 2, 5)
	require.NoError(t, err)

	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 12, page.TotalItems)
	require.Len(t, page.Items, 5)
	// newest first: post 12 .. post 08 on page one
	assert.Equal(t, "post 07", page.Items[0].Title)
	assert.Len(t, page.Items[0].ID, 24)
}

func TestFetchAllKeepsPageOrder(t *testing.T) {
	api := NewMockAPI()
	seedBlogs(t, api, 23)
	blogs := NewCollection(api, content.Blogs, content.NewBlog)

	all, err := blogs.FetchAll(context.Background(), 5, 3)
	require.NoError(t, err)
	require.Len(t, all, 23)
	assert.Equal(t, "post 23", all[0].Title)
	assert.Equal(t, "post 01", all[22].Title)
}

func TestFetchAllSurfacesPageFailure(t *testing.T) {
	api := NewMockAPI()
	seedBlogs(t, api, 3)
	api.Errors["List"] = &perr.NetworkFailure{Method: "GET", URL: "/blogs", Err: errors.New("refused")}
	blogs := NewCollection(api, content.Blogs, content.NewBlog)

	_, err := blogs.FetchAll(context.Background(), 1, 2)
	var nf *perr.NetworkFailure
	assert.True(t, errors.As(err, &nf))
}

// scriptedListAPI answers List with a body chosen per page
type scriptedListAPI struct {
	*MockAPI
	body func(page int) string

	mu    sync.Mutex
	pages []int
}

func (s *scriptedListAPI) List(_ context.Context, _ content.Kind, page, _ int) ([]byte, error) {
	s.mu.Lock()
	s.pages = append(s.pages, page)
	s.mu.Unlock()
	return []byte(s.body(page)), nil
}

func TestFetchAllToleratesHugeReportedTotals(t *testing.T) {
	api := &scriptedListAPI{MockAPI: NewMockAPI(), body: func(int) string {
		return `{"blogs":[],"page":1,"totalPages":2,"totalBlogs":9000000000000000000}`
	}}
	blogs := NewCollection(api, content.Blogs, content.NewBlog)

	var all []content.Blog
	var err error
	require.NotPanics(t, func() {
		all, err = blogs.FetchAll(context.Background(), 5, 4)
	})
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, []int{1}, api.pages)
}

func TestFetchAllStopsAtFirstEmptyPage(t *testing.T) {
	api := &scriptedListAPI{MockAPI: NewMockAPI(), body: func(page int) string {
		if page > 2 {
			return `{"blogs":[]}`
		}
		return fmt.Sprintf(`{"blogs":[{"_id":"a%d","title":"first %d"},{"_id":"b%d","title":"second %d"}],`+
			`"page":%d,"totalPages":1000000000,"totalBlogs":9000000000000000000}`, page, page, page, page, page)
	}}
	blogs := NewCollection(api, content.Blogs, content.NewBlog)

	all, err := blogs.FetchAll(context.Background(), 2, 3)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "first 1", all[0].Title)
	assert.Equal(t, "second 2", all[3].Title)
	// page one, then a single wave of three
	assert.Len(t, api.pages, 4)
}

func TestFetchAllBoundsPagesByItemTotal(t *testing.T) {
	api := &scriptedListAPI{MockAPI: NewMockAPI(), body: func(page int) string {
		return fmt.Sprintf(`{"blogs":[{"_id":"p%d","title":"post %d"}],"page":%d,"totalPages":500,"totalBlogs":3}`,
			page, page, page)
	}}
	blogs := NewCollection(api, content.Blogs, content.NewBlog)

	all, err := blogs.FetchAll(context.Background(), 1, 8)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.ElementsMatch(t, []int{1, 2, 3}, api.pages)
}

func TestCollectionIsAMutationStore(t *testing.T) {
	api := NewMockAPI()
	news := NewCollection(api, content.NewsKind, content.NewNews)
	d := mutation.New[content.News](news, nil)

	item := content.NewNews()
	item.Title, item.Excerpt, item.Author = "Court ruling", "Short", "Desk"
	require.NoError(t, d.Create(context.Background(), item))
	assert.Equal(t, 1, api.Count(content.NewsKind))

	page, err := news.List(context.Background(), 1, 10)
	require.NoError(t, err)
	id := page.Items[0].ID

	item.Title = "Court ruling, updated"
	require.NoError(t, d.Update(context.Background(), id, item))
	got, err := news.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Court ruling, updated", got.Title)
	assert.Equal(t, content.Tags{}, got.Tags)

	require.NoError(t, d.Remove(context.Background(), id))
	assert.Zero(t, api.Count(content.NewsKind))
	assert.Equal(t, []string{
		"Create news", "List news", "Update news/" + id, "Get news/" + id, "Delete news/" + id,
	}, api.Calls())
}

func TestResourceForEveryKind(t *testing.T) {
	api := NewMockAPI()
	for _, kind := range content.Kinds {
		t.Run(kind.Name, func(t *testing.T) {
			r, err := ForKind(api, kind)
			require.NoError(t, err)
			assert.Equal(t, kind, r.Kind())
			assert.NotNil(t, r.New())
		})
	}
	_, err := ForKind(api, content.Kind{Name: "pages"})
	assert.Error(t, err)
}

func TestResourceOverlayKeepsUnsetFields(t *testing.T) {
	r, err := ForKind(NewMockAPI(), content.Testimonials)
	require.NoError(t, err)

	base := content.NewTestimonial()
	base.ID = "abc"
	base.Name = "Ana"
	base.Description = "Great"

	merged, err := r.Overlay(base, []byte(`{"rating": 3}`))
	require.NoError(t, err)
	got := merged.(content.Testimonial)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, 3, got.Rating)
	assert.Equal(t, "abc", got.ID)

	_, err = r.Overlay(content.NewBlog(), []byte(`{}`))
	assert.Error(t, err)
}

func TestResourceRoundTrip(t *testing.T) {
	api := NewMockAPI()
	r, err := ForKind(api, content.Testimonials)
	require.NoError(t, err)

	item, err := r.Overlay(nil, []byte(`{"name":"Bo","description":"Kind staff","date":"2024-03-01"}`))
	require.NoError(t, err)
	require.NoError(t, item.Validate())
	require.NoError(t, r.Create(context.Background(), item))

	page, err := r.FetchPage(10)(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Bo", page.Items[0].DisplayName())
	assert.Equal(t, 5, page.Items[0].(content.Testimonial).Rating)
}

func TestMissingItemIsNotFound(t *testing.T) {
	r, err := ForKind(NewMockAPI(), content.Blogs)
	require.NoError(t, err)

	_, err = r.Get(context.Background(), "nope")
	var rej *perr.ServerRejection
	require.True(t, errors.As(err, &rej))
	assert.True(t, rej.NotFound())
}

func TestRequestTimeout(t *testing.T) {
	values := map[string]string{}
	cfg := &testConfig.MockConfigHook{
		GetStringMock: func(key string) string { return values[key] },
	}

	d, err := RequestTimeout(cfg)
	require.NoError(t, err)
	assert.Equal(t, "30s", d.String())

	values[config.TimeoutConfigPath] = "2m"
	d, err = RequestTimeout(cfg)
	require.NoError(t, err)
	assert.Equal(t, "2m0s", d.String())

	values[config.TimeoutConfigPath] = "soon"
	_, err = RequestTimeout(cfg)
	assert.Error(t, err)
}
