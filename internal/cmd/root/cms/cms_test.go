package cms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	cmdpkg "github.com/pressroom/pressctl/internal/cmd"
	"github.com/pressroom/pressctl/internal/cmd/common"
	"github.com/pressroom/pressctl/internal/cmd/output/jq"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs"
	"github.com/pressroom/pressctl/internal/cms/client"
	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/pressroom/pressctl/internal/cms/helpers"
	"github.com/pressroom/pressctl/internal/config"
	"github.com/pressroom/pressctl/internal/iostreams"
	testCmd "github.com/pressroom/pressctl/test/cmd"
	testConfig "github.com/pressroom/pressctl/test/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	api    *helpers.MockAPI
	helper *testCmd.MockHelper
	in     *bytes.Buffer
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newFixture(c *cobra.Command, args []string, outType common.OutputFormat) *fixture {
	streams, in, out, errOut := iostreams.NewTestIOStreams()
	api := helpers.NewMockAPI()
	cfg := testConfig.NewMapConfigHook(map[string]string{}, "")
	return &fixture{
		api: api,
		helper: &testCmd.MockHelper{
			GetCmdMock:          func() *cobra.Command { return c },
			GetArgsMock:         func() []string { return args },
			GetStreamsMock:      func() *iostreams.IOStreams { return &streams },
			GetConfigMock:       func() (config.Hook, error) { return cfg, nil },
			GetOutputFormatMock: func() (common.OutputFormat, error) { return outType, nil },
			GetAPIMock: func(config.Hook, *slog.Logger) (client.API, error) {
				return api, nil
			},
		},
		in:     in,
		out:    out,
		errOut: errOut,
	}
}

func blog(title string) content.Item {
	b := content.NewBlog()
	b.Title = title
	b.Summary = "summary of " + title
	return b
}

func TestCreateBlogFromFlags(t *testing.T) {
	c := newCreateCollectionCmd(verbs.Create, content.Blogs, &cobra.Command{}, addFlags, nil)
	require.NoError(t, c.Flags().Set("title", "Spring update"))
	require.NoError(t, c.Flags().Set("summary", "What changed"))
	require.NoError(t, c.Flags().Set("date", "2024-05-01"))
	f := newFixture(c.Command, nil, common.TEXT)

	require.NoError(t, c.validate(f.helper))
	require.NoError(t, c.run(f.helper))

	assert.Equal(t, "Blog Post \"Spring update\" created\n", f.out.String())
	assert.Empty(t, cmp.Diff([]string{"Create blogs"}, f.api.Calls()))
	assert.Equal(t, 1, f.api.Count(content.Blogs))
}

func TestCreateInvalidItemIsNeverSent(t *testing.T) {
	c := newCreateCollectionCmd(verbs.Create, content.Blogs, &cobra.Command{}, addFlags, nil)
	require.NoError(t, c.Flags().Set("title", "No summary"))
	f := newFixture(c.Command, nil, common.TEXT)

	err := c.run(f.helper)
	require.Error(t, err)
	var execErr *cmdpkg.ExecutionError
	assert.ErrorAs(t, err, &execErr)
	assert.Contains(t, err.Error(), "summary")
	assert.Empty(t, f.api.Calls())
}

func TestCreateRejectsArguments(t *testing.T) {
	c := newCreateCollectionCmd(verbs.Create, content.Blogs, &cobra.Command{}, addFlags, nil)
	f := newFixture(c.Command, []string{"extra"}, common.TEXT)

	var cfgErr *cmdpkg.ConfigurationError
	assert.ErrorAs(t, c.validate(f.helper), &cfgErr)
}

func TestCreateTestimonialFromFileWithFlagOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "testimonial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Jane Doe\ndescription: Great service\nrating: 2\n"), 0o600))

	c := newCreateCollectionCmd(verbs.Create, content.Testimonials, &cobra.Command{}, addFlags, nil)
	require.NoError(t, c.Flags().Set(FileFlagName, path))
	require.NoError(t, c.Flags().Set("rating", "4"))
	f := newFixture(c.Command, nil, common.JSON)

	require.NoError(t, c.run(f.helper))

	var got result
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))
	assert.Equal(t, result{Kind: "testimonial", Name: "Jane Doe", Status: "created"}, got)

	page, err := f.api.List(t.Context(), content.Testimonials, 1, 10)
	require.NoError(t, err)
	assert.Contains(t, string(page), `"rating":4`)
}

func TestCreateFromStandardInput(t *testing.T) {
	c := newCreateCollectionCmd(verbs.Create, content.NewsKind, &cobra.Command{}, addFlags, nil)
	require.NoError(t, c.Flags().Set(FileFlagName, "-"))
	f := newFixture(c.Command, nil, common.TEXT)
	f.in.WriteString(`{"title":"Clinic opens","excerpt":"Short","author":"Press Office"}`)

	require.NoError(t, c.run(f.helper))
	assert.Equal(t, 1, f.api.Count(content.NewsKind))
}

func TestUpdateOverlaysStoredItem(t *testing.T) {
	c := newUpdateCollectionCmd(verbs.Update, content.NewsKind, &cobra.Command{}, addFlags, nil)
	require.NoError(t, c.Flags().Set("featured", "true"))

	n := content.NewNews()
	n.Title, n.Excerpt, n.Author = "Clinic opens", "Doors open on Monday", "Press Office"
	f := newFixture(c.Command, []string{"clinic OPENS"}, common.TEXT)
	ids := f.api.Seed(content.NewsKind, n)

	require.NoError(t, c.validate(f.helper))
	require.NoError(t, c.run(f.helper))

	want := []string{
		"List news",
		"Get news/" + ids[0],
		"Update news/" + ids[0],
	}
	assert.Empty(t, cmp.Diff(want, f.api.Calls()))

	raw, err := f.api.Get(t.Context(), content.NewsKind, ids[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"excerpt":"Doors open on Monday"`)
	assert.Contains(t, string(raw), `"featured":true`)
	assert.Equal(t, "News Article \"Clinic opens\" updated\n", f.out.String())
}

func TestUpdateWithoutChangesFails(t *testing.T) {
	c := newUpdateCollectionCmd(verbs.Update, content.Blogs, &cobra.Command{}, addFlags, nil)
	f := newFixture(c.Command, nil, common.TEXT)
	ids := f.api.Seed(content.Blogs, blog("Spring"))
	f.helper.GetArgsMock = func() []string { return ids }

	var cfgErr *cmdpkg.ConfigurationError
	require.ErrorAs(t, c.run(f.helper), &cfgErr)
	assert.NotContains(t, f.api.Calls(), "Update blogs/"+ids[0])
}

func TestUpdateRequiresOneArgument(t *testing.T) {
	c := newUpdateCollectionCmd(verbs.Update, content.Blogs, &cobra.Command{}, addFlags, nil)
	f := newFixture(c.Command, nil, common.TEXT)
	assert.Error(t, c.validate(f.helper))
}

func TestDeleteConfirmed(t *testing.T) {
	c := newDeleteCollectionCmd(verbs.Delete, content.Blogs, &cobra.Command{}, addFlags, nil)
	f := newFixture(c.Command, nil, common.TEXT)
	ids := f.api.Seed(content.Blogs, blog("Spring"))
	f.helper.GetArgsMock = func() []string { return ids }
	f.in.WriteString("yes\n")

	require.NoError(t, c.run(f.helper))
	assert.Contains(t, f.out.String(), "You are about to delete blog post \"Spring\"")
	assert.Contains(t, f.out.String(), "Blog Post 'Spring' deleted successfully")
	assert.Zero(t, f.api.Count(content.Blogs))
}

func TestDeleteDeclined(t *testing.T) {
	c := newDeleteCollectionCmd(verbs.Delete, content.Blogs, &cobra.Command{}, addFlags, nil)
	f := newFixture(c.Command, nil, common.TEXT)
	ids := f.api.Seed(content.Blogs, blog("Spring"))
	f.helper.GetArgsMock = func() []string { return ids }
	f.in.WriteString("no\n")

	err := c.run(f.helper)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete cancelled")
	assert.Equal(t, 1, f.api.Count(content.Blogs))
}

func TestDeleteApprovedReportsEachItem(t *testing.T) {
	c := newDeleteCollectionCmd(verbs.Delete, content.Blogs, &cobra.Command{}, addFlags, nil)
	cmdpkg.SetDeleteAutoApprove(c.Command, true)
	f := newFixture(c.Command, nil, common.JSON)
	ids := f.api.Seed(content.Blogs, blog("One"), blog("Two"))
	f.helper.GetArgsMock = func() []string { return ids }

	require.NoError(t, c.run(f.helper))

	var got []result
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))
	want := []result{
		{ID: ids[0], Kind: "blog", Name: "One", Status: "deleted"},
		{ID: ids[1], Kind: "blog", Name: "Two", Status: "deleted"},
	}
	assert.Empty(t, cmp.Diff(want, got))
}

func TestDeleteContinuesPastFailures(t *testing.T) {
	c := newDeleteCollectionCmd(verbs.Delete, content.Blogs, &cobra.Command{}, addFlags, nil)
	cmdpkg.SetDeleteAutoApprove(c.Command, true)
	f := newFixture(c.Command, nil, common.TEXT)
	ids := f.api.Seed(content.Blogs, blog("Kept"))
	missing := "ffffffffffffffffffffffff"
	f.helper.GetArgsMock = func() []string { return []string{missing, ids[0]} }

	var execErr *cmdpkg.ExecutionError
	require.ErrorAs(t, c.run(f.helper), &execErr)
	assert.Equal(t, "Failed to delete 1 of 2 blog posts", execErr.Msg)
	assert.Contains(t, execErr.Error(), missing)
	assert.Zero(t, f.api.Count(content.Blogs))
}

func TestDeleteRequiresArguments(t *testing.T) {
	c := newDeleteCollectionCmd(verbs.Delete, content.Blogs, &cobra.Command{}, addFlags, nil)
	f := newFixture(c.Command, nil, common.TEXT)
	assert.Error(t, c.validate(f.helper))
}

func TestListPageAsJSON(t *testing.T) {
	c := newGetCollectionCmd(verbs.List, content.Blogs, &cobra.Command{}, addFlags, nil)
	require.NoError(t, c.Flags().Set(PageFlagName, "2"))
	f := newFixture(c.Command, nil, common.JSON)
	for i := range 12 {
		f.api.Seed(content.Blogs, blog(fmt.Sprintf("Post %02d", i)))
	}

	require.NoError(t, c.validate(f.helper))
	require.NoError(t, c.run(f.helper))

	var got struct {
		Items      []map[string]any `json:"items"`
		Page       int              `json:"page"`
		TotalPages int              `json:"totalPages"`
		TotalItems int              `json:"totalItems"`
	}
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))
	assert.Len(t, got.Items, 2)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 2, got.TotalPages)
	assert.Equal(t, 12, got.TotalItems)
	// newest first, so the second page holds the oldest posts
	assert.Equal(t, "Post 01", got.Items[0]["title"])
}

func TestListTextWritesFooterToErrOut(t *testing.T) {
	c := newGetCollectionCmd(verbs.List, content.Testimonials, &cobra.Command{}, addFlags, nil)
	f := newFixture(c.Command, nil, common.TEXT)
	tm := content.NewTestimonial()
	tm.Name, tm.Description = "Jane Doe", "Great service"
	f.api.Seed(content.Testimonials, tm)

	require.NoError(t, c.run(f.helper))
	assert.Contains(t, f.out.String(), "Jane Doe")
	assert.Equal(t, "Page 1 of 1 (1 testimonials)\n", f.errOut.String())
}

func TestListFailureIsExecutionError(t *testing.T) {
	c := newGetCollectionCmd(verbs.List, content.Blogs, &cobra.Command{}, addFlags, nil)
	f := newFixture(c.Command, nil, common.TEXT)
	f.api.Errors["List"] = fmt.Errorf("connection refused")

	var execErr *cmdpkg.ExecutionError
	require.ErrorAs(t, c.run(f.helper), &execErr)
	assert.Equal(t, "Failed to list blogs: connection refused", execErr.Msg)
}

func TestListAllRejectsPage(t *testing.T) {
	c := newGetCollectionCmd(verbs.List, content.Blogs, &cobra.Command{}, addFlags, nil)
	require.NoError(t, c.Flags().Set(AllFlagName, "true"))
	require.NoError(t, c.Flags().Set(PageFlagName, "2"))
	f := newFixture(c.Command, nil, common.TEXT)

	var cfgErr *cmdpkg.ConfigurationError
	assert.ErrorAs(t, c.validate(f.helper), &cfgErr)
}

func TestListAllFetchesEveryPage(t *testing.T) {
	c := newGetCollectionCmd(verbs.Get, content.Blogs, &cobra.Command{}, addFlags, nil)
	require.NoError(t, c.Flags().Set(AllFlagName, "true"))
	require.NoError(t, c.Flags().Set(jq.FlagName, ".[].title"))
	f := newFixture(c.Command, nil, common.JSON)
	for i := range 23 {
		f.api.Seed(content.Blogs, blog(fmt.Sprintf("Post %02d", i)))
	}

	require.NoError(t, c.run(f.helper))

	var titles []string
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &titles))
	assert.Len(t, titles, 23)
	assert.Equal(t, "Post 22", titles[0])
}

func TestGetByAmbiguousTitle(t *testing.T) {
	c := newGetCollectionCmd(verbs.Get, content.Blogs, &cobra.Command{}, addFlags, nil)
	f := newFixture(c.Command, []string{"Twin"}, common.TEXT)
	f.api.Seed(content.Blogs, blog("Twin"), blog("twin"))

	err := c.run(f.helper)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 blog posts are named")
}

func TestGetUnknownTitle(t *testing.T) {
	c := newGetCollectionCmd(verbs.Get, content.Blogs, &cobra.Command{}, addFlags, nil)
	f := newFixture(c.Command, []string{"Missing"}, common.TEXT)

	err := c.run(f.helper)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no blog post named "Missing"`)
}

func TestGetDetailRendersMarkdown(t *testing.T) {
	c := newGetCollectionCmd(verbs.Get, content.Blogs, &cobra.Command{}, addFlags, nil)
	require.NoError(t, c.Flags().Set(DetailFlagName, "true"))
	f := newFixture(c.Command, nil, common.TEXT)
	ids := f.api.Seed(content.Blogs, blog("Spring"))
	f.helper.GetArgsMock = func() []string { return ids }

	require.NoError(t, c.run(f.helper))
	assert.Contains(t, f.out.String(), "Spring")
	assert.Contains(t, f.out.String(), "summary of Spring")
}

func TestNewCollectionCmdAliases(t *testing.T) {
	cmd := NewCollectionCmd(verbs.Delete, content.NewsKind, addFlags, preRunE)
	assert.Equal(t, "news <id|title>...", cmd.Use)
	assert.Contains(t, cmd.Aliases, "article")
	assert.Nil(t, cmd.Flags().Lookup(jq.FlagName))

	list := NewCollectionCmd(verbs.List, content.Blogs, addFlags, preRunE)
	assert.NotNil(t, list.Flags().Lookup(common.PageSizeFlagName))
	assert.NotNil(t, list.Flags().Lookup(jq.FlagName))
}
