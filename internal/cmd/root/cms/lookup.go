package cms

import (
	"fmt"
	"strings"

	cmdpkg "github.com/pressroom/pressctl/internal/cmd"
	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/pressroom/pressctl/internal/cms/helpers"
	"github.com/pressroom/pressctl/internal/util"
)

// resolveItem loads the item ref names. ref is either a server id or the
// exact title (name for testimonials) of a single item; titles are matched
// case-insensitively across every page. The item always comes from a GET
// of its id so callers see the full stored record.
func resolveItem(helper cmdpkg.Helper, resource helpers.Resource, ref string, size int) (content.Item, error) {
	ref = strings.TrimSpace(ref)
	kind := resource.Kind()
	ctx := helper.GetContext()

	id := ref
	if !util.IsObjectID(ref) {
		logger, err := helper.GetLogger()
		if err != nil {
			return nil, err
		}
		logger.Debug(fmt.Sprintf("Resolving %s %q to an id", kind.Label, ref))

		items, err := resource.FetchAll(ctx, size, helpers.DefaultFetchConcurrency)
		if err != nil {
			return nil, cmdpkg.PrepareExecutionErrorFromErr(helper, err)
		}
		var matches []string
		for _, item := range items {
			if strings.EqualFold(strings.TrimSpace(item.DisplayName()), ref) {
				matches = append(matches, item.GetID())
			}
		}
		switch len(matches) {
		case 0:
			return nil, cmdpkg.PrepareExecutionErrorMsg(helper,
				fmt.Sprintf("no %s named %q", kind.Label, ref))
		case 1:
			id = matches[0]
		default:
			return nil, cmdpkg.PrepareExecutionErrorMsg(helper,
				fmt.Sprintf("%d %ss are named %q, use an id instead: %s",
					len(matches), kind.Label, ref, strings.Join(matches, ", ")))
		}
	}

	item, err := resource.Get(ctx, id)
	if err != nil {
		return nil, cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}
	return item, nil
}
