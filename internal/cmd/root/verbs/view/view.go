package view

import (
	"context"
	"fmt"
	"os"

	cmdpkg "github.com/pressroom/pressctl/internal/cmd"
	"github.com/pressroom/pressctl/internal/cmd/common"
	"github.com/pressroom/pressctl/internal/cmd/output/listview"
	"github.com/pressroom/pressctl/internal/cmd/root/cms"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs"
	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/pressroom/pressctl/internal/cms/helpers"
	"github.com/pressroom/pressctl/internal/config"
	"github.com/pressroom/pressctl/internal/meta"
	"github.com/pressroom/pressctl/internal/theme"
	"github.com/pressroom/pressctl/internal/util/i18n"
	"github.com/pressroom/pressctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.View
)

var (
	viewUse = Verb.String() + " [blogs|news|testimonials]"

	viewShort = i18n.T("root.verbs.view.viewShort", "Browse content interactively")

	viewLong = normalizers.LongDesc(i18n.T("root.verbs.view.viewLong",
		`Open an interactive, paginated view of a collection.

Keys:
  ←/→ p/n     previous and next page      g/G      first and last page
  1-9         jump to a page              r        reload the page
  tab         next collection             enter    show the selected item
  y           copy the selected id        d        delete the selected item
  q           quit`))

	viewExamples = normalizers.Examples(i18n.T("root.verbs.view.viewExamples",
		fmt.Sprintf(`
		# Browse blog posts
		%[1]s view
		# Browse news from page 3, 20 per page
		%[1]s view news --page 3 --page-size 20
		`, meta.CLIName)))
)

// NewViewCmd creates the view command which launches the list browser.
func NewViewCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     viewUse,
		Short:   viewShort,
		Long:    viewLong,
		Example: viewExamples,
		Aliases: []string{"v", "V", "browse"},
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
		RunE: func(c *cobra.Command, args []string) error {
			return run(cmdpkg.BuildHelper(c, args))
		},
		ValidArgs: validArgs(),
	}

	cmd.Flags().Int(cms.PageFlagName, 1, "Page to open first")
	cmd.Flags().Int(common.PageSizeFlagName, config.DefaultPageSize,
		fmt.Sprintf(`Number of items requested per page.
- Config path: [ %s ]`, config.PageSizeConfigPath))

	cmd.PreRunE = bindFlags

	return cmd, nil
}

func validArgs() []string {
	rv := make([]string, 0, len(content.Kinds))
	for _, k := range content.Kinds {
		rv = append(rv, k.Name)
	}
	return rv
}

func bindFlags(c *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(c, args)
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	if f := c.Flags().Lookup(common.PageSizeFlagName); f != nil {
		return cfg.BindFlag(config.PageSizeConfigPath, f)
	}
	return nil
}

func run(helper cmdpkg.Helper) error {
	kind := content.Blogs
	if args := helper.GetArgs(); len(args) == 1 {
		k, err := content.LookupKind(args[0])
		if err != nil {
			return &cmdpkg.ConfigurationError{Err: err}
		}
		kind = k
	}

	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	logger, err := helper.GetLogger()
	if err != nil {
		return err
	}
	size := cfg.GetIntOrElse(config.PageSizeConfigPath, config.DefaultPageSize)
	if size < 1 {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("%s must be greater than 0", common.PageSizeFlagName),
		}
	}
	page, _ := helper.GetCmd().Flags().GetInt(cms.PageFlagName)
	if page < 1 {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s must be 1 or greater", cms.PageFlagName),
		}
	}

	api, err := helper.GetAPI(cfg, logger)
	if err != nil {
		return err
	}

	err = listview.Run(helper.GetContext(), helper.GetStreams(), listview.Options{
		Kind:     kind,
		PageSize: size,
		Page:     page,
		Resources: func(k content.Kind) (helpers.Resource, error) {
			return helpers.ForKind(api, k)
		},
		Palette: theme.FromContext(helper.GetContext()),
		Logger:  logger,
		NoColor: os.Getenv("NO_COLOR") != "",
		Profile: cfg.GetProfile(),
	})
	if err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, err.Error(), err)
	}
	return nil
}
