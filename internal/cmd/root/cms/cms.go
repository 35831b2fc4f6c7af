// Package cms builds the per-collection commands (blogs, news,
// testimonials) that hang off each content verb.
package cms

import (
	"context"
	"fmt"

	cmdpkg "github.com/pressroom/pressctl/internal/cmd"
	"github.com/pressroom/pressctl/internal/cmd/common"
	"github.com/pressroom/pressctl/internal/cmd/output/jq"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs"
	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/pressroom/pressctl/internal/cms/helpers"
	"github.com/pressroom/pressctl/internal/config"
	"github.com/spf13/cobra"
)

const (
	PageFlagName = "page"

	AllFlagName = "all"

	DetailFlagName = "detail"

	FileFlagName  = "filename"
	FileFlagShort = "f"

	ImageFlagName = "image"

	ApproveFlagName = "approve"
)

func addFlags(verb verbs.VerbValue, cmd *cobra.Command) {
	if verb == verbs.Get || verb == verbs.List {
		cmd.Flags().Int(common.PageSizeFlagName, config.DefaultPageSize,
			fmt.Sprintf(`Number of items requested per page.
- Config path: [ %s ]`, config.PageSizeConfigPath))
	}
	if verb != verbs.Delete {
		jq.AddFlags(cmd.Flags())
	}
}

func bindFlags(c *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(c, args)
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}

	if f := c.Flags().Lookup(common.PageSizeFlagName); f != nil {
		if err := cfg.BindFlag(config.PageSizeConfigPath, f); err != nil {
			return err
		}
	}
	return jq.BindFlags(cfg, c.Flags())
}

func preRunE(c *cobra.Command, args []string) error {
	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, helpers.APIFactoryKey, helpers.GetAPIFactory())
	c.SetContext(ctx)
	return bindFlags(c, args)
}

// AddCollectionCmds attaches one sub-command per collection to parent
func AddCollectionCmds(verb verbs.VerbValue, parent *cobra.Command) {
	for _, kind := range content.Kinds {
		parent.AddCommand(NewCollectionCmd(verb, kind, addFlags, preRunE))
	}
}

// NewCollectionCmd returns the command for kind under verb
func NewCollectionCmd(verb verbs.VerbValue, kind content.Kind,
	addParentFlags func(verbs.VerbValue, *cobra.Command),
	parentPreRun func(*cobra.Command, []string) error,
) *cobra.Command {
	baseCmd := cobra.Command{
		Use:     kind.Name,
		Aliases: aliases(kind, kind.Name),
	}

	switch verb {
	case verbs.Get, verbs.List:
		return newGetCollectionCmd(verb, kind, &baseCmd, addParentFlags, parentPreRun).Command
	case verbs.Create:
		return newCreateCollectionCmd(verb, kind, &baseCmd, addParentFlags, parentPreRun).Command
	case verbs.Update:
		return newUpdateCollectionCmd(verb, kind, &baseCmd, addParentFlags, parentPreRun).Command
	case verbs.Delete:
		return newDeleteCollectionCmd(verb, kind, &baseCmd, addParentFlags, parentPreRun).Command
	case verbs.View, verbs.Login, verbs.Logout, verbs.Register, verbs.Version:
		return &baseCmd
	}
	return &baseCmd
}

// aliases returns every name kind answers to except use
func aliases(kind content.Kind, use string) []string {
	candidates := append([]string{kind.Name, kind.Singular}, kind.Aliases...)
	seen := map[string]bool{use: true}
	rv := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if !seen[c] {
			seen[c] = true
			rv = append(rv, c)
		}
	}
	return rv
}

// resourceFor builds the backend client and the collection for kind
func resourceFor(helper cmdpkg.Helper, kind content.Kind) (helpers.Resource, config.Hook, error) {
	logger, err := helper.GetLogger()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := helper.GetConfig()
	if err != nil {
		return nil, nil, err
	}
	api, err := helper.GetAPI(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	resource, err := helpers.ForKind(api, kind)
	if err != nil {
		return nil, nil, &cmdpkg.ConfigurationError{Err: err}
	}
	return resource, cfg, nil
}

func pageSize(cfg config.Hook) (int, error) {
	size := cfg.GetIntOrElse(config.PageSizeConfigPath, config.DefaultPageSize)
	if size < 1 {
		return 0, &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("%s must be greater than 0", common.PageSizeFlagName),
		}
	}
	return size, nil
}
