package cms

import (
	"fmt"

	cmdpkg "github.com/pressroom/pressctl/internal/cmd"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs"
	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/pressroom/pressctl/internal/cms/mutation"
	perr "github.com/pressroom/pressctl/internal/err"
	"github.com/pressroom/pressctl/internal/meta"
	"github.com/pressroom/pressctl/internal/util/i18n"
	"github.com/pressroom/pressctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

type updateCollectionCmd struct {
	*cobra.Command
	kind content.Kind
}

func (c *updateCollectionCmd) validate(helper cmdpkg.Helper) error {
	if len(helper.GetArgs()) != 1 {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("updating a %s requires exactly 1 argument (id or title)", c.kind.Label),
		}
	}
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	return validateJQ(helper, cfg)
}

func (c *updateCollectionCmd) run(helper cmdpkg.Helper) error {
	resource, cfg, err := resourceFor(helper, c.kind)
	if err != nil {
		return err
	}
	logger, err := helper.GetLogger()
	if err != nil {
		return err
	}
	size, err := pageSize(cfg)
	if err != nil {
		return err
	}

	// the stored record is the base, so fields the user leaves alone keep
	// their current values
	current, err := resolveItem(helper, resource, helper.GetArgs()[0], size)
	if err != nil {
		return err
	}
	id := current.GetID()

	item, changed, err := overlayInput(c.Command, resource, current, helper.GetStreams().In)
	if err != nil {
		return err
	}
	if !changed {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("nothing to update, provide field flags or --%s", FileFlagName),
		}
	}

	logger.Info(fmt.Sprintf("Updating %s %q (ID: %s)", c.kind.Label, item.DisplayName(), id))
	if err := mutation.New[content.Item](resource, nil).Update(helper.GetContext(), id, item); err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper,
			fmt.Sprintf("Failed to update %s: %s", c.kind.Label, perr.Message(err)), err, cmdpkg.ErrorAttrs(err)...)
	}

	return printResult(helper, cfg,
		result{ID: id, Kind: c.kind.Singular, Name: item.DisplayName(), Status: "updated"},
		fmt.Sprintf("%s %q updated", normalizers.Title(c.kind.Label), item.DisplayName()))
}

func (c *updateCollectionCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(cobraCmd, args)
	if err := c.validate(helper); err != nil {
		return err
	}
	return c.run(helper)
}

func newUpdateCollectionCmd(verb verbs.VerbValue,
	kind content.Kind,
	baseCmd *cobra.Command,
	addParentFlags func(verbs.VerbValue, *cobra.Command),
	parentPreRun func(*cobra.Command, []string) error,
) *updateCollectionCmd {
	rv := updateCollectionCmd{
		Command: baseCmd,
		kind:    kind,
	}

	rv.Use = kind.Singular + " <id|title>"
	rv.Aliases = aliases(kind, kind.Singular)
	rv.Short = i18n.T("root.cms.update."+kind.Name+"Short", fmt.Sprintf("Update a %s", kind.Label))
	rv.Long = normalizers.LongDesc(i18n.T("root.cms.update."+kind.Name+"Long",
		fmt.Sprintf(`Update a %s. The stored %s is fetched first and the given fields
are applied on top, so anything not mentioned keeps its current value.`, kind.Label, kind.Label)))
	rv.Example = normalizers.Examples(i18n.T("root.cms.update."+kind.Name+"Examples",
		fmt.Sprintf(`
	# Change the date of a %[2]s
	%[1]s update %[3]s 64b7f0c2a1b2c3d4e5f60718 --date 2024-05-01
	# Apply the fields in a file to the %[2]s with a given title
	%[1]s update %[3]s "Spring update" -f changes.yaml
	`, meta.CLIName, kind.Label, kind.Singular)))

	addFieldFlags(kind, rv.Command)
	if addParentFlags != nil {
		addParentFlags(verb, rv.Command)
	}
	if parentPreRun != nil {
		rv.PreRunE = parentPreRun
	}
	rv.RunE = rv.runE

	return &rv
}
