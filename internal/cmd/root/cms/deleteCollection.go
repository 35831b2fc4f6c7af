package cms

import (
	"fmt"

	cmdpkg "github.com/pressroom/pressctl/internal/cmd"
	"github.com/pressroom/pressctl/internal/cmd/common"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs"
	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/pressroom/pressctl/internal/cms/mutation"
	"github.com/pressroom/pressctl/internal/config"
	perr "github.com/pressroom/pressctl/internal/err"
	"github.com/pressroom/pressctl/internal/meta"
	"github.com/pressroom/pressctl/internal/util/i18n"
	"github.com/pressroom/pressctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

type deleteCollectionCmd struct {
	*cobra.Command
	kind content.Kind
}

func (c *deleteCollectionCmd) validate(helper cmdpkg.Helper) error {
	if len(helper.GetArgs()) == 0 {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("%s id or title is required", c.kind.Label),
		}
	}
	return nil
}

func (c *deleteCollectionCmd) run(helper cmdpkg.Helper) error {
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
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}

	dispatcher := mutation.New[content.Item](resource, nil)
	out := helper.GetStreams().Out
	var (
		failures perr.ErrorsBucket
		results  []result
	)

	for _, ref := range helper.GetArgs() {
		item, err := resolveItem(helper, resource, ref, size)
		if err != nil {
			failures.Add(fmt.Errorf("%s: %w", ref, err))
			continue
		}
		id, name := item.GetID(), item.DisplayName()

		labelWidth := len("Name")
		if err := cmdpkg.ConfirmDelete(helper,
			fmt.Sprintf("%s %q", c.kind.Label, name),
			fmt.Sprintf("  %-*s : %s", labelWidth, "Name", name),
			fmt.Sprintf("  %-*s : %s", labelWidth, "ID", id),
		); err != nil {
			return err
		}

		logger.Info(fmt.Sprintf("Deleting %s '%s' (ID: %s)", c.kind.Label, name, id))
		if err := dispatcher.Remove(helper.GetContext(), id); err != nil {
			failures.Add(fmt.Errorf("%s: %s", ref, perr.Message(err)))
			continue
		}

		results = append(results, result{ID: id, Kind: c.kind.Singular, Name: name, Status: "deleted"})
		if outType == common.TEXT {
			fmt.Fprintf(out, "%s '%s' deleted successfully\n", normalizers.Title(c.kind.Label), name)
		}
	}

	if outType != common.TEXT && len(results) > 0 {
		if err := printDeleted(helper, cfg, outType, results); err != nil {
			return err
		}
	}
	if err := failures.OrNil(); err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper,
			fmt.Sprintf("Failed to delete %d of %d %ss", len(failures.Errors), len(helper.GetArgs()), c.kind.Label), err)
	}
	return nil
}

func printDeleted(helper cmdpkg.Helper, cfg config.Hook, outType common.OutputFormat, results []result) error {
	if len(results) == 1 {
		return printStructured(helper, cfg, outType, results[0])
	}
	return printStructured(helper, cfg, outType, results)
}

func (c *deleteCollectionCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(cobraCmd, args)
	if err := c.validate(helper); err != nil {
		return err
	}
	return c.run(helper)
}

func newDeleteCollectionCmd(verb verbs.VerbValue,
	kind content.Kind,
	baseCmd *cobra.Command,
	addParentFlags func(verbs.VerbValue, *cobra.Command),
	parentPreRun func(*cobra.Command, []string) error,
) *deleteCollectionCmd {
	rv := deleteCollectionCmd{
		Command: baseCmd,
		kind:    kind,
	}

	rv.Use = kind.Singular + " <id|title>..."
	rv.Aliases = aliases(kind, kind.Singular)
	rv.Short = i18n.T("root.cms.delete."+kind.Name+"Short", fmt.Sprintf("Delete %ss", kind.Label))
	rv.Long = normalizers.LongDesc(i18n.T("root.cms.delete."+kind.Name+"Long",
		fmt.Sprintf(`Delete one or more %ss by id or title. Each deletion is confirmed
unless --%s is given.`, kind.Label, ApproveFlagName)))
	rv.Example = normalizers.Examples(i18n.T("root.cms.delete."+kind.Name+"Examples",
		fmt.Sprintf(`
	# Delete a %[2]s by id
	%[1]s delete %[3]s 64b7f0c2a1b2c3d4e5f60718
	# Delete two %[2]ss without confirmation
	%[1]s delete %[3]s 64b7f0c2a1b2c3d4e5f60718 64b7f0c2a1b2c3d4e5f60719 --approve
	`, meta.CLIName, kind.Label, kind.Singular)))

	if addParentFlags != nil {
		addParentFlags(verb, rv.Command)
	}
	if parentPreRun != nil {
		rv.PreRunE = parentPreRun
	}
	rv.RunE = rv.runE

	return &rv
}
