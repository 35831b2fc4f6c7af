package cms

import (
	"fmt"

	cmdpkg "github.com/pressroom/pressctl/internal/cmd"
	"github.com/pressroom/pressctl/internal/cmd/common"
	"github.com/pressroom/pressctl/internal/cmd/output/present"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs"
	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/pressroom/pressctl/internal/cms/helpers"
	perr "github.com/pressroom/pressctl/internal/err"
	"github.com/pressroom/pressctl/internal/iostreams"
	"github.com/pressroom/pressctl/internal/meta"
	"github.com/pressroom/pressctl/internal/render"
	"github.com/pressroom/pressctl/internal/util/i18n"
	"github.com/pressroom/pressctl/internal/util/normalizers"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

// listOutput is one page of a collection in json and yaml output
type listOutput struct {
	Items      []content.Item `json:"items"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
	TotalItems int            `json:"totalItems"`
}

type getCollectionCmd struct {
	*cobra.Command
	verb verbs.VerbValue
	kind content.Kind
}

func (c *getCollectionCmd) validate(helper cmdpkg.Helper) error {
	args := helper.GetArgs()
	if c.verb == verbs.List && len(args) > 0 {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("list does not accept arguments, use \"%s get %s <id|title>\"", meta.CLIName, c.kind.Singular),
		}
	}
	if len(args) > 1 {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("too many arguments. Getting %s requires 0 or 1 arguments (id or title)", c.kind.Name),
		}
	}

	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	if _, err := pageSize(cfg); err != nil {
		return err
	}
	page, _ := c.Flags().GetInt(PageFlagName)
	if page < 1 {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s must be 1 or greater", PageFlagName),
		}
	}
	all, _ := c.Flags().GetBool(AllFlagName)
	if all && c.Flags().Changed(PageFlagName) {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s and --%s cannot be used together", AllFlagName, PageFlagName),
		}
	}
	return validateJQ(helper, cfg)
}

func (c *getCollectionCmd) run(helper cmdpkg.Helper) error {
	resource, cfg, err := resourceFor(helper, c.kind)
	if err != nil {
		return err
	}
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	size, err := pageSize(cfg)
	if err != nil {
		return err
	}

	// 'get blogs' can be run in various ways:
	//	> get blog <id>      # Get by id
	//	> get blog <title>   # Get by title
	//	> get blogs          # List one page
	//	> get blogs --all    # List every page
	if args := helper.GetArgs(); len(args) == 1 {
		item, err := resolveItem(helper, resource, args[0], size)
		if err != nil {
			return err
		}
		return c.printItem(helper, outType, item)
	}

	ctx := helper.GetContext()
	if all, _ := c.Flags().GetBool(AllFlagName); all {
		items, err := resource.FetchAll(ctx, size, helpers.DefaultFetchConcurrency)
		if err != nil {
			return cmdpkg.PrepareExecutionErrorWithHelper(helper,
				fmt.Sprintf("Failed to list %s: %s", c.kind.Name, perr.Message(err)), err, cmdpkg.ErrorAttrs(err)...)
		}
		if outType == common.TEXT {
			return printText(helper, present.Records(items))
		}
		if items == nil {
			items = []content.Item{}
		}
		return printStructured(helper, cfg, outType, items)
	}

	pageNumber, _ := c.Flags().GetInt(PageFlagName)
	page, err := resource.List(ctx, pageNumber, size)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper,
			fmt.Sprintf("Failed to list %s: %s", c.kind.Name, perr.Message(err)), err, cmdpkg.ErrorAttrs(err)...)
	}

	if outType == common.TEXT {
		if err := printText(helper, present.Records(page.Items)); err != nil {
			return err
		}
		fmt.Fprintf(helper.GetStreams().ErrOut, "Page %d of %d (%d %s)\n",
			page.Page, page.TotalPages, page.TotalItems, c.kind.Name)
		return nil
	}

	items := page.Items
	if items == nil {
		items = []content.Item{}
	}
	return printStructured(helper, cfg, outType, listOutput{
		Items:      items,
		Page:       page.Page,
		TotalPages: page.TotalPages,
		TotalItems: page.TotalItems,
	})
}

func (c *getCollectionCmd) printItem(helper cmdpkg.Helper, outType common.OutputFormat, item content.Item) error {
	if outType != common.TEXT {
		cfg, err := helper.GetConfig()
		if err != nil {
			return err
		}
		return printStructured(helper, cfg, outType, item)
	}

	if detail, _ := c.Flags().GetBool(DetailFlagName); detail {
		out := helper.GetStreams().Out
		_, err := fmt.Fprint(out, render.Markdown(present.Markdown(item), render.Options{
			NoColor: !iostreams.IsTerminal(out),
		}))
		return err
	}
	return printText(helper, present.Record(item))
}

func printText(helper cmdpkg.Helper, records any) error {
	printer, err := cli.Format(common.TEXT.String(), helper.GetStreams().Out)
	if err != nil {
		return err
	}
	defer printer.Flush()
	printer.Print(records)
	return nil
}

func (c *getCollectionCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(cobraCmd, args)
	if err := c.validate(helper); err != nil {
		return err
	}
	return c.run(helper)
}

func newGetCollectionCmd(verb verbs.VerbValue,
	kind content.Kind,
	baseCmd *cobra.Command,
	addParentFlags func(verbs.VerbValue, *cobra.Command),
	parentPreRun func(*cobra.Command, []string) error,
) *getCollectionCmd {
	rv := getCollectionCmd{
		Command: baseCmd,
		verb:    verb,
		kind:    kind,
	}

	if verb == verbs.List {
		rv.Short = i18n.T("root.cms.list."+kind.Name+"Short", fmt.Sprintf("List %ss", kind.Label))
		rv.Long = normalizers.LongDesc(i18n.T("root.cms.list."+kind.Name+"Long",
			fmt.Sprintf(`List %ss one page at a time, newest first. Use --all to fetch
every page.`, kind.Label)))
		rv.Example = normalizers.Examples(i18n.T("root.cms.list."+kind.Name+"Examples",
			fmt.Sprintf(`
	# List the first page of %[2]ss
	%[1]s list %[3]s
	# List the third page, 20 per page
	%[1]s list %[3]s --page 3 --page-size 20
	# List every %[2]s as JSON
	%[1]s list %[3]s --all -o json
	`, meta.CLIName, kind.Label, kind.Name)))
	} else {
		rv.Use = kind.Name + " [id|title]"
		rv.Short = i18n.T("root.cms.get."+kind.Name+"Short", fmt.Sprintf("List or get %ss", kind.Label))
		rv.Long = normalizers.LongDesc(i18n.T("root.cms.get."+kind.Name+"Long",
			fmt.Sprintf(`Use the get verb with %[1]s to query %[2]ss. Without an argument
one page is listed. With an id or an exact title the single %[2]s is shown.`, kind.Name, kind.Label)))
		rv.Example = normalizers.Examples(i18n.T("root.cms.get."+kind.Name+"Examples",
			fmt.Sprintf(`
	# List %[2]ss
	%[1]s get %[3]s
	# Get a %[2]s by id
	%[1]s get %[4]s 64b7f0c2a1b2c3d4e5f60718
	# Get a %[2]s by title and render it
	%[1]s get %[4]s "Spring update" --detail
	`, meta.CLIName, kind.Label, kind.Name, kind.Singular)))
		rv.Flags().Bool(DetailFlagName, false,
			fmt.Sprintf("Render a single %s as formatted text instead of a table", kind.Label))
	}

	rv.Flags().Int(PageFlagName, 1, "Page to fetch")
	rv.Flags().Bool(AllFlagName, false, "Fetch every page")

	if addParentFlags != nil {
		addParentFlags(verb, rv.Command)
	}
	if parentPreRun != nil {
		rv.PreRunE = parentPreRun
	}
	rv.RunE = rv.runE

	return &rv
}
