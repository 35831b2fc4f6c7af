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

type createCollectionCmd struct {
	*cobra.Command
	kind content.Kind
}

func (c *createCollectionCmd) validate(helper cmdpkg.Helper) error {
	if len(helper.GetArgs()) > 0 {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("create %s does not accept arguments, provide fields with flags or --%s",
				c.kind.Singular, FileFlagName),
		}
	}
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	return validateJQ(helper, cfg)
}

func (c *createCollectionCmd) run(helper cmdpkg.Helper) error {
	resource, cfg, err := resourceFor(helper, c.kind)
	if err != nil {
		return err
	}
	logger, err := helper.GetLogger()
	if err != nil {
		return err
	}

	item, _, err := overlayInput(c.Command, resource, resource.New(), helper.GetStreams().In)
	if err != nil {
		return err
	}

	logger.Info(fmt.Sprintf("Creating %s %q", c.kind.Label, item.DisplayName()))
	if err := mutation.New[content.Item](resource, nil).Create(helper.GetContext(), item); err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper,
			fmt.Sprintf("Failed to create %s: %s", c.kind.Label, perr.Message(err)), err, cmdpkg.ErrorAttrs(err)...)
	}

	return printResult(helper, cfg,
		result{Kind: c.kind.Singular, Name: item.DisplayName(), Status: "created"},
		fmt.Sprintf("%s %q created", normalizers.Title(c.kind.Label), item.DisplayName()))
}

func (c *createCollectionCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(cobraCmd, args)
	if err := c.validate(helper); err != nil {
		return err
	}
	return c.run(helper)
}

func newCreateCollectionCmd(verb verbs.VerbValue,
	kind content.Kind,
	baseCmd *cobra.Command,
	addParentFlags func(verbs.VerbValue, *cobra.Command),
	parentPreRun func(*cobra.Command, []string) error,
) *createCollectionCmd {
	rv := createCollectionCmd{
		Command: baseCmd,
		kind:    kind,
	}

	rv.Use = kind.Singular
	rv.Aliases = aliases(kind, kind.Singular)
	rv.Short = i18n.T("root.cms.create."+kind.Name+"Short", fmt.Sprintf("Create a %s", kind.Label))
	rv.Long = normalizers.LongDesc(i18n.T("root.cms.create."+kind.Name+"Long",
		fmt.Sprintf(`Create a %s from flags, an input file, or both. Flags override
values read from the file. The form rules are checked before anything is sent.`, kind.Label)))
	rv.Example = normalizers.Examples(i18n.T("root.cms.create."+kind.Name+"Examples",
		fmt.Sprintf(`
	# Create a %[2]s from a YAML file
	%[1]s create %[3]s -f %[3]s.yaml
	# Create a %[2]s from flags
	%[1]s create %[3]s %[4]s
	`, meta.CLIName, kind.Label, kind.Singular, exampleFlags(kind))))

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

func exampleFlags(kind content.Kind) string {
	switch kind.Name {
	case content.NewsKind.Name:
		return `--title "Clinic opens" --excerpt "..." --author "Press Office" --category Medical --tags "health, local"`
	case content.Testimonials.Name:
		return `--name "Jane Doe" --description "Great service" --rating 5 --image jane.jpg`
	}
	return `--title "Spring update" --summary "What changed" --content @post.md --image cover.png`
}
