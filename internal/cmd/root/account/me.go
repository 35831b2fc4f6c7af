package account

import (
	"fmt"

	cmdpkg "github.com/pressroom/pressctl/internal/cmd"
	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/pressroom/pressctl/internal/config"
	"github.com/pressroom/pressctl/internal/meta"
	"github.com/pressroom/pressctl/internal/util/i18n"
	"github.com/pressroom/pressctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

var (
	meShort = i18n.T("root.account.meShort", "Show the signed-in account")
	meLong  = i18n.T("root.account.meLong",
		"Show the account the active profile is signed in as.")
	meExample = normalizers.Examples(i18n.T("root.account.meExample",
		fmt.Sprintf(`
	# Show the signed-in account
	%[1]s get me
	`, meta.CLIName)))
)

type meCmd struct {
	*cobra.Command
}

func (c *meCmd) validate(helper cmdpkg.Helper) error {
	if len(helper.GetArgs()) > 0 {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("the me command does not accept arguments"),
		}
	}
	return nil
}

func (c *meCmd) run(helper cmdpkg.Helper) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	session := helper.GetSession(cfg)

	if override := cfg.GetString(config.TokenConfigPath); override != "" {
		record := newUserRecord(content.User{}, session.Profile())
		record.Source = config.TokenConfigPath
		return printUser(helper, record,
			fmt.Sprintf("Using a token from --%s for profile %q", config.TokenConfigPath, session.Profile()))
	}

	user, ok := session.User()
	if !ok {
		return cmdpkg.PrepareExecutionErrorMsg(helper,
			fmt.Sprintf("not logged in for profile %q, run \"%s login\"", session.Profile(), meta.CLIName))
	}
	return printUser(helper, newUserRecord(user, session.Profile()), "")
}

func (c *meCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(cobraCmd, args)
	if err := c.validate(helper); err != nil {
		return err
	}
	return c.run(helper)
}

// NewMeCmd returns the "me" command shown under get
func NewMeCmd() *cobra.Command {
	rv := meCmd{
		Command: &cobra.Command{
			Use:     "me",
			Aliases: []string{"whoami", "user"},
			Short:   meShort,
			Long:    meLong,
			Example: meExample,
		},
	}
	rv.RunE = rv.runE
	return rv.Command
}
