package account

import (
	"fmt"

	cmdpkg "github.com/pressroom/pressctl/internal/cmd"
	"github.com/pressroom/pressctl/internal/meta"
	"github.com/pressroom/pressctl/internal/util/i18n"
	"github.com/pressroom/pressctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

var (
	logoutShort = i18n.T("root.account.logoutShort", "Sign out of the active profile")
	logoutLong  = i18n.T("root.account.logoutLong",
		"Remove the stored session for the active profile.")
	logoutExample = normalizers.Examples(i18n.T("root.account.logoutExample",
		fmt.Sprintf(`
	# Sign out
	%[1]s logout
	# Sign out of the staging profile
	%[1]s logout -p staging
	`, meta.CLIName)))
)

type logoutCmd struct {
	*cobra.Command
}

func (c *logoutCmd) validate(helper cmdpkg.Helper) error {
	if len(helper.GetArgs()) > 0 {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("the logout command does not accept arguments"),
		}
	}
	return nil
}

func (c *logoutCmd) run(helper cmdpkg.Helper) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}

	streams := helper.GetStreams()
	session := helper.GetSession(cfg)
	_, stored := session.User()

	if err := session.Teardown(); err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, "failed to remove the stored session", err)
	}

	if stored {
		fmt.Fprintf(streams.Out, "Removed stored credentials for profile %q\n", session.Profile())
	} else {
		fmt.Fprintf(streams.Out, "No stored credentials found for profile %q\n", session.Profile())
	}
	return nil
}

func (c *logoutCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(cobraCmd, args)
	if err := c.validate(helper); err != nil {
		return err
	}
	return c.run(helper)
}

// NewLogoutCmd turns baseCmd into the logout command
func NewLogoutCmd(baseCmd *cobra.Command) *cobra.Command {
	rv := logoutCmd{Command: baseCmd}

	rv.Short = logoutShort
	rv.Long = logoutLong
	rv.Example = logoutExample
	rv.RunE = rv.runE

	return rv.Command
}
