package account

import (
	"fmt"

	cmdpkg "github.com/pressroom/pressctl/internal/cmd"
	"github.com/pressroom/pressctl/internal/cms/content"
	perr "github.com/pressroom/pressctl/internal/err"
	"github.com/pressroom/pressctl/internal/meta"
	"github.com/pressroom/pressctl/internal/util/i18n"
	"github.com/pressroom/pressctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

var (
	registerShort = i18n.T("root.account.registerShort", "Create an account and sign in")
	registerLong  = normalizers.LongDesc(i18n.T("root.account.registerLong",
		fmt.Sprintf(`Create an administrator account. On success the new account is
signed in for the active profile, just like login.

Passwords must be at least %d characters and are asked for twice. With
--password-stdin a single line is read and used for both.`, content.MinPasswordLength)))
	registerExample = normalizers.Examples(i18n.T("root.account.registerExample",
		fmt.Sprintf(`
	# Register, answering the prompts
	%[1]s register
	# Register from a script
	echo "$PASSWORD" | %[1]s register -u editor --name "Press Office" --password-stdin
	`, meta.CLIName)))
)

type registerCmd struct {
	*cobra.Command
}

func (c *registerCmd) validate(helper cmdpkg.Helper) error {
	if len(helper.GetArgs()) > 0 {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("the register command does not accept arguments"),
		}
	}
	username, _ := c.Flags().GetString(UsernameFlagName)
	name, _ := c.Flags().GetString(NameFlagName)
	fromStdin, _ := c.Flags().GetBool(PasswordStdinFlagName)
	if fromStdin && (username == "" || name == "") {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s requires --%s and --%s", PasswordStdinFlagName, UsernameFlagName, NameFlagName),
		}
	}
	return nil
}

func (c *registerCmd) run(helper cmdpkg.Helper) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	logger, err := helper.GetLogger()
	if err != nil {
		return err
	}

	streams := helper.GetStreams()
	p := newPrompter(streams.In, streams.ErrOut)
	reg := content.Registration{}
	reg.Username, _ = c.Flags().GetString(UsernameFlagName)
	reg.Name, _ = c.Flags().GetString(NameFlagName)
	if reg.Username, err = p.valueOr(reg.Username, "Username"); err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}
	if reg.Name, err = p.valueOr(reg.Name, "Full name"); err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}
	if reg.Password, err = p.secret("Password"); err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}
	if fromStdin, _ := c.Flags().GetBool(PasswordStdinFlagName); fromStdin {
		reg.Confirm = reg.Password
	} else if reg.Confirm, err = p.secret("Confirm password"); err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}

	if err := reg.Validate(); err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}

	api, err := helper.GetAPI(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Registering %q", reg.Username))
	res, err := api.Register(helper.GetContext(), reg)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper,
			"Registration failed: "+perr.Message(err), err, cmdpkg.ErrorAttrs(err)...)
	}

	session := helper.GetSession(cfg)
	user := res.User
	if user.Username == "" {
		user.Username, user.Name = reg.Username, reg.Name
	}
	if err := session.Init(res.Token, user); err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, "failed to store the session", err)
	}

	return printUser(helper, newUserRecord(user, session.Profile()),
		fmt.Sprintf("Registered and logged in as %s (profile %q)", user.Username, session.Profile()))
}

func (c *registerCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(cobraCmd, args)
	if err := c.validate(helper); err != nil {
		return err
	}
	return c.run(helper)
}

// NewRegisterCmd turns baseCmd into the register command
func NewRegisterCmd(baseCmd *cobra.Command) *cobra.Command {
	rv := registerCmd{Command: baseCmd}

	rv.Short = registerShort
	rv.Long = registerLong
	rv.Example = registerExample

	rv.Flags().StringP(UsernameFlagName, UsernameFlagShort, "", "Account username")
	rv.Flags().String(NameFlagName, "", "Full name shown in the admin panel")
	rv.Flags().Bool(PasswordStdinFlagName, false, "Read the password from standard input")
	rv.RunE = rv.runE

	return rv.Command
}
