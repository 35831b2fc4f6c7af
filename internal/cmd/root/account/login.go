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
	loginShort = i18n.T("root.account.loginShort", "Sign in to the content backend")
	loginLong  = normalizers.LongDesc(i18n.T("root.account.loginLong",
		`Sign in with a username and password. The token the server returns is
stored for the active profile and sent with every later request.

Missing values are asked for. The password is read without echo on a
terminal, or from standard input with --password-stdin.`))
	loginExample = normalizers.Examples(i18n.T("root.account.loginExample",
		fmt.Sprintf(`
	# Sign in, answering the prompts
	%[1]s login
	# Sign in from a script
	echo "$PASSWORD" | %[1]s login -u editor --password-stdin
	# Sign in to another backend under its own profile
	%[1]s login -p staging --base-url https://staging.example.com/api
	`, meta.CLIName)))
)

type loginCmd struct {
	*cobra.Command
}

func (c *loginCmd) validate(helper cmdpkg.Helper) error {
	if len(helper.GetArgs()) > 0 {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("the login command does not accept arguments"),
		}
	}
	username, _ := c.Flags().GetString(UsernameFlagName)
	fromStdin, _ := c.Flags().GetBool(PasswordStdinFlagName)
	if fromStdin && username == "" {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s requires --%s", PasswordStdinFlagName, UsernameFlagName),
		}
	}
	return nil
}

func (c *loginCmd) run(helper cmdpkg.Helper) error {
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
	username, _ := c.Flags().GetString(UsernameFlagName)
	if username, err = p.valueOr(username, "Username"); err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}
	password, err := p.secret("Password")
	if err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}

	creds := content.Credentials{Username: username, Password: password}
	if err := creds.Validate(); err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}

	api, err := helper.GetAPI(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Signing in as %q", username))
	res, err := api.Login(helper.GetContext(), creds)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper,
			"Login failed: "+perr.Message(err), err, cmdpkg.ErrorAttrs(err)...)
	}

	session := helper.GetSession(cfg)
	user := res.User
	if user.Username == "" {
		user.Username = username
	}
	if err := session.Init(res.Token, user); err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, "failed to store the session", err)
	}

	return printUser(helper, newUserRecord(user, session.Profile()),
		fmt.Sprintf("Logged in as %s (profile %q)", user.Username, session.Profile()))
}

func (c *loginCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(cobraCmd, args)
	if err := c.validate(helper); err != nil {
		return err
	}
	return c.run(helper)
}

// NewLoginCmd turns baseCmd into the login command
func NewLoginCmd(baseCmd *cobra.Command) *cobra.Command {
	rv := loginCmd{Command: baseCmd}

	rv.Short = loginShort
	rv.Long = loginLong
	rv.Example = loginExample

	rv.Flags().StringP(UsernameFlagName, UsernameFlagShort, "", "Account username")
	rv.Flags().Bool(PasswordStdinFlagName, false, "Read the password from standard input")
	rv.RunE = rv.runE

	return rv.Command
}
