package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/pressroom/pressctl/internal/build"
	"github.com/pressroom/pressctl/internal/cmd"
	"github.com/pressroom/pressctl/internal/cmd/common"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs/create"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs/del"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs/get"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs/list"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs/login"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs/logout"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs/register"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs/update"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs/view"
	"github.com/pressroom/pressctl/internal/cmd/root/version"
	"github.com/pressroom/pressctl/internal/config"
	"github.com/pressroom/pressctl/internal/iostreams"
	"github.com/pressroom/pressctl/internal/log"
	"github.com/pressroom/pressctl/internal/meta"
	"github.com/pressroom/pressctl/internal/theme"
	"github.com/pressroom/pressctl/internal/util"
	"github.com/pressroom/pressctl/internal/util/i18n"
	"github.com/pressroom/pressctl/internal/util/normalizers"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

var (
	rootLong = normalizers.LongDesc(i18n.T("root.rootLong", `
  pressctl manages the blog posts, news articles and testimonials of a
  content backend from the command line.

  Sign in with "pressctl login", then list, get, create, update and delete
  content, or browse it with "pressctl view".`))

	rootShort = i18n.T("root/rootShort", fmt.Sprintf("%s manages site content", meta.CLIName))

	rootCmd *cobra.Command

	// Stores the global runtime value for the Configuration file path,
	configFilePath = defaultConfigFilePath()
	currProfile    = config.DefaultProfile

	currConfig   config.Hook
	streams      *iostreams.IOStreams
	outputFormat = cmd.NewEnum([]string{"json", "yaml", "text"}, common.DefaultOutputFormat)
	logLevel     = cmd.NewEnum([]string{"trace", "debug", "info", "warn", "error"}, common.DefaultLogLevel)
	colorTheme   = theme.NewFlag(config.DefaultTheme)

	logCloser io.Closer
	buildInfo *build.Info
)

func defaultConfigFilePath() string {
	path, err := config.GetDefaultConfigFilePath()
	if err != nil {
		return ""
	}
	return path
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   meta.CLIName,
		Short: rootShort,
		Long:  rootLong,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, config.ConfigKey, currConfig)
			ctx = context.WithValue(ctx, iostreams.StreamsKey, streams)
			ctx = context.WithValue(ctx, build.InfoKey, buildInfo)

			logger, closer, err := log.New(log.Options{
				Level:    log.ConfigLevelStringToSlogLevel(currConfig.GetString(common.LogLevelConfigPath)),
				FilePath: currConfig.GetString(config.LogFileConfigPath),
				ErrOut:   streams.ErrOut,
			})
			if err != nil {
				return &cmd.ConfigurationError{Err: fmt.Errorf("failed to open the log file: %w", err)}
			}
			logCloser = closer
			ctx = context.WithValue(ctx, log.LoggerKey, logger)

			if err := theme.SetCurrent(currConfig.GetString(config.ThemeConfigPath)); err != nil {
				return &cmd.ConfigurationError{Err: err}
			}
			ctx = theme.ContextWithPalette(ctx, theme.Current())

			c.SetContext(ctx)
			return nil
		},
	}

	// parses all flags not just the target command
	rootCmd.TraverseChildren = true

	rootCmd.PersistentFlags().StringVar(&configFilePath, common.ConfigFilePathFlagName,
		defaultConfigFilePath(),
		i18n.T("root."+common.ConfigFilePathFlagName, "Path to the configuration file to load."))

	rootCmd.PersistentFlags().StringVarP(&currProfile, common.ProfileFlagName, common.ProfileFlagShort,
		config.DefaultProfile,
		fmt.Sprintf("Specify the profile to use for this command. Also read from %s_PROFILE.",
			strings.ToUpper(meta.CLIName)))

	rootCmd.PersistentFlags().VarP(outputFormat, common.OutputFlagName, common.OutputFlagShort,
		fmt.Sprintf(`Configures the output format.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.OutputConfigPath, strings.Join(outputFormat.Allowed, "|")))

	rootCmd.PersistentFlags().Var(logLevel, common.LogLevelFlagName,
		fmt.Sprintf(`Configures the logging level. Execution logs are written to the log file.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.LogLevelConfigPath, strings.Join(logLevel.Allowed, "|")))

	rootCmd.PersistentFlags().String(common.LogFileFlagName, "",
		fmt.Sprintf(`Write execution logs to the specified file path.
- Config path: [ %s ]`, config.LogFileConfigPath))

	rootCmd.PersistentFlags().String(common.BaseURLFlagName, "",
		fmt.Sprintf(`Base URL of the content API.
- Config path: [ %s ]
- Default    : [ %s ]`, config.BaseURLConfigPath, config.DefaultBaseURL))

	rootCmd.PersistentFlags().String(common.TokenFlagName, "",
		fmt.Sprintf(`Authentication token sent with every request.
Setting this value overrides the session stored by the login command.
- Config path: [ %s ]`, config.TokenConfigPath))

	rootCmd.PersistentFlags().String(common.TimeoutFlagName, "",
		fmt.Sprintf(`Per request timeout, for example 10s or 1m.
- Config path: [ %s ]
- Default    : [ %s ]`, config.TimeoutConfigPath, config.DefaultTimeout))

	rootCmd.PersistentFlags().Var(colorTheme, common.ThemeFlagName,
		fmt.Sprintf(`Color theme for interactive views.
- Config path: [ %s ]
- Allowed    : [ %s ]`, config.ThemeConfigPath, strings.Join(theme.Available(), "|")))

	return rootCmd
}

// addCommands adds the root subcommands to the command.
func addCommands() error {
	rootCmd.AddCommand(version.NewVersionCmd())

	for _, newCmd := range []func() (*cobra.Command, error){
		get.NewGetCmd,
		list.NewListCmd,
		create.NewCreateCmd,
		update.NewUpdateCmd,
		del.NewDeleteCmd,
		view.NewViewCmd,
		login.NewLoginCmd,
		logout.NewLogoutCmd,
		register.NewRegisterCmd,
	} {
		c, e := newCmd()
		if e != nil {
			return e
		}
		rootCmd.AddCommand(c)
	}

	return nil
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()
	err := addCommands()
	util.CheckError(err)

	// Because the profile is not part of the configuration, we can't use viper
	// to read it following it's built in priorities.  So here we look for a well known
	// profile variable and set our package level variable if it's set before
	// continuing to process the command run.  This creates a ENV_VAR < CLI_FLAG priority
	profileEnvVar, found := os.LookupEnv(fmt.Sprintf("%s_PROFILE", strings.ToUpper(meta.CLIName)))
	if found {
		currProfile = profileEnvVar
	}
}

func initConfig() {
	cfg, e1 := config.GetConfig(configFilePath, currProfile, defaultConfigFilePath())
	util.CheckError(e1)
	currConfig = cfg

	for flag, path := range map[string]string{
		common.OutputFlagName:   common.OutputConfigPath,
		common.LogLevelFlagName: common.LogLevelConfigPath,
		common.LogFileFlagName:  config.LogFileConfigPath,
		common.BaseURLFlagName:  config.BaseURLConfigPath,
		common.TokenFlagName:    config.TokenConfigPath,
		common.TimeoutFlagName:  config.TimeoutConfigPath,
		common.ThemeFlagName:    config.ThemeConfigPath,
	} {
		f := rootCmd.PersistentFlags().Lookup(flag)
		util.CheckError(cfg.BindFlag(path, f))
	}
}

// errorRecord is how an execution error is printed in json and yaml
type errorRecord struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

func newErrorRecord(e *cmd.ExecutionError) errorRecord {
	rv := errorRecord{Error: e.Msg}
	if rv.Error == "" {
		rv.Error = e.Error()
	}
	for i := 0; i+1 < len(e.Attrs); i += 2 {
		if rv.Details == nil {
			rv.Details = map[string]any{}
		}
		rv.Details[fmt.Sprint(e.Attrs[i])] = e.Attrs[i+1]
	}
	return rv
}

func printExecutionError(w io.Writer, format string, e *cmd.ExecutionError) {
	record := newErrorRecord(e)
	if format == common.TEXT.String() {
		fmt.Fprintf(w, "Error: %s\n", record.Error)
		for _, k := range slices.Sorted(maps.Keys(record.Details)) {
			fmt.Fprintf(w, "  %s: %v\n", k, record.Details[k])
		}
		return
	}
	printer, err := cli.Format(format, w)
	if err != nil {
		fmt.Fprintf(w, "Error: %s\n", record.Error)
		return
	}
	defer printer.Flush()
	printer.Print(record)
}

func Execute(ctx context.Context, s *iostreams.IOStreams, bi *build.Info) {
	buildInfo = bi
	cobra.EnableTraverseRunHooks = true
	streams = s
	err := rootCmd.ExecuteContext(ctx)
	if logCloser != nil {
		_ = logCloser.Close()
	}
	if err != nil {
		var executionError *cmd.ExecutionError
		if errors.As(err, &executionError) {
			printExecutionError(s.ErrOut, outputFormat.String(), executionError)
		}
		os.Exit(1)
	}
}
