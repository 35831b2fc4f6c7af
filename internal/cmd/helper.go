package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pressroom/pressctl/internal/auth"
	"github.com/pressroom/pressctl/internal/build"
	"github.com/pressroom/pressctl/internal/cmd/common"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs"
	"github.com/pressroom/pressctl/internal/cms/client"
	"github.com/pressroom/pressctl/internal/cms/helpers"
	"github.com/pressroom/pressctl/internal/config"
	perr "github.com/pressroom/pressctl/internal/err"
	"github.com/pressroom/pressctl/internal/iostreams"
	"github.com/pressroom/pressctl/internal/log"
	"github.com/spf13/cobra"
)

// Helper gives commands access to everything the root command placed on the
// context. Commands depend on the interface so tests can provide a mock.
type Helper interface {
	GetCmd() *cobra.Command
	GetArgs() []string
	GetVerb() (verbs.VerbValue, error)
	GetStreams() *iostreams.IOStreams
	GetConfig() (config.Hook, error)
	GetOutputFormat() (common.OutputFormat, error)
	GetLogger() (*slog.Logger, error)
	GetBuildInfo() (*build.Info, error)
	GetContext() context.Context
	GetAPI(cfg config.Hook, logger *slog.Logger) (client.API, error)
	GetSession(cfg config.Hook) *auth.Session
}

type CommandHelper struct {
	// Cmd is the command being executed
	Cmd *cobra.Command
	// Args are the positional arguments
	Args []string
}

func (r *CommandHelper) GetCmd() *cobra.Command {
	return r.Cmd
}

func (r *CommandHelper) GetArgs() []string {
	return r.Args
}

func (r *CommandHelper) GetBuildInfo() (*build.Info, error) {
	info, ok := r.Cmd.Context().Value(build.InfoKey).(*build.Info)
	if !ok || info == nil {
		return nil, &ConfigurationError{
			Err: fmt.Errorf("no build info configured"),
		}
	}
	return info, nil
}

func (r *CommandHelper) GetLogger() (*slog.Logger, error) {
	rv, ok := r.Cmd.Context().Value(log.LoggerKey).(*slog.Logger)
	if !ok || rv == nil {
		return nil, &ConfigurationError{
			Err: fmt.Errorf("no logger configured"),
		}
	}
	return rv, nil
}

func (r *CommandHelper) GetVerb() (verbs.VerbValue, error) {
	verbVal, ok := r.Cmd.Context().Value(verbs.Verb).(verbs.VerbValue)
	if !ok {
		return "", PrepareExecutionErrorMsg(r, "no verb found in context")
	}
	return verbVal, nil
}

func (r *CommandHelper) GetStreams() *iostreams.IOStreams {
	if s, ok := r.Cmd.Context().Value(iostreams.StreamsKey).(*iostreams.IOStreams); ok && s != nil {
		return s
	}
	return iostreams.GetOSIOStreams()
}

func (r *CommandHelper) GetConfig() (config.Hook, error) {
	cfg, ok := r.Cmd.Context().Value(config.ConfigKey).(config.Hook)
	if !ok || cfg == nil {
		return nil, PrepareExecutionErrorMsg(r, "no config found in context")
	}
	return cfg, nil
}

func (r *CommandHelper) GetOutputFormat() (common.OutputFormat, error) {
	c, e := r.GetConfig()
	if e != nil {
		return common.TEXT, e
	}
	return common.OutputFormatStringToIota(c.GetString(common.OutputConfigPath))
}

func (r *CommandHelper) GetContext() context.Context {
	return r.Cmd.Context()
}

// GetAPI builds the backend client with the factory found on the context,
// or the default one
func (r *CommandHelper) GetAPI(cfg config.Hook, logger *slog.Logger) (client.API, error) {
	factory, ok := r.Cmd.Context().Value(helpers.APIFactoryKey).(helpers.APIFactory)
	if !ok || factory == nil {
		factory = helpers.GetAPIFactory()
	}
	api, err := factory(cfg, logger)
	if err != nil {
		return nil, &ConfigurationError{Err: err}
	}
	return api, nil
}

func (r *CommandHelper) GetSession(cfg config.Hook) *auth.Session {
	return auth.SessionFromConfig(cfg)
}

func BuildHelper(cmd *cobra.Command, args []string) Helper {
	return &CommandHelper{
		Cmd:  cmd,
		Args: args,
	}
}

// ConfigurationError represents errors that are a result of bad flags, combinations of
// flags, configuration settings, environment values, or other command usage issues.
type ConfigurationError struct {
	Err error
}

// ExecutionError represents errors that occur after a command has been validated and an
// unsuccessful result occurs. Network failures, server rejections and invalid form input
// are examples.
type ExecutionError struct {
	// friendly error message to display to the user
	Msg string
	// Err is the error that occurred during execution
	Err error
	// Optional attributes that can be used to provide additional context to the error
	Attrs []any
}

func (e *ConfigurationError) Error() string {
	return e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func (e *ExecutionError) Error() string {
	return e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// ErrorAttrs turns the typed backend errors into slog style key value pairs
// so the friendly printer can show them under the message.
func ErrorAttrs(err error) []any {
	var rejection *perr.ServerRejection
	if errors.As(err, &rejection) {
		return []any{"status", rejection.Status}
	}
	var network *perr.NetworkFailure
	if errors.As(err, &network) {
		return []any{"method", network.Method, "url", network.URL}
	}
	var validation *perr.ValidationFailure
	if errors.As(err, &validation) {
		attrs := make([]any, 0, len(validation.Fields)*2)
		for _, f := range validation.Fields {
			attrs = append(attrs, f.Field, f.Msg)
		}
		return attrs
	}
	return nil
}

// PrepareExecutionErrorWithHelper mirrors PrepareExecutionError but accepts a Helper.
func PrepareExecutionErrorWithHelper(helper Helper, msg string, err error, attrs ...any) *ExecutionError {
	if helper == nil {
		return PrepareExecutionError(msg, err, nil, attrs...)
	}
	return PrepareExecutionError(msg, err, helper.GetCmd(), attrs...)
}

// PrepareExecutionErrorFromErr converts an arbitrary error into an ExecutionError. The
// friendly message is the one a user should see for err.
func PrepareExecutionErrorFromErr(helper Helper, err error, attrs ...any) *ExecutionError {
	if err == nil {
		return nil
	}
	if len(attrs) == 0 {
		attrs = ErrorAttrs(err)
	}
	return PrepareExecutionErrorWithHelper(helper, perr.Message(err), err, attrs...)
}

// PrepareExecutionErrorMsg builds an ExecutionError from a message when a backing error
// is not already available.
func PrepareExecutionErrorMsg(helper Helper, msg string, attrs ...any) *ExecutionError {
	if msg == "" {
		return PrepareExecutionErrorWithHelper(helper, msg, errors.New("an unknown error occurred"), attrs...)
	}
	return PrepareExecutionErrorWithHelper(helper, msg, errors.New(msg), attrs...)
}

// This will construct an execution error AND turn off error and usage output for the command
func PrepareExecutionError(msg string, err error, cmd *cobra.Command, attrs ...any) *ExecutionError {
	if cmd != nil {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
	}

	return &ExecutionError{
		Msg:   msg,
		Err:   err,
		Attrs: attrs,
	}
}
