package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/pressroom/pressctl/internal/auth"
	"github.com/pressroom/pressctl/internal/build"
	"github.com/pressroom/pressctl/internal/cmd/common"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs"
	"github.com/pressroom/pressctl/internal/cms/client"
	"github.com/pressroom/pressctl/internal/config"
	"github.com/pressroom/pressctl/internal/iostreams"
	"github.com/spf13/cobra"
)

// MockHelper implements cmd.Helper with overridable functions. Unset
// functions fall back to harmless defaults where one exists.
type MockHelper struct {
	GetCmdMock          func() *cobra.Command
	GetArgsMock         func() []string
	GetVerbMock         func() (verbs.VerbValue, error)
	GetStreamsMock      func() *iostreams.IOStreams
	GetConfigMock       func() (config.Hook, error)
	GetOutputFormatMock func() (common.OutputFormat, error)
	GetLoggerMock       func() (*slog.Logger, error)
	GetBuildInfoMock    func() (*build.Info, error)
	GetContextMock      func() context.Context
	GetAPIMock          func(cfg config.Hook, logger *slog.Logger) (client.API, error)
	GetSessionMock      func(cfg config.Hook) *auth.Session
}

func (m *MockHelper) GetCmd() *cobra.Command {
	if m.GetCmdMock == nil {
		return &cobra.Command{}
	}
	return m.GetCmdMock()
}

func (m *MockHelper) GetArgs() []string {
	if m.GetArgsMock == nil {
		return nil
	}
	return m.GetArgsMock()
}

func (m *MockHelper) GetVerb() (verbs.VerbValue, error) {
	return m.GetVerbMock()
}

func (m *MockHelper) GetStreams() *iostreams.IOStreams {
	return m.GetStreamsMock()
}

func (m *MockHelper) GetConfig() (config.Hook, error) {
	return m.GetConfigMock()
}

func (m *MockHelper) GetOutputFormat() (common.OutputFormat, error) {
	if m.GetOutputFormatMock == nil {
		return common.TEXT, nil
	}
	return m.GetOutputFormatMock()
}

func (m *MockHelper) GetLogger() (*slog.Logger, error) {
	if m.GetLoggerMock == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil
	}
	return m.GetLoggerMock()
}

func (m *MockHelper) GetBuildInfo() (*build.Info, error) {
	return m.GetBuildInfoMock()
}

func (m *MockHelper) GetContext() context.Context {
	if m.GetContextMock == nil {
		return context.Background()
	}
	return m.GetContextMock()
}

func (m *MockHelper) GetAPI(cfg config.Hook, logger *slog.Logger) (client.API, error) {
	return m.GetAPIMock(cfg, logger)
}

func (m *MockHelper) GetSession(cfg config.Hook) *auth.Session {
	if m.GetSessionMock == nil {
		return auth.SessionFromConfig(cfg)
	}
	return m.GetSessionMock(cfg)
}
