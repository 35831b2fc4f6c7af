package cms

import (
	"fmt"

	cmdpkg "github.com/pressroom/pressctl/internal/cmd"
	"github.com/pressroom/pressctl/internal/cmd/common"
	"github.com/pressroom/pressctl/internal/cmd/output/jq"
	"github.com/pressroom/pressctl/internal/config"
	"github.com/segmentio/cli"
)

// result is what create, update and delete report for json and yaml
type result struct {
	ID     string `json:"id,omitempty"`
	Kind   string `json:"kind"`
	Name   string `json:"name,omitempty"`
	Status string `json:"status"`
}

// printStructured writes value in the json or yaml format, through the jq
// filter when one was given
func printStructured(helper cmdpkg.Helper, cfg config.Hook, outType common.OutputFormat, value any) error {
	settings, err := jq.ResolveSettings(helper.GetCmd(), cfg)
	if err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}
	out := helper.GetStreams().Out
	filtered, handled, err := jq.Apply(value, outType, settings, out)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, "Failed to apply jq filter", err)
	}
	if handled {
		return nil
	}

	printer, err := cli.Format(outType.String(), out)
	if err != nil {
		return err
	}
	defer printer.Flush()
	printer.Print(filtered)
	return nil
}

// validateJQ fails fast on --jq combinations that cannot be served, before
// any request is sent
func validateJQ(helper cmdpkg.Helper, cfg config.Hook) error {
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	settings, err := jq.ResolveSettings(helper.GetCmd(), cfg)
	if err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}
	return jq.ValidateOutputFormat(outType, settings)
}

func printResult(helper cmdpkg.Helper, cfg config.Hook, r result, message string) error {
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	if outType == common.TEXT {
		_, err = fmt.Fprintln(helper.GetStreams().Out, message)
		return err
	}
	return printStructured(helper, cfg, outType, r)
}
