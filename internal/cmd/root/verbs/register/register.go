package register

import (
	"context"

	"github.com/pressroom/pressctl/internal/cmd/root/account"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.Register
)

func NewRegisterCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     Verb.String(),
		Aliases: []string{"signup"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}
	return account.NewRegisterCmd(cmd), nil
}
