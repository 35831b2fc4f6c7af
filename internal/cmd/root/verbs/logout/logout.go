package logout

import (
	"context"

	"github.com/pressroom/pressctl/internal/cmd/root/account"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.Logout
)

func NewLogoutCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use: Verb.String(),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}
	return account.NewLogoutCmd(cmd), nil
}
