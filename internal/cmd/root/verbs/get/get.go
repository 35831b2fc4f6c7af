package get

import (
	"context"
	"fmt"

	"github.com/pressroom/pressctl/internal/cmd/root/account"
	"github.com/pressroom/pressctl/internal/cmd/root/cms"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs"
	"github.com/pressroom/pressctl/internal/meta"
	"github.com/pressroom/pressctl/internal/util/i18n"
	"github.com/pressroom/pressctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.Get
)

var (
	getUse = Verb.String()

	getShort = i18n.T("root.verbs.get.getShort", "Retrieve content")

	getLong = normalizers.LongDesc(i18n.T("root.verbs.get.getLong",
		`Use get to retrieve a single item by id or title, or a page of a collection.

Output can be formatted in multiple ways to aid in further processing.`))

	getExamples = normalizers.Examples(i18n.T("root.verbs.get.getExamples",
		fmt.Sprintf(`
		# Retrieve the first page of blog posts
		%[1]s get blogs
		# Retrieve a news article by id
		%[1]s get news 64b7f0c2a1b2c3d4e5f60718
		# Retrieve a testimonial by name, rendered for reading
		%[1]s get testimonial "Jane Doe" --detail
		# Show the signed-in account
		%[1]s get me
		`, meta.CLIName)))
)

func NewGetCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     getUse,
		Short:   getShort,
		Long:    getLong,
		Example: getExamples,
		Aliases: []string{"g", "G"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	cms.AddCollectionCmds(Verb, cmd)
	cmd.AddCommand(account.NewMeCmd())

	return cmd, nil
}
