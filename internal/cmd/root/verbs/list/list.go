package list

import (
	"context"
	"fmt"

	"github.com/pressroom/pressctl/internal/cmd/root/cms"
	"github.com/pressroom/pressctl/internal/cmd/root/verbs"
	"github.com/pressroom/pressctl/internal/meta"
	"github.com/pressroom/pressctl/internal/util/i18n"
	"github.com/pressroom/pressctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.List
)

var (
	listUse = Verb.String()

	listShort = i18n.T("root.verbs.list.listShort", "List content")

	listLong = normalizers.LongDesc(i18n.T("root.verbs.list.listLong",
		`Use list to page through a collection, newest first.

The page number, page count and total are reported after a text listing
and included in json and yaml output.`))

	listExamples = normalizers.Examples(i18n.T("root.verbs.list.listExamples",
		fmt.Sprintf(`
		# List the first page of blog posts
		%[1]s list blogs
		# List page 2 of news, 25 per page
		%[1]s list news --page 2 --page-size 25
		# List every testimonial as json
		%[1]s list testimonials --all -o json
		`, meta.CLIName)))
)

func NewListCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     listUse,
		Short:   listShort,
		Long:    listLong,
		Example: listExamples,
		Aliases: []string{"l", "L", "ls"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	cms.AddCollectionCmds(Verb, cmd)

	return cmd, nil
}
