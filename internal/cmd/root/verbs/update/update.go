package update

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
	Verb = verbs.Update
)

var (
	updateUse = Verb.String()

	updateShort = i18n.T("root.verbs.update.updateShort", "Update content")

	updateLong = normalizers.LongDesc(i18n.T("root.verbs.update.updateLong",
		`Use update to change an existing item.

The stored item is fetched first and only the fields given are changed.`))

	updateExamples = normalizers.Examples(i18n.T("root.verbs.update.updateExamples",
		fmt.Sprintf(`
		# Feature a news article
		%[1]s update news "Clinic opens" --featured
		# Replace the images of a blog post
		%[1]s update blog 64b7f0c2a1b2c3d4e5f60718 --image cover.png --image chart.png
		`, meta.CLIName)))
)

func NewUpdateCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     updateUse,
		Short:   updateShort,
		Long:    updateLong,
		Example: updateExamples,
		Aliases: []string{"u", "U", "edit"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	cms.AddCollectionCmds(Verb, cmd)

	return cmd, nil
}
