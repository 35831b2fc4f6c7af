package create

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
	Verb = verbs.Create
)

var (
	createUse = Verb.String()

	createShort = i18n.T("root.verbs.create.createShort", "Create content")

	createLong = normalizers.LongDesc(i18n.T("root.verbs.create.createLong",
		`Use create to add a blog post, news article or testimonial.

Fields come from flags, a YAML or JSON file, or both. Required fields and
length limits are checked before anything is sent.`))

	createExamples = normalizers.Examples(i18n.T("root.verbs.create.createExamples",
		fmt.Sprintf(`
		# Create a blog post from a file
		%[1]s create blog -f post.yaml
		# Create a testimonial from flags
		%[1]s create testimonial --name "Jane Doe" --description "Great service" --rating 5
		`, meta.CLIName)))
)

func NewCreateCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     createUse,
		Short:   createShort,
		Long:    createLong,
		Example: createExamples,
		Aliases: []string{"c", "C", "add"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	cms.AddCollectionCmds(Verb, cmd)

	return cmd, nil
}
