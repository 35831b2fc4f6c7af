// Package account holds the commands that change or report who the CLI is
// signed in as: login, register, logout and "get me".
package account

import (
	"fmt"

	cmdpkg "github.com/pressroom/pressctl/internal/cmd"
	"github.com/pressroom/pressctl/internal/cmd/common"
	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/pressroom/pressctl/internal/util"
	"github.com/segmentio/cli"
)

const (
	UsernameFlagName  = "username"
	UsernameFlagShort = "u"

	NameFlagName = "name"

	PasswordStdinFlagName = "password-stdin"
)

// userRecord is what account commands print. The token is never part of it.
type userRecord struct {
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	ID       string `json:"id,omitempty"`
	Profile  string `json:"profile"`
	Source   string `json:"source,omitempty"`
}

type textUserRecord struct {
	Username string
	Name     string
	Profile  string
}

func newUserRecord(user content.User, profile string) userRecord {
	return userRecord{Username: user.Username, Name: user.Name, ID: user.ID, Profile: profile}
}

func printUser(helper cmdpkg.Helper, record userRecord, message string) error {
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	out := helper.GetStreams().Out
	if outType == common.TEXT && message != "" {
		_, err = fmt.Fprintln(out, message)
		return err
	}

	printer, err := cli.Format(outType.String(), out)
	if err != nil {
		return err
	}
	defer printer.Flush()
	if outType == common.TEXT {
		printer.Print(textUserRecord{
			Username: orMissing(record.Username),
			Name:     orMissing(record.Name),
			Profile:  record.Profile,
		})
		return nil
	}
	printer.Print(record)
	return nil
}

func orMissing(s string) string {
	return util.FirstNonEmpty(s, "n/a")
}
