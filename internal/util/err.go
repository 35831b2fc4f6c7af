package util

import "github.com/spf13/cobra"

// CheckError prints err and exits the process when err is non-nil. Only used
// during command tree construction, before a command has a context.
func CheckError(err error) {
	cobra.CheckErr(err)
}
