package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vortechstudio/appinstall/cli/internal/version"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		if versionShort {
			fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return nil
		}
		console.Table([]string{"Field", "Value"}, info.Rows())
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVarP(&versionShort, "short", "s", false, "Print a single line")
	rootCmd.AddCommand(versionCmd)
}
