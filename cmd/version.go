package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/questterm/internal/version"
)

var versionOutputWriter io.Writer = os.Stdout

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Show the questterm version and the commit it was built from.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		PrintVersion()
	},
}

// PrintVersion writes the version line.
func PrintVersion() {
	fmt.Fprintf(versionOutputWriter, "questterm v%s\n", version.String())
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
