package cmd

import (
	"github.com/spf13/cobra"

	tuiapp "github.com/cristianoliveira/questterm/internal/tui/app"
)

// tuiRunner is swapped in tests.
var tuiRunner tuiapp.ProgramRunner

var tuiCmd = &cobra.Command{
	Use:   "tui [console]",
	Short: "Open the full screen terminal",
	Long: `Open the full screen terminal on a console (default: the configured home).

Keys: tab completes, esc goes back, ctrl+y copies the transcript, ctrl+e
switches between editor and command line, ctrl+c quits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	session, err := newSession()
	if err != nil {
		return err
	}
	defer session.Close()

	client := tuiapp.NewDefaultClient(session, tuiRunner, newRenderer(false))
	return client.RunProgram(client.CreateModel(consoleName(args, session.Home())))
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
