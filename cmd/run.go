package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/questterm/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run [console] -- <command line>",
	Short: "Run commands without a terminal UI",
	Long: `Start a console, run one command line and print the transcript.
Separate several command lines with ";".

Example:
    questterm run intro -- "ls all; cat readme.md"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, lines, err := splitRunArgs(args, cmd.ArgsLenAtDash())
		if err != nil {
			return err
		}

		session, err := newSession()
		if err != nil {
			return err
		}
		defer session.Close()

		out := cmd.OutOrStdout()
		useCase := app.NewRunUseCase(session, newRenderer(!isTerminal(out)))
		return useCase.Execute(cmd.Context(), consoleName([]string{name}, session.Home()), lines, out)
	},
}

// splitRunArgs separates the console name from the command lines after "--".
func splitRunArgs(args []string, dash int) (string, []string, error) {
	if dash < 0 {
		return "", nil, fmt.Errorf("run: missing command line, use: questterm run [console] -- <command line>")
	}
	if dash > 1 {
		return "", nil, fmt.Errorf("run: expected at most one console name before --, got %d", dash)
	}

	name := ""
	if dash == 1 {
		name = args[0]
	}

	var lines []string
	for _, line := range strings.Split(strings.Join(args[dash:], " "), ";") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "", nil, fmt.Errorf("run: empty command line")
	}
	return name, lines, nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
