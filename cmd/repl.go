package cmd

import (
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/cristianoliveira/questterm/internal/logging"
	"github.com/cristianoliveira/questterm/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl [console]",
	Short: "Play line by line in the current terminal",
	Long: `Play a console line by line with a prompt and completion. Input that is
not a terminal is read as one command per line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}
		defer session.Close()

		out := cmd.OutOrStdout()
		plain := !isTerminal(out)
		r := repl.New(session, repl.Options{
			In:       cmd.InOrStdin(),
			Out:      out,
			Renderer: newRenderer(plain),
			Logger:   logging.GetGlobal(),
		})
		return r.Run(cmd.Context(), consoleName(args, session.Home()))
	},
}

// isTerminal reports whether w is a terminal.
func isTerminal(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func init() {
	rootCmd.AddCommand(replCmd)
}
