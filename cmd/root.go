// Package cmd holds the cobra commands of the questterm binary.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/questterm/internal/colors"
	"github.com/cristianoliveira/questterm/internal/config"
	"github.com/cristianoliveira/questterm/internal/logging"
	"github.com/cristianoliveira/questterm/internal/version"
)

var (
	contentDirFlag string
	storageFlag    string

	// helpOutputWriter is swapped in tests.
	helpOutputWriter io.Writer = os.Stdout
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "questterm",
	Short: "A scenario-driven terminal adventure.",
	Long: `questterm is an interactive terminal made of consoles. Type commands,
read files, edit notes and run the scripts each console ships with.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logging.ShutdownGlobal()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = version.String()

	// Hide the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		printHelpText(helpOutputWriter, cmd)
	})

	rootCmd.PersistentFlags().StringVar(&contentDirFlag, "content-dir", "", "directory searched for consoles before the bundled ones")
	rootCmd.PersistentFlags().StringVar(&storageFlag, "storage", "", "storage backend: memory, sqlite or bolt")
}

// setup loads the configuration, applies flag overrides and starts logging.
func setup(cmd *cobra.Command, _ []string) error {
	config.Load()
	if contentDirFlag != "" {
		config.Set("content_dir", contentDirFlag)
	}
	if storageFlag != "" {
		switch storageFlag {
		case "memory", "sqlite", "bolt":
			config.Set("storage_backend", storageFlag)
		default:
			return fmt.Errorf("invalid --storage %q: expected memory, sqlite or bolt", storageFlag)
		}
	}

	colors.SetDebug(config.GetBool("debug", false))
	if err := logging.InitGlobal(); err != nil {
		colors.Warning(fmt.Sprintf("logging disabled: %v", err))
	}
	logging.Debug("command started", "command", cmd.Name())
	return nil
}

func printHelpText(w io.Writer, cmd *cobra.Command) {
	root := cmd.Root()
	if cmd != root {
		fmt.Fprintf(w, "%s\n\nUSAGE:\n    %s\n", cmd.Long, cmd.UseLine())
		if cmd.HasAvailableLocalFlags() {
			fmt.Fprintf(w, "\nOPTIONS:\n%s", cmd.LocalFlags().FlagUsages())
		}
		return
	}

	commandOrder := []string{"tui", "repl", "run", "version", "help"}
	var cmdLines []string
	for _, name := range commandOrder {
		for _, c := range root.Commands() {
			if c.Name() == name {
				cmdLines = append(cmdLines, fmt.Sprintf("    %-24s %s", c.Use, c.Short))
				break
			}
		}
	}

	fmt.Fprintf(w, `questterm v%s

%s

USAGE:
    questterm [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
%s    -h, --help               Show help message
`, version.String(), root.Short, strings.Join(cmdLines, "\n"), root.PersistentFlags().FlagUsages())
}
