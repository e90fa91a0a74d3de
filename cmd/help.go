package cmd

import (
	"github.com/spf13/cobra"
)

// helpCmd represents the help command
var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Show this help message",
	Long:  `Show the help of questterm or one of its commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		target, _, err := cmd.Root().Find(args)
		if err != nil || target == nil {
			target = cmd.Root()
		}
		printHelpText(helpOutputWriter, target)
	},
}

func init() {
	rootCmd.SetHelpCommand(helpCmd)
}
