package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/artifactvault/pkg/internal/storage/queue"
)

var (
	queueCmd = &cobra.Command{
		Use:     "queue",
		Short:   "Work queue related commands",
		Aliases: []string{"q"},
	}

	queueListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list all registered queue types",
		Aliases: []string{"ls", "l"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Registered queue types:")
			for _, t := range queue.GetRegisteredTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), "   - "+string(t))
			}
		},
	}
)

// registerQueueCommands 注册队列相关命令.
func registerQueueCommands() {
	rootCmd.AddCommand(queueCmd)
	queueCmd.AddCommand(queueListCmd)
}
