// Package cmd contains the command line applications for the project.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yeisme/artifactvault/pkg/app"
)

var (
	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "artifactvault",
		Short: "A content-addressed artifact storage and processing service",
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "start the artifact service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.NewApp(configPath).Run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./", "config file or directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose diagnostic output")

	rootCmd.AddCommand(serveCmd)
	registerConfigsCommands()
	registerKVCommands()
	registerQueueCommands()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
