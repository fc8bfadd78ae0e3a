package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/yukikurage/sitewalk-tasks/internal/app"
	"github.com/yukikurage/sitewalk-tasks/internal/config"
)

var Version = "dev"

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	if err := newRootCmd(loadApp).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// appLoader builds the services a command runs against
type appLoader func(cmd *cobra.Command) (*app.App, error)

func loadApp(cmd *cobra.Command) (*app.App, error) {
	return app.New(cmd.Context(), config.Load())
}

func newRootCmd(load appLoader) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sitetasks",
		Short:         "Operator commands for the site walkthrough task tracker",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(digestCmd(load))
	rootCmd.AddCommand(initCmd(load))
	rootCmd.AddCommand(projectCmd(load))
	rootCmd.AddCommand(exportCmd(load))

	return rootCmd
}
