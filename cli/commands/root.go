package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vortechstudio/appinstall/cli/internal/config"
	"github.com/vortechstudio/appinstall/cli/internal/ui"
	"github.com/vortechstudio/appinstall/internal/debug"
)

var (
	cfgFile string
	verbose bool

	cfg     *config.Config
	console *ui.Console
)

var rootCmd = &cobra.Command{
	Use:   "appinstall",
	Short: "Install and bootstrap a Laravel application deployment",
	Long: `appinstall prepares a freshly cloned Laravel application for use.

It writes the environment file, configures and migrates the database,
installs the standard package set and imports the GitHub workflows.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .appinstall.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show debug logs and command output")
}

func setup(cmd *cobra.Command, args []string) error {
	debug.Init(verbose)
	console = ui.NewConsole(verbose)

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded
	debug.Debug("config loaded", "base_path", cfg.BasePath, "http_timeout", cfg.HTTPTimeout)
	return nil
}

// Execute is the main entry point for the CLI
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		if console == nil {
			console = ui.NewConsole(verbose)
		}
		console.Error(err.Error())
	}
	return err
}
