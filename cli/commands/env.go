package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vortechstudio/appinstall/cli/internal/config"
	"github.com/vortechstudio/appinstall/envfile"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Edit the application environment file",
}

var envSetCmd = &cobra.Command{
	Use:   "set KEY=VALUE...",
	Short: "Set keys in .env",
	Long: `Set one or more keys in the application .env file.

Existing lines for a key are replaced in place, new keys are appended.
Values are written verbatim, without quoting.`,
	Example: "  appinstall env set LOG_CHANNEL=daily APP_DEBUG=false",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runEnvSet,
}

var envPath string

func init() {
	envCmd.PersistentFlags().StringVarP(&envPath, "path", "p", "", "Application base path (default from config, else .)")
	envCmd.AddCommand(envSetCmd)
	rootCmd.AddCommand(envCmd)
}

func runEnvSet(cmd *cobra.Command, args []string) error {
	pairs, err := parsePairs(args)
	if err != nil {
		return err
	}

	path := filepath.Join(resolveBasePath(envPath), envfile.ActiveFile)
	if err := envfile.Update(config.AppFs, path, pairs...); err != nil {
		return err
	}

	for _, p := range pairs {
		console.Info(fmt.Sprintf("%s updated", p.Key))
	}
	return nil
}

// parsePairs splits KEY=VALUE arguments on the first '='.
func parsePairs(args []string) ([]envfile.Pair, error) {
	pairs := make([]envfile.Pair, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q: expected KEY=VALUE", arg)
		}
		pairs = append(pairs, envfile.P(key, value))
	}
	return pairs, nil
}
