package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vortechstudio/appinstall/cli/internal/config"
	"github.com/vortechstudio/appinstall/database"
	"github.com/vortechstudio/appinstall/installer"
	"github.com/vortechstudio/appinstall/internal/debug"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the application",
	Long: `Install the application in the current directory (or --path).

This command will:
- Copy the env template for the chosen tier and generate the app key
- Write the database and GitHub settings to .env
- Optionally run migrate:fresh and the seeders
- Install the core, authentication and front-end packages
- Import the GitHub workflow files`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

var (
	installOpts          = installer.DefaultOptions()
	installPath          string
	installNoInteraction bool
	installUpstream      bool
)

func init() {
	f := installCmd.Flags()
	f.StringVar(&installOpts.DBHost, "db-host", installOpts.DBHost, "Database host")
	f.StringVar(&installOpts.DBPort, "db-port", installOpts.DBPort, "Database port")
	f.StringVar(&installOpts.DBDatabase, "db-database", "", "Database name (required)")
	f.StringVar(&installOpts.DBUsername, "db-username", installOpts.DBUsername, "Database username")
	f.StringVar(&installOpts.DBPassword, "db-password", "", "Database password")
	f.StringVar(&installOpts.GithubRepository, "github-repository", "", "GitHub repository (owner/name)")
	f.StringVar(&installOpts.GithubToken, "github-token", "", "GitHub token")
	f.StringVar(&installOpts.Env, "env", installOpts.Env, "Deployment tier: local, staging, testing or production")
	f.StringVarP(&installPath, "path", "p", "", "Application base path (default from config, else .)")
	f.BoolVarP(&installNoInteraction, "no-interaction", "n", false, "Answer every question with its default")
	f.BoolVar(&installUpstream, "with-upstream-workflows", false, "Also import the upstream Laravel workflows")

	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	basePath := resolveBasePath(installPath)

	dbConnection := cfg.DBConnection
	if installPath != "" {
		dbConnection = config.ProjectConnection(basePath)
	}

	console.Header("appinstall", basePath)

	inst := installer.New(installer.Config{
		BasePath:          basePath,
		Fs:                config.AppFs,
		Confirmer:         confirmer(installNoInteraction),
		Output:            console,
		HTTPClient:        httpClient(),
		Toolchain:         toolchain(),
		Registry:          database.NewRegistry(dbConnection),
		UpstreamWorkflows: installUpstream,
	})
	defer inst.Close()

	outcome, err := inst.Run(cmd.Context(), installOpts)
	if err != nil {
		return fmt.Errorf("installation aborted: %w", err)
	}
	debug.Debug("install finished", "outcome", outcome.String(), "status", outcome.Status())
	return nil
}
