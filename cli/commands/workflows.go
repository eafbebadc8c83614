package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vortechstudio/appinstall/cli/internal/config"
	"github.com/vortechstudio/appinstall/workflow"
)

var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "Manage the GitHub workflow files",
}

var workflowsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Download the GitHub workflow and issue template files",
	Args:  cobra.NoArgs,
	RunE:  runWorkflowsImport,
}

var (
	workflowsPath     string
	workflowsUpstream bool
)

func init() {
	workflowsImportCmd.Flags().StringVarP(&workflowsPath, "path", "p", "", "Application base path (default from config, else .)")
	workflowsImportCmd.Flags().BoolVar(&workflowsUpstream, "with-upstream-workflows", false, "Also import the upstream Laravel workflows")

	workflowsCmd.AddCommand(workflowsImportCmd)
	rootCmd.AddCommand(workflowsCmd)
}

func runWorkflowsImport(cmd *cobra.Command, args []string) error {
	templates := workflow.DefaultManifest()
	if workflowsUpstream {
		templates = append(templates, workflow.UpstreamManifest()...)
	}

	spinner, err := console.Spinner(fmt.Sprintf("Importing %d files...", len(templates)))
	if err != nil {
		return err
	}

	im := workflow.NewImporter(config.AppFs, resolveBasePath(workflowsPath), httpClient())
	im.OnResult = func(r workflow.Result) {
		if r.OK() {
			spinner.UpdateText(r.Template.Dest)
		}
	}

	results, err := im.Import(cmd.Context(), templates)
	if err != nil {
		spinner.Fail(err.Error())
		return err
	}
	spinner.Success(fmt.Sprintf("Imported %d files", len(results)))
	return nil
}
