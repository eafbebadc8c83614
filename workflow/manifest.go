// Package workflow downloads CI/CD workflow templates into a project.
package workflow

import "strings"

// Template is one remote file and the path it is written to, relative to
// the project base path.
type Template struct {
	URL  string
	Dest string
}

// Source is a remote directory of template files.
type Source struct {
	BaseURL string
	// Files maps remote paths (relative to BaseURL) to local destinations.
	Files []File
}

// File is a remote path and its local destination.
type File struct {
	Path string
	Dest string
}

// Templates expands the source into fetchable templates.
func (s Source) Templates() []Template {
	base := strings.TrimSuffix(s.BaseURL, "/")
	templates := make([]Template, 0, len(s.Files))
	for _, f := range s.Files {
		templates = append(templates, Template{
			URL:  base + "/" + strings.TrimPrefix(f.Path, "/"),
			Dest: f.Dest,
		})
	}
	return templates
}

var (
	// ManagerSource holds the pull-request and deployment workflows.
	ManagerSource = Source{
		BaseURL: "https://raw.githubusercontent.com/vortechstudio/manager/master",
		Files: []File{
			{Path: ".github/workflows/pr_agent.yml", Dest: ".github/workflows/pr_agent.yml"},
			{Path: ".github/workflows/pr_update.yml", Dest: ".github/workflows/pr_update.yml"},
			{Path: ".github/workflows/deploy_staging.yml", Dest: ".github/workflows/deploy_staging.yml"},
			{Path: ".github/workflows/deploy_production.yml", Dest: ".github/workflows/deploy_production.yml"},
		},
	}

	// APISource holds the dependabot and issue template configuration.
	APISource = Source{
		BaseURL: "https://raw.githubusercontent.com/vortechstudio/api/master",
		Files: []File{
			{Path: ".github/dependabot.yml", Dest: ".github/dependabot.yml"},
			{Path: ".github/ISSUE_TEMPLATE/bug.yml", Dest: ".github/ISSUE_TEMPLATE/bug.yml"},
			{Path: ".github/ISSUE_TEMPLATE/config.yml", Dest: ".github/ISSUE_TEMPLATE/config.yml"},
		},
	}

	// UpstreamSource holds the framework skeleton's own workflows.
	UpstreamSource = Source{
		BaseURL: "https://raw.githubusercontent.com/laravel/laravel/11.x",
		Files: []File{
			{Path: ".github/workflows/issues.yml", Dest: ".github/workflows/issue.yml"},
			{Path: ".github/workflows/pull-requests.yml", Dest: ".github/workflows/pull-requests.yml"},
			{Path: ".github/workflows/tests.yml", Dest: ".github/workflows/tests.yml"},
		},
	}
)

// DefaultManifest returns the templates every installation imports.
func DefaultManifest() []Template {
	return append(ManagerSource.Templates(), APISource.Templates()...)
}

// UpstreamManifest returns the optional framework skeleton templates.
func UpstreamManifest() []Template {
	return UpstreamSource.Templates()
}
