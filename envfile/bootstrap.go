package envfile

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// File names relative to the project base path.
const (
	ActiveFile         = ".env"
	LocalTemplate      = ".env.example"
	StagingTemplate    = ".env.staging"
	ProductionTemplate = ".env.production"
)

// TemplateFor returns the template file name for a deployment tier.
// Unknown tiers, including the empty string, are treated as production.
func TemplateFor(tier string) string {
	switch tier {
	case "local":
		return LocalTemplate
	case "staging", "testing":
		return StagingTemplate
	default:
		return ProductionTemplate
	}
}

// Bootstrap copies the tier's template to the active env file. Nothing
// happens when the active file already exists or the template is missing.
func Bootstrap(fsys afero.Fs, basePath, tier string) (bool, error) {
	active := filepath.Join(basePath, ActiveFile)
	template := filepath.Join(basePath, TemplateFor(tier))

	exists, err := afero.Exists(fsys, active)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", active, err)
	}
	if exists {
		return false, nil
	}

	info, err := fsys.Stat(template)
	if err != nil || info.IsDir() {
		return false, nil
	}

	data, err := afero.ReadFile(fsys, template)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", template, err)
	}
	if err := afero.WriteFile(fsys, active, data, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", active, err)
	}

	return true, nil
}
