package commands

import (
	"net/http"

	"github.com/vortechstudio/appinstall/cli/internal/prompt"
	"github.com/vortechstudio/appinstall/installer"
)

// resolveBasePath prefers the --path flag over the configured base path.
func resolveBasePath(flag string) string {
	if flag != "" {
		return flag
	}
	if cfg != nil && cfg.BasePath != "" {
		return cfg.BasePath
	}
	return "."
}

func confirmer(noInteraction bool) installer.Confirmer {
	if noInteraction {
		return prompt.Defaults{}
	}
	return prompt.Survey{}
}

func httpClient() *http.Client {
	return &http.Client{Timeout: cfg.HTTPTimeout}
}

func toolchain() installer.Toolchain {
	return installer.Toolchain{
		PHP:      cfg.PHPBinary,
		Composer: cfg.ComposerBinary,
		NPM:      cfg.NPMBinary,
		Git:      cfg.GitBinary,
	}
}
