// Package preflight checks that the external tools an installation shells
// out to are present and recent enough.
package preflight

import (
	"context"
	"fmt"
	"regexp"

	"github.com/hashicorp/go-version"

	"github.com/vortechstudio/appinstall/process"
)

// Tool is an executable and the version range the installer supports.
type Tool struct {
	Name       string
	Binary     string
	Constraint string
}

// Report is the result of checking one tool.
type Report struct {
	Tool      Tool
	Version   *version.Version
	Satisfied bool
	Err       error
}

// Status is a short human readable verdict.
func (r Report) Status() string {
	switch {
	case r.Err != nil:
		return "missing"
	case !r.Satisfied:
		return "outdated"
	default:
		return "ok"
	}
}

// DefaultTools returns the tools an installation needs, using the given
// binaries.
func DefaultTools(php, composer, npm string) []Tool {
	return []Tool{
		{Name: "php", Binary: php, Constraint: ">= 8.2"},
		{Name: "composer", Binary: composer, Constraint: ">= 2.0"},
		{Name: "npm", Binary: npm, Constraint: ">= 9.0"},
	}
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?`)

// ExtractVersion returns the first version number found in output.
func ExtractVersion(output string) (*version.Version, error) {
	match := versionPattern.FindString(output)
	if match == "" {
		return nil, fmt.Errorf("no version found in %q", output)
	}
	return version.NewVersion(match)
}

// Check runs "<binary> --version" for every tool and compares the result
// against its constraint. It never fails; problems are reported per tool.
func Check(ctx context.Context, runner process.Runner, tools []Tool) []Report {
	reports := make([]Report, 0, len(tools))
	for _, tool := range tools {
		reports = append(reports, checkTool(ctx, runner, tool))
	}
	return reports
}

func checkTool(ctx context.Context, runner process.Runner, tool Tool) Report {
	report := Report{Tool: tool}

	out, err := runner.Run(ctx, process.Cmd(tool.Binary, "--version"), nil)
	if err != nil {
		report.Err = err
		return report
	}

	v, err := ExtractVersion(out.Stdout + out.Stderr)
	if err != nil {
		report.Err = err
		return report
	}
	report.Version = v

	constraints, err := version.NewConstraint(tool.Constraint)
	if err != nil {
		report.Err = fmt.Errorf("invalid constraint %q: %w", tool.Constraint, err)
		return report
	}
	report.Satisfied = constraints.Check(v)

	return report
}
