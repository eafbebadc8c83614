// Package installer drives the one-shot bootstrap of an application
// deployment: environment file, database, dependencies and CI workflows.
package installer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/vortechstudio/appinstall/database"
	"github.com/vortechstudio/appinstall/envfile"
	"github.com/vortechstudio/appinstall/internal/debug"
	"github.com/vortechstudio/appinstall/migrate"
	"github.com/vortechstudio/appinstall/process"
	"github.com/vortechstudio/appinstall/workflow"
)

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(prompt string, def bool) (bool, error)
}

// Output receives everything the installer shows to the operator.
type Output interface {
	Alert(msg string)
	Info(msg string)
	Warning(msg string)
	Error(msg string)
	Line(msg string)
	Process(stream process.Stream, line string)
	Table(headers []string, rows [][]string)
	Markdown(content string)
}

// Toolchain names the executables the installer shells out to.
type Toolchain struct {
	PHP      string
	Composer string
	NPM      string
	Git      string
}

// DefaultToolchain resolves every tool from PATH.
func DefaultToolchain() Toolchain {
	return Toolchain{PHP: "php", Composer: "composer", NPM: "npm", Git: "git"}
}

// Config wires an Installer.
type Config struct {
	BasePath   string
	Fs         afero.Fs
	Confirmer  Confirmer
	Output     Output
	Runner     process.Runner
	HTTPClient *http.Client
	Toolchain  Toolchain

	// Registry defaults to the stock connections with "mysql" as default.
	Registry *database.Registry
	// Migrator defaults to artisan migrate:fresh and db:seed.
	Migrator migrate.Migrator

	UpstreamWorkflows bool
	SkipPreflight     bool
}

// Installer runs the installation procedure. It is not safe for concurrent
// use; one Installer serves one run.
type Installer struct {
	basePath  string
	fs        afero.Fs
	confirm   Confirmer
	out       Output
	runner    process.Runner
	tools     Toolchain
	registry  *database.Registry
	conns     *database.Manager
	migrator  migrate.Migrator
	workflows *workflow.Importer
	log       *slog.Logger

	upstream      bool
	skipPreflight bool
	notes         []string
}

// New creates an Installer from cfg.
func New(cfg Config) *Installer {
	if cfg.BasePath == "" {
		cfg.BasePath = "."
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Runner == nil {
		cfg.Runner = process.ExecRunner{}
	}
	if cfg.Toolchain == (Toolchain{}) {
		cfg.Toolchain = DefaultToolchain()
	}
	if cfg.Registry == nil {
		cfg.Registry = database.NewRegistry(database.DefaultConnection)
	}

	in := &Installer{
		basePath:      cfg.BasePath,
		fs:            cfg.Fs,
		confirm:       cfg.Confirmer,
		out:           cfg.Output,
		runner:        cfg.Runner,
		tools:         cfg.Toolchain,
		registry:      cfg.Registry,
		conns:         database.NewManager(cfg.Registry),
		migrator:      cfg.Migrator,
		workflows:     workflow.NewImporter(cfg.Fs, cfg.BasePath, cfg.HTTPClient),
		log:           debug.Component("installer"),
		upstream:      cfg.UpstreamWorkflows,
		skipPreflight: cfg.SkipPreflight,
	}

	if in.migrator == nil {
		in.migrator = &migrate.Artisan{
			Runner: cfg.Runner,
			PHP:    cfg.Toolchain.PHP,
			Dir:    cfg.BasePath,
		}
	}

	return in
}

// Close releases the database handles opened during the run.
func (in *Installer) Close() error {
	return in.conns.Close()
}

func (in *Installer) envPath() string {
	return filepath.Join(in.basePath, envfile.ActiveFile)
}

// Run executes the installation. A clean early stop is reported through the
// Outcome with a nil error; an error means the run was aborted, either by a
// failed workflow import or by the operator cancelling a prompt.
func (in *Installer) Run(ctx context.Context, opts Options) (Outcome, error) {
	if err := opts.Validate(); err != nil {
		in.out.Error("Missing required options")
		in.out.Line("please run")
		in.out.Line("appinstall install --help")
		in.out.Line("to see the command usage.")
		return OutcomeMissingOptions, nil
	}

	in.out.Alert("Application is installing...")

	copied, err := envfile.Bootstrap(in.fs, in.basePath, opts.Env)
	if err != nil {
		return OutcomeAborted, err
	}
	in.log.Debug("environment bootstrap", "tier", opts.Env, "template", envfile.TemplateFor(opts.Env), "copied", copied)

	in.generateKey(ctx)

	if !in.skipPreflight {
		in.preflight(ctx)
	}

	if err := in.updateEnvFromOptions(opts); err != nil {
		return OutcomeAborted, err
	}
	in.out.Info("Env file created successfully.")

	in.out.Info("Running migrations and seeders...")
	if ok, err := in.runMigrations(ctx); err != nil {
		return OutcomeAborted, err
	} else if !ok {
		return OutcomeMigrationFailed, nil
	}

	if err := in.installCore(ctx); err != nil {
		return OutcomeAborted, err
	}
	if err := in.installAuth(ctx); err != nil {
		return OutcomeAborted, err
	}

	if ok, err := in.runMigrations(ctx); err != nil {
		return OutcomeAborted, err
	} else if !ok {
		return OutcomeMigrationFailed, nil
	}

	front, err := in.ask("Visual system?", true)
	if err != nil {
		return OutcomeAborted, err
	}
	if front {
		in.installFront(ctx)
	}

	if err := in.importWorkflows(ctx); err != nil {
		return OutcomeAborted, err
	}

	if summary := in.summary(); summary != "" {
		in.out.Markdown(summary)
	}
	in.out.Alert("Application is installed successfully.")
	return OutcomeInstalled, nil
}

func (in *Installer) runMigrations(ctx context.Context) (bool, error) {
	ok, err := migrate.NewRunner(in.confirm, in.migrator).Run(ctx)
	if err != nil || ok {
		return ok, err
	}

	in.out.Error("Your database credentials are wrong!")
	if debug.Enabled() {
		err := in.conns.Ping(ctx, in.registry.Default)
		in.log.Debug("connection check after failed migration", "connection", in.registry.Default, "error", err)
	}
	return false, nil
}

// ask returns the operator's answer. A failed prompt counts as "no", except
// a cancelled one, which is returned as an error.
func (in *Installer) ask(prompt string, def bool) (bool, error) {
	ok, err := in.confirm.Confirm(prompt, def)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return false, fmt.Errorf("%s: %w", prompt, err)
		}
		in.log.Warn("confirmation failed", "prompt", prompt, "error", err)
		return false, nil
	}
	return ok, nil
}

func (in *Installer) summary() string {
	if len(in.notes) == 0 {
		return ""
	}
	s := "## Next steps\n\n"
	for _, n := range in.notes {
		s += fmt.Sprintf("- %s\n", n)
	}
	return s
}
