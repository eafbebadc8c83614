// Package migrate runs the confirmed reset-and-seed cycle against the
// application database.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vortechstudio/appinstall/internal/debug"
	"github.com/vortechstudio/appinstall/process"
)

// Question is asked before anything destructive runs.
const Question = "Do you want to run the migrations?"

// Migrator resets the schema and seeds it.
type Migrator interface {
	Fresh(ctx context.Context) error
	Seed(ctx context.Context) error
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(prompt string, def bool) (bool, error)
}

// Runner asks for confirmation and then runs Fresh followed by Seed.
type Runner struct {
	confirm  Confirmer
	migrator Migrator
	log      *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(c Confirmer, m Migrator) *Runner {
	return &Runner{
		confirm:  c,
		migrator: m,
		log:      debug.Component("migrate"),
	}
}

// Run reports whether the database ended up in the expected state.
// Declining the confirmation is a success; a failed confirmation prompt,
// reset or seed is a failure. The error is only set when the prompt was
// cancelled, in which case nothing ran.
func (r *Runner) Run(ctx context.Context) (bool, error) {
	ok, err := r.confirm.Confirm(Question, false)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return false, fmt.Errorf("migration confirmation: %w", err)
		}
		r.log.Warn("migration confirmation failed", "error", err)
		return false, nil
	}
	if !ok {
		r.log.Debug("migrations declined")
		return true, nil
	}

	if err := r.migrator.Fresh(ctx); err != nil {
		r.log.Warn("migrate:fresh failed", "error", err)
		return false, nil
	}
	if err := r.migrator.Seed(ctx); err != nil {
		r.log.Warn("db:seed failed", "error", err)
		return false, nil
	}
	return true, nil
}

// Artisan runs migrations through the application's artisan console.
type Artisan struct {
	Runner process.Runner
	PHP    string
	Dir    string
}

// Fresh drops every table and re-runs all migrations. The exit status of
// artisan is the only signal; nothing is checked beforehand.
func (a *Artisan) Fresh(ctx context.Context) error {
	return a.artisan(ctx, "migrate:fresh", "--force")
}

// Seed runs the database seeders.
func (a *Artisan) Seed(ctx context.Context) error {
	return a.artisan(ctx, "db:seed", "--force")
}

func (a *Artisan) artisan(ctx context.Context, args ...string) error {
	php := a.PHP
	if php == "" {
		php = "php"
	}
	cmd := process.Command{
		Name: php,
		Args: append([]string{"artisan"}, args...),
		Dir:  a.Dir,
	}

	log := debug.Component("migrate")
	_, err := a.Runner.Run(ctx, cmd, func(s process.Stream, line string) {
		log.Debug(line, "stream", s.String(), "command", args[0])
	})
	return err
}
