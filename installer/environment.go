package installer

import (
	"context"
	"fmt"

	"github.com/vortechstudio/appinstall/database"
	"github.com/vortechstudio/appinstall/envfile"
	"github.com/vortechstudio/appinstall/preflight"
	"github.com/vortechstudio/appinstall/process"
)

// generateKey asks artisan to write a fresh APP_KEY. The result is only
// logged.
func (in *Installer) generateKey(ctx context.Context) {
	cmd := process.Command{Name: in.tools.PHP, Args: []string{"artisan", "key:generate"}, Dir: in.basePath}
	if _, err := in.runner.Run(ctx, cmd, in.logLine); err != nil {
		in.log.Debug("key:generate failed", "error", err)
	}
}

func (in *Installer) preflight(ctx context.Context) {
	reports := preflight.Check(ctx, in.runner, preflight.DefaultTools(in.tools.PHP, in.tools.Composer, in.tools.NPM))

	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		found := "-"
		if r.Version != nil {
			found = r.Version.String()
		}
		rows = append(rows, []string{r.Tool.Name, found, r.Tool.Constraint, r.Status()})

		switch {
		case r.Err != nil:
			in.out.Warning(fmt.Sprintf("%s not found: some steps will fail", r.Tool.Name))
		case !r.Satisfied:
			in.out.Warning(fmt.Sprintf("%s %s does not satisfy %s", r.Tool.Name, found, r.Tool.Constraint))
		}
	}
	in.out.Table([]string{"Tool", "Version", "Required", "Status"}, rows)
}

// updateEnvFromOptions writes the options to the env file and points the
// default database connection at them, replacing its handle.
func (in *Installer) updateEnvFromOptions(opts Options) error {
	err := envfile.Update(in.fs, in.envPath(),
		envfile.P("DB_HOST", opts.DBHost),
		envfile.P("DB_PORT", opts.DBPort),
		envfile.P("DB_DATABASE", opts.DBDatabase),
		envfile.P("DB_USERNAME", opts.DBUsername),
		envfile.P("DB_PASSWORD", opts.DBPassword),
		envfile.P("GITHUB_REPOSITORY", opts.GithubRepository),
		envfile.P("GITHUB_TOKEN", opts.GithubToken),
	)
	if err != nil {
		return fmt.Errorf("failed to update env file: %w", err)
	}

	name := in.connectionName()
	in.registry.Default = name

	conn := in.registry.Connection(name)
	conn.Host = opts.DBHost
	conn.Port = opts.DBPort
	conn.Database = opts.DBDatabase
	conn.Username = opts.DBUsername
	conn.Password = opts.DBPassword

	if err := in.conns.Purge(name); err != nil {
		in.log.Warn("purge failed", "connection", name, "error", err)
	}
	if _, err := in.conns.Reconnect(name); err != nil {
		in.log.Warn("reconnect failed", "connection", name, "error", err)
	}
	return nil
}

// connectionName is DB_CONNECTION from the env file, falling back to the
// registry default.
func (in *Installer) connectionName() string {
	values, err := envfile.Read(in.fs, in.envPath())
	if err == nil && values["DB_CONNECTION"] != "" {
		return values["DB_CONNECTION"]
	}
	if in.registry.Default != "" {
		return in.registry.Default
	}
	return database.DefaultConnection
}

func (in *Installer) logLine(stream process.Stream, line string) {
	in.log.Debug(line, "stream", stream.String())
	in.out.Process(stream, line)
}
