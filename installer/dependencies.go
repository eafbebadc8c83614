package installer

import (
	"context"
	"fmt"
	"strings"

	"github.com/vortechstudio/appinstall/envfile"
	"github.com/vortechstudio/appinstall/process"
	"github.com/vortechstudio/appinstall/workflow"
)

const gitFlowInit = "git flow init -f -d --feature feature/ --bugfix bugfix/ --release release/ --hotfix hotfix/ --support support/"

func (in *Installer) pipeline() *process.Pipeline {
	return process.NewPipeline(in.runner).In(in.basePath).OnLine(in.logLine)
}

func (in *Installer) composer(args ...string) process.Command {
	return process.Cmd(in.tools.Composer, args...)
}

func (in *Installer) artisan(args ...string) process.Command {
	return process.Cmd(in.tools.PHP, append([]string{"artisan"}, args...)...)
}

func (in *Installer) npm(args ...string) process.Command {
	return process.Cmd(in.tools.NPM, args...)
}

// line returns a pipeline step printing msg.
func (in *Installer) line(msg string) func(context.Context) error {
	return func(context.Context) error {
		in.out.Line(msg)
		return nil
	}
}

func (in *Installer) report(res process.Result, success, failure string) {
	if res.Successful() {
		in.out.Info(success)
		return
	}
	failed := res.Failed()
	names := make([]string, 0, len(failed))
	for _, step := range failed {
		in.log.Warn("step failed", "step", step.Name, "error", step.Err)
		names = append(names, step.Name)
	}
	in.out.Error(fmt.Sprintf("%s (failed: %s)", failure, strings.Join(names, "; ")))
}

func (in *Installer) initGitFlow(ctx context.Context) {
	cmd, err := process.ParseCommand(gitFlowInit)
	if err != nil {
		in.out.Error(err.Error())
		return
	}
	cmd.Name = in.tools.Git
	cmd.Dir = in.basePath

	_, err = in.runner.Run(ctx, cmd, func(stream process.Stream, line string) {
		if stream == process.Stderr {
			in.out.Error(line)
			return
		}
		in.out.Info("Git flow initialized!")
	})
	if err != nil {
		in.log.Warn("git flow init failed", "error", err)
	}
}

// installCore installs the dependencies every deployment needs. Failed
// steps are reported; only a cancelled prompt is returned.
func (in *Installer) installCore(ctx context.Context) error {
	gitFlow, err := in.ask("Do you want to use git flow?", false)
	if err != nil {
		return err
	}
	if gitFlow {
		in.initGitFlow(ctx)
	}

	in.out.Info("Installing mandatory core dependencies")

	res := in.pipeline().
		Func("log viewer banner", in.line("-- LOG VIEWER --")).
		Exec(in.composer("require", "arcanedev/log-viewer")).
		Func("LOG_CHANNEL=daily", func(context.Context) error {
			return envfile.Update(in.fs, in.envPath(), envfile.P("LOG_CHANNEL", "daily"))
		}).
		Exec(in.artisan("log-viewer:publish")).
		Exec(in.artisan("log-viewer:clear")).
		Func("pdf banner", func(ctx context.Context) error {
			in.out.Line("")
			in.out.Line("-- PDF VIEWER/EXPORT --")
			return nil
		}).
		Exec(in.composer("require", "barryvdh/laravel-dompdf")).
		Run(ctx)

	in.report(res, "Mandatory core dependencies installed", "Error while installing mandatory dependencies")
	return nil
}

// installAuth installs the authentication stack when the operator wants it.
func (in *Installer) installAuth(ctx context.Context) error {
	auth, err := in.ask("Do you want to use authentication?", true)
	if err != nil || !auth {
		return err
	}

	res := in.pipeline().
		Exec(in.composer("require", "laravel/fortify")).
		Exec(in.artisan("vendor:publish", `--provider=Laravel\Fortify\FortifyServiceProvider`)).
		Exec(in.composer("require", "rappasoft/laravel-authentication-log")).
		Exec(in.composer("require", "torann/geoip")).
		Exec(in.artisan("vendor:publish",
			`--provider=Rappasoft\LaravelAuthenticationLog\LaravelAuthenticationLogServiceProvider`,
			"--tag=authentication-log-migrations")).
		Exec(in.artisan("vendor:publish", `--provider=Torann\GeoIP\GeoIPServiceProvider`, "--tag=config")).
		Run(ctx)

	if res.Successful() {
		in.out.Alert("Laravel Fortify installed, don't forget to add the 'AuthenticationLoggable' interface to the 'User' model")
	} else {
		in.report(res, "", "Error while installing Laravel Fortify")
		in.out.Warning("Don't forget to add the 'AuthenticationLoggable' interface to the 'User' model")
	}
	in.notes = append(in.notes, "Add the `AuthenticationLoggable` interface to the `App\\Models\\User` model.")
	return nil
}

// installFront installs Livewire, builds the assets when that worked, and
// then installs the alert package whatever the build did.
func (in *Installer) installFront(ctx context.Context) {
	in.out.Info("Installing Livewire")

	res := in.pipeline().
		Exec(in.composer("require", "livewire/livewire")).
		Exec(in.artisan("livewire:publish", "--config")).
		Run(ctx)

	if res.Successful() {
		for _, cmd := range []process.Command{in.npm("install"), in.npm("run", "build")} {
			cmd.Dir = in.basePath
			if _, err := in.runner.Run(ctx, cmd, in.logLine); err != nil {
				in.log.Warn("front-end build step failed", "command", cmd.String(), "error", err)
			}
		}
	} else {
		in.report(res, "", "Error while installing Livewire")
	}

	alert := in.pipeline().Exec(in.composer("require", "jantinnerezo/livewire-alert")).Run(ctx)
	if !alert.Successful() {
		in.log.Warn("livewire-alert install failed", "error", alert.Err())
	}
}

func (in *Installer) importWorkflows(ctx context.Context) error {
	in.out.Info("Importing GitHub workflows")

	templates := workflow.DefaultManifest()
	if in.upstream {
		templates = append(templates, workflow.UpstreamManifest()...)
	}

	in.workflows.OnResult = func(r workflow.Result) {
		if r.OK() {
			in.log.Debug("workflow imported", "dest", r.Template.Dest, "bytes", len(r.Body))
		}
	}

	if _, err := in.workflows.Import(ctx, templates); err != nil {
		return fmt.Errorf("workflow import: %w", err)
	}
	return nil
}
