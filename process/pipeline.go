package process

import (
	"context"
	"errors"
	"fmt"
)

// ErrStepFailed is wrapped by Result.Err for every failed step.
var ErrStepFailed = errors.New("pipeline step failed")

// Step is one unit of a Pipeline: an external command or an in-process
// routine.
type Step struct {
	Name string

	cmd *Command
	fn  func(ctx context.Context) error
	err error
}

// StepResult records how a step ended.
type StepResult struct {
	Name    string
	Output  Output
	Err     error
	Skipped bool
}

// Result is the ordered outcome of a pipeline run.
type Result struct {
	Steps []StepResult
}

// Successful reports whether every executed step succeeded.
func (r Result) Successful() bool {
	for _, s := range r.Steps {
		if !s.Skipped && s.Err != nil {
			return false
		}
	}
	return true
}

// Failed returns the steps that ran and failed.
func (r Result) Failed() []StepResult {
	var failed []StepResult
	for _, s := range r.Steps {
		if !s.Skipped && s.Err != nil {
			failed = append(failed, s)
		}
	}
	return failed
}

// Err joins the errors of all failed steps, or returns nil.
func (r Result) Err() error {
	var errs []error
	for _, s := range r.Failed() {
		errs = append(errs, fmt.Errorf("%w: %s: %w", ErrStepFailed, s.Name, s.Err))
	}
	return errors.Join(errs...)
}

// Pipeline is an ordered list of heterogeneous steps. By default every step
// runs even after a failure; StopOnFailure skips the remaining steps instead.
type Pipeline struct {
	runner        Runner
	dir           string
	onLine        LineFunc
	stopOnFailure bool
	steps         []Step
}

// NewPipeline creates an empty pipeline executing commands with r.
func NewPipeline(r Runner) *Pipeline {
	return &Pipeline{runner: r}
}

// In sets the working directory for commands that do not set their own.
func (p *Pipeline) In(dir string) *Pipeline {
	p.dir = dir
	return p
}

// OnLine forwards command output to fn.
func (p *Pipeline) OnLine(fn LineFunc) *Pipeline {
	p.onLine = fn
	return p
}

// StopOnFailure makes the pipeline skip the remaining steps after the first
// failure.
func (p *Pipeline) StopOnFailure() *Pipeline {
	p.stopOnFailure = true
	return p
}

// Exec appends an external command.
func (p *Pipeline) Exec(cmd Command) *Pipeline {
	p.steps = append(p.steps, Step{Name: cmd.String(), cmd: &cmd})
	return p
}

// Command parses line and appends it. A line that does not parse becomes a
// step that fails when run.
func (p *Pipeline) Command(line string) *Pipeline {
	cmd, err := ParseCommand(line)
	if err != nil {
		p.steps = append(p.steps, Step{Name: line, err: err})
		return p
	}
	return p.Exec(cmd)
}

// Func appends an in-process routine.
func (p *Pipeline) Func(name string, fn func(ctx context.Context) error) *Pipeline {
	p.steps = append(p.steps, Step{Name: name, fn: fn})
	return p
}

// Len returns the number of steps.
func (p *Pipeline) Len() int {
	return len(p.steps)
}

// Run executes the steps in order.
func (p *Pipeline) Run(ctx context.Context) Result {
	result := Result{Steps: make([]StepResult, 0, len(p.steps))}
	failed := false

	for _, step := range p.steps {
		if failed && p.stopOnFailure {
			result.Steps = append(result.Steps, StepResult{Name: step.Name, Skipped: true})
			continue
		}

		sr := p.runStep(ctx, step)
		if sr.Err != nil {
			failed = true
		}
		result.Steps = append(result.Steps, sr)
	}

	return result
}

func (p *Pipeline) runStep(ctx context.Context, step Step) StepResult {
	sr := StepResult{Name: step.Name}

	if err := ctx.Err(); err != nil {
		sr.Err = err
		return sr
	}

	switch {
	case step.err != nil:
		sr.Err = step.err
	case step.fn != nil:
		sr.Err = step.fn(ctx)
	case step.cmd != nil:
		cmd := *step.cmd
		if cmd.Dir == "" {
			cmd.Dir = p.dir
		}
		sr.Output, sr.Err = p.runner.Run(ctx, cmd, p.onLine)
	}

	return sr
}
