package process

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records commands and fails those listed in fail.
type fakeRunner struct {
	ran  []Command
	fail map[string]bool
}

func (f *fakeRunner) Run(ctx context.Context, cmd Command, onLine LineFunc) (Output, error) {
	f.ran = append(f.ran, cmd)
	if onLine != nil {
		onLine(Stdout, "ran "+cmd.Name)
	}
	if f.fail[cmd.String()] {
		return Output{ExitCode: 1}, errors.New("exit status 1")
	}
	return Output{}, nil
}

func (f *fakeRunner) lines() []string {
	var out []string
	for _, c := range f.ran {
		out = append(out, c.String())
	}
	return out
}

func TestPipelineRunsAllStepsInOrder(t *testing.T) {
	r := &fakeRunner{}
	var order []string

	res := NewPipeline(r).
		In("/app").
		Command("composer require a/b").
		Func("env", func(ctx context.Context) error {
			order = append(order, "env")
			return nil
		}).
		Exec(Cmd("php", "artisan", "x:y")).
		Run(context.Background())

	assert.True(t, res.Successful())
	require.NoError(t, res.Err())
	assert.Equal(t, []string{"composer require a/b", "php artisan x:y"}, r.lines())
	assert.Equal(t, []string{"env"}, order)
	for _, c := range r.ran {
		assert.Equal(t, "/app", c.Dir)
	}
	assert.Len(t, res.Steps, 3)
}

func TestPipelineContinuesAfterFailureByDefault(t *testing.T) {
	r := &fakeRunner{fail: map[string]bool{"composer require a/b": true}}

	res := NewPipeline(r).
		Command("composer require a/b").
		Command("composer require c/d").
		Run(context.Background())

	assert.False(t, res.Successful())
	assert.Equal(t, []string{"composer require a/b", "composer require c/d"}, r.lines())
	require.Len(t, res.Failed(), 1)
	assert.Equal(t, "composer require a/b", res.Failed()[0].Name)
	assert.ErrorIs(t, res.Err(), ErrStepFailed)
}

func TestPipelineStopOnFailure(t *testing.T) {
	r := &fakeRunner{fail: map[string]bool{"a": true}}
	called := false

	res := NewPipeline(r).
		StopOnFailure().
		Command("a").
		Func("after", func(ctx context.Context) error {
			called = true
			return nil
		}).
		Command("b").
		Run(context.Background())

	assert.False(t, res.Successful())
	assert.False(t, called)
	assert.Equal(t, []string{"a"}, r.lines())
	assert.True(t, res.Steps[1].Skipped)
	assert.True(t, res.Steps[2].Skipped)
}

func TestPipelineFuncFailureCounts(t *testing.T) {
	res := NewPipeline(&fakeRunner{}).
		Func("boom", func(ctx context.Context) error { return errors.New("boom") }).
		Run(context.Background())

	assert.False(t, res.Successful())
}

func TestPipelineInvalidCommandFails(t *testing.T) {
	r := &fakeRunner{}

	res := NewPipeline(r).Command(`echo "unterminated`).Run(context.Background())

	assert.False(t, res.Successful())
	assert.Empty(t, r.ran)
}

func TestPipelineCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &fakeRunner{}

	res := NewPipeline(r).Command("a").Run(ctx)

	assert.False(t, res.Successful())
	assert.ErrorIs(t, res.Steps[0].Err, context.Canceled)
	assert.Empty(t, r.ran)
}

func TestPipelineForwardsLines(t *testing.T) {
	var got []string
	NewPipeline(&fakeRunner{}).
		OnLine(func(s Stream, line string) { got = append(got, s.String()+":"+line) }).
		Command("npm install").
		Run(context.Background())

	assert.Equal(t, []string{"stdout:ran npm"}, got)
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand(`git flow init -f -d --feature feature/ --support "support/"`)
	require.NoError(t, err)
	assert.Equal(t, "git", cmd.Name)
	assert.Equal(t, []string{"flow", "init", "-f", "-d", "--feature", "feature/", "--support", "support/"}, cmd.Args)

	_, err = ParseCommand("   ")
	assert.Error(t, err)
}

func TestCommandStringQuotes(t *testing.T) {
	cmd := Cmd("php", "artisan", "vendor:publish", `--provider=Laravel\Fortify\FortifyServiceProvider`)
	parsed, err := ParseCommand(cmd.String())
	require.NoError(t, err)
	assert.Equal(t, cmd, parsed)
}
