// Package process runs external commands and in-process steps as ordered
// pipelines.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/kballard/go-shellquote"
)

// Stream identifies the output stream a line was read from.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// LineFunc receives process output one line at a time.
type LineFunc func(stream Stream, line string)

// Command is an external program invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env is appended to the parent environment.
	Env []string
}

// Cmd builds a Command.
func Cmd(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// ParseCommand splits a shell-style command line into a Command.
func ParseCommand(line string) (Command, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return Command{}, fmt.Errorf("invalid command %q: %w", line, err)
	}
	if len(words) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	return Command{Name: words[0], Args: words[1:]}, nil
}

// String renders the command as a shell-quoted line.
func (c Command) String() string {
	return shellquote.Join(append([]string{c.Name}, c.Args...)...)
}

// Output is what a finished command produced.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes a single external command, blocking until it exits.
type Runner interface {
	Run(ctx context.Context, cmd Command, onLine LineFunc) (Output, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run starts cmd and waits for it. A non-zero exit status is returned as an
// error wrapping *exec.ExitError.
func (ExecRunner) Run(ctx context.Context, cmd Command, onLine LineFunc) (Output, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var mu sync.Mutex
	stdout := &lineWriter{stream: Stdout, onLine: onLine, mu: &mu}
	stderr := &lineWriter{stream: Stderr, onLine: onLine, mu: &mu}
	c.Stdout = stdout
	c.Stderr = stderr

	err := c.Run()
	stdout.flush()
	stderr.flush()

	out := Output{
		Stdout:   stdout.all.String(),
		Stderr:   stderr.all.String(),
		ExitCode: c.ProcessState.ExitCode(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			out.ExitCode = -1
		}
		return out, fmt.Errorf("%s: %w", cmd, err)
	}
	return out, nil
}

// lineWriter splits written bytes into lines for a LineFunc while keeping
// the full text. mu is shared between the stdout and stderr writers so the
// callback never runs concurrently.
type lineWriter struct {
	stream  Stream
	onLine  LineFunc
	mu      *sync.Mutex
	pending []byte
	all     bytes.Buffer
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.all.Write(p)
	w.pending = append(w.pending, p...)
	for {
		i := bytes.IndexByte(w.pending, '\n')
		if i < 0 {
			break
		}
		w.emit(string(bytes.TrimSuffix(w.pending[:i], []byte("\r"))))
		w.pending = w.pending[i+1:]
	}
	return len(p), nil
}

func (w *lineWriter) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.pending) > 0 {
		w.emit(string(w.pending))
		w.pending = nil
	}
}

func (w *lineWriter) emit(line string) {
	if w.onLine != nil {
		w.onLine(w.stream, line)
	}
}
