// Package runner executes toolchain commands as external processes.
//
// Commands are run directly (no shell) in the project directory. Failures are
// translated into *output.ExitError values carrying ExitSystemError so the CLI
// can surface them with the right exit code:
//
//	r := runner.New(root, cmd.OutOrStdout(), cmd.ErrOrStderr())
//	err := r.Run(ctx, tc.Install())
//	version, err := r.Output(ctx, toolchain.NewCommand("pnpm", "--version"))
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/gorewood/devrig/internal/logging"
	"github.com/gorewood/devrig/internal/output"
	"github.com/gorewood/devrig/internal/toolchain"
)

// Runner executes commands in a working directory.
type Runner struct {
	// Dir is the working directory. Empty means the current directory.
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
	// DryRun prints commands to Stdout instead of executing them.
	DryRun bool
	// LookPath resolves executables. Defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// New returns a Runner that streams output to stdout and stderr.
func New(dir string, stdout, stderr io.Writer) *Runner {
	return &Runner{Dir: dir, Stdout: stdout, Stderr: stderr}
}

// Run executes cmd, streaming its output. In dry-run mode it only prints the command.
func (r *Runner) Run(ctx context.Context, cmd toolchain.Command) error {
	if r.DryRun {
		_, err := fmt.Fprintf(r.stdout(), "$ %s\n", cmd)
		return err
	}

	stderr := &tailBuffer{max: stderrTail}
	proc, err := r.command(ctx, cmd)
	if err != nil {
		return err
	}
	proc.Stdout = r.stdout()
	proc.Stderr = io.MultiWriter(r.stderr(), stderr)

	logging.Debug("running command", "cmd", cmd.String(), "dir", r.Dir)
	return translate(cmd, proc.Run(), stderr.String())
}

// Output executes cmd and returns its trimmed stdout. It runs even in dry-run
// mode because callers use it for read-only queries.
func (r *Runner) Output(ctx context.Context, cmd toolchain.Command) (string, error) {
	var stdout bytes.Buffer
	stderr := &tailBuffer{max: stderrTail}
	proc, err := r.command(ctx, cmd)
	if err != nil {
		return "", err
	}
	proc.Stdout = &stdout
	proc.Stderr = stderr

	logging.Debug("capturing command", "cmd", cmd.String(), "dir", r.Dir)
	if err := translate(cmd, proc.Run(), stderr.String()); err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Available reports whether an executable called name is on PATH.
func (r *Runner) Available(name string) bool {
	_, err := r.lookPath(name)
	return err == nil
}

// command resolves the executable and prepares an exec.Cmd.
func (r *Runner) command(ctx context.Context, cmd toolchain.Command) (*exec.Cmd, error) {
	if cmd.IsZero() {
		return nil, output.NewUserError("empty command")
	}
	path, err := r.lookPath(cmd.Name)
	if err != nil {
		return nil, output.NewSystemErrorWithCause(
			fmt.Sprintf("%s not found: ensure it is installed and in PATH", cmd.Name), err)
	}

	// #nosec G204 -- argv comes from the toolchain, not a shell string
	proc := exec.CommandContext(ctx, path, cmd.Args...)
	proc.Dir = r.Dir
	return proc, nil
}

// translate converts a process error into an *output.ExitError.
func translate(cmd toolchain.Command, err error, stderr string) error {
	if err == nil {
		return nil
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return output.NewSystemErrorWithCause(
			fmt.Sprintf("%s not found: ensure it is installed and in PATH", cmd.Name), err)
	}

	msg := strings.TrimSpace(stderr)
	if msg == "" {
		msg = err.Error()
	}
	return output.NewSystemErrorWithCause(fmt.Sprintf("%s failed: %s", cmd.String(), msg), err)
}

// stderrTail caps how much child stderr a failure message carries.
const stderrTail = 4 << 10

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max       int
	buf       []byte
	truncated bool
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
		t.truncated = true
	}
	return len(p), nil
}

// String returns the kept bytes. After truncation the partial first line is
// dropped and replaced by "...".
func (t *tailBuffer) String() string {
	s := string(t.buf)
	if !t.truncated {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 && i < len(s)-1 {
		s = s[i+1:]
	}
	return "...\n" + s
}

func (r *Runner) lookPath(name string) (string, error) {
	if r.LookPath != nil {
		return r.LookPath(name)
	}
	return exec.LookPath(name)
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout == nil {
		return io.Discard
	}
	return r.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr == nil {
		return io.Discard
	}
	return r.Stderr
}
