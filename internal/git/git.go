// Package git provides Git operations via exec for the devrig CLI.
package git

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gorewood/devrig/internal/output"
)

// run invokes git in dir (the current directory when empty) and returns its
// trimmed stdout. Failures are system errors carrying git's stderr.
func run(dir string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(context.Background(), "git", args...)
	cmd.Dir = dir
	cmd.Stdout, cmd.Stderr = &stdout, &stderr

	switch err := cmd.Run(); {
	case errors.Is(err, exec.ErrNotFound):
		return "", output.NewSystemError("git not found: ensure git is installed and in PATH")
	case err != nil:
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return "", output.NewSystemErrorWithCause("git "+args[0]+": "+detail, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// IsRepo reports whether dir is inside a git work tree or git dir.
func IsRepo(dir string) bool {
	_, err := run(dir, "rev-parse", "--git-dir")
	return err == nil
}

// RepoRoot returns the top-level directory of the repository containing dir.
func RepoRoot(dir string) (string, error) {
	root, err := run(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", output.NewSystemErrorWithCause("not in a git repository", err)
	}
	return root, nil
}

// CurrentBranch returns the name of the current branch.
// Returns "HEAD" when detached.
func CurrentBranch(dir string) (string, error) {
	branch, err := run(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to get current branch", err)
	}
	return branch, nil
}

// HasUncommittedChanges reports whether git status lists anything. Git
// failures count as a clean tree.
func HasUncommittedChanges(dir string) bool {
	out, err := run(dir, "status", "--porcelain")
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) != ""
}

// HooksDir returns the absolute path git runs hooks from, honoring core.hooksPath.
func HooksDir(dir string) (string, error) {
	hooks, err := run(dir, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to locate hooks directory", err)
	}
	if !filepath.IsAbs(hooks) {
		base := dir
		if base == "" {
			base = "."
		}
		hooks = filepath.Join(base, hooks)
	}
	abs, err := filepath.Abs(hooks)
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to resolve hooks directory", err)
	}
	return abs, nil
}

// ProjectRoot resolves the directory devrig operates on. An explicit dir wins;
// otherwise the enclosing repository root is used, falling back to the
// current directory outside a repository. The result is absolute.
func ProjectRoot(dir string) (string, error) {
	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", output.NewUserError("invalid directory: " + err.Error())
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			return "", output.NewUserError("not a directory: " + dir)
		}
		return abs, nil
	}

	if root, err := RepoRoot(""); err == nil {
		return root, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to get working directory", err)
	}
	return wd, nil
}
