//go:build integration

// Package integration provides integration tests for the devrig CLI.
// These tests build the binary, create real git repositories, and run
// workflows against fake package manager binaries.
//
// Run with: go test -tags=integration ./internal/integration/...
package integration

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// testRepo is a helper for creating and managing test project repositories.
type testRepo struct {
	t      *testing.T
	dir    string
	binary string
	bin    string // directory of fake tools prepended to PATH
	config string // DEVRIG_CONFIG_HOME
}

// newTestRepo builds the devrig binary and initializes a git repo.
func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	work := t.TempDir()
	binary := filepath.Join(work, "devrig")
	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/devrig")
	buildCmd.Dir = findProjectRoot(t)
	buildCmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build devrig: %v\n%s", err, output)
	}

	repo := &testRepo{
		t:      t,
		dir:    filepath.Join(work, "project"),
		binary: binary,
		bin:    filepath.Join(work, "bin"),
		config: filepath.Join(work, "config"),
	}
	for _, dir := range []string{repo.dir, repo.bin, repo.config} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	repo.git("init", "--initial-branch=main")
	repo.git("config", "user.email", "test@example.com")
	repo.git("config", "user.name", "Test User")

	return repo
}

// findProjectRoot locates the module root by finding go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// git runs a git command in the test repo.
func (r *testRepo) git(args ...string) string {
	r.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = r.dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %v failed: %v\n%s", args, err, output)
	}
	return strings.TrimSpace(string(output))
}

// createFile creates a file in the repo with the given content.
func (r *testRepo) createFile(name, content string) {
	r.t.Helper()

	path := filepath.Join(r.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatalf("failed to write file %s: %v", name, err)
	}
}

// fakeTool installs a shell script called name ahead of the real PATH.
func (r *testRepo) fakeTool(name, script string) {
	r.t.Helper()

	path := filepath.Join(r.bin, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		r.t.Fatalf("failed to write fake %s: %v", name, err)
	}
}

// devrig runs the devrig binary with the given args.
// Returns stdout, stderr, and the exit code.
func (r *testRepo) devrig(args ...string) (string, string, int) {
	r.t.Helper()

	cmd := exec.Command(r.binary, args...)
	cmd.Dir = r.dir
	cmd.Env = append(os.Environ(),
		"PATH="+r.bin+string(os.PathListSeparator)+os.Getenv("PATH"),
		"DEVRIG_CONFIG_HOME="+r.config,
		"DEVRIG_PACKAGE_MANAGER=",
		"DEVRIG_HOOK_SYSTEM=",
		"NO_COLOR=1",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	} else if err != nil {
		r.t.Fatalf("devrig %v could not start: %v", args, err)
	}
	return stdout.String(), stderr.String(), code
}

// devrigOK runs devrig and expects success.
func (r *testRepo) devrigOK(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.devrig(args...)
	if code != 0 {
		r.t.Fatalf("devrig %v exited %d\nstdout: %s\nstderr: %s", args, code, stdout, stderr)
	}
	return stdout
}

// devrigJSON runs devrig with --json and decodes the result.
func (r *testRepo) devrigJSON(args ...string) map[string]any {
	r.t.Helper()

	stdout := r.devrigOK(append(args, "--json")...)
	var result map[string]any
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		r.t.Fatalf("failed to parse JSON from devrig %v: %v\n%s", args, err, stdout)
	}
	return result
}

// TestBootstrapInstallsHooks runs the bootstrap plan with a fake pnpm whose
// lefthook:install script writes a lefthook hook, then checks the hook state.
func TestBootstrapInstallsHooks(t *testing.T) {
	repo := newTestRepo(t)

	repo.createFile("package.json", `{"name": "app", "scripts": {"lefthook:install": "lefthook install"}}`)
	repo.createFile("pnpm-lock.yaml", "lockfileVersion: '9.0'\n")
	repo.createFile("lefthook.yml", "pre-commit:\n  commands: {}\n")
	repo.fakeTool("pnpm", `echo "pnpm $*" >> pnpm.log
if [ "$2" = "lefthook:install" ]; then
  printf '#!/bin/sh\n# generated by lefthook\n' > .git/hooks/pre-commit
fi
`)

	// Before bootstrap the hook system is configured but not installed.
	if _, _, code := repo.devrig("hooks", "status", "--check"); code != 1 {
		t.Errorf("hooks status --check before bootstrap exited %d, want 1", code)
	}

	summary := repo.devrigJSON("run", "bootstrap")
	if summary["success"] != true {
		t.Fatalf("bootstrap failed: %v", summary)
	}

	log, err := os.ReadFile(filepath.Join(repo.dir, "pnpm.log"))
	if err != nil {
		t.Fatalf("fake pnpm was not run: %v", err)
	}
	want := "pnpm install\npnpm run lefthook:install\npnpm run ruler:apply\n"
	if string(log) != want {
		t.Errorf("pnpm calls = %q, want %q", log, want)
	}

	status := repo.devrigJSON("hooks", "status", "--check")
	if status["installed"] != true {
		t.Errorf("hooks should be installed after bootstrap: %v", status)
	}
}

// TestChangesetCycle adds changesets, lists the aggregate, and validates them.
func TestChangesetCycle(t *testing.T) {
	repo := newTestRepo(t)

	repo.createFile("package.json", `{"name": "@acme/web"}`)
	repo.createFile(".changeset/config.json", "{}\n")

	repo.devrigOK("changeset", "add", "--bump", "patch", "--summary", "Fix focus ring", "--id", "focus")
	repo.devrigOK("changeset", "add", "--package", "@acme/web", "--package", "@acme/ui",
		"--bump", "minor", "--summary", "Add theming")

	list := repo.devrigJSON("changeset", "list")
	changesets, _ := list["changesets"].([]any)
	if len(changesets) != 2 {
		t.Fatalf("got %d changesets, want 2", len(changesets))
	}
	releases, _ := list["releases"].([]any)
	if len(releases) != 2 {
		t.Fatalf("releases = %v, want 2 packages", releases)
	}
	for _, raw := range releases {
		release, _ := raw.(map[string]any)
		if release["bump"] != "minor" {
			t.Errorf("release %v should aggregate to minor", release)
		}
	}

	repo.devrigOK("changeset", "check")

	repo.createFile(".changeset/broken.md", "---\n\"@acme/web\": enormous\n---\n\nBad.\n")
	if _, _, code := repo.devrig("changeset", "check"); code != 1 {
		t.Errorf("changeset check with an invalid file exited %d, want 1", code)
	}

	if _, _, code := repo.devrig("changeset", "add", "--bump", "patch", "--summary", "Again", "--id", "focus"); code != 3 {
		t.Errorf("duplicate changeset id exited %d, want 3", code)
	}
}

// TestConfigFileOverride checks a committed devrig.toml beats lockfile detection
// and that flags beat the file.
func TestConfigFileOverride(t *testing.T) {
	repo := newTestRepo(t)

	repo.createFile("yarn.lock", "")
	repo.createFile("devrig.toml", "[tools]\npackage_manager = \"bun\"\n")

	if got := strings.TrimSpace(repo.devrigOK("cmd", "install")); got != "bun install" {
		t.Errorf("cmd install = %q, want bun install", got)
	}
	if got := strings.TrimSpace(repo.devrigOK("cmd", "install", "--package-manager", "npm")); got != "npm install" {
		t.Errorf("cmd install --package-manager npm = %q, want npm install", got)
	}

	env := repo.devrigJSON("detect")
	if env["detected_package_manager"] != "yarn" || env["package_manager_source"] != "override" {
		t.Errorf("detect = %v", env)
	}
}

// TestSubdirectoryUsesRepoRoot checks commands run from a subdirectory resolve
// the repository root.
func TestSubdirectoryUsesRepoRoot(t *testing.T) {
	repo := newTestRepo(t)

	repo.createFile("pnpm-lock.yaml", "")
	repo.createFile("src/index.ts", "export {}\n")

	cmd := exec.Command(repo.binary, "detect", "--json")
	cmd.Dir = filepath.Join(repo.dir, "src")
	cmd.Env = append(os.Environ(), "DEVRIG_CONFIG_HOME="+repo.config, "DEVRIG_PACKAGE_MANAGER=")
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("detect from subdirectory failed: %v", err)
	}

	var env map[string]any
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if env["package_manager"] != "pnpm" {
		t.Errorf("package_manager = %v, want pnpm from the repo root", env["package_manager"])
	}
}

// TestMismatchedHooksExitConflict checks the conflict exit code for hooks
// written by a different framework.
func TestMismatchedHooksExitConflict(t *testing.T) {
	repo := newTestRepo(t)

	repo.createFile(".pre-commit-config.yaml", "repos: []\n")
	repo.createFile(".git/hooks/pre-commit", "#!/bin/sh\n# lefthook\n")

	_, stderr, code := repo.devrig("hooks", "status", "--check")
	if code != 3 {
		t.Errorf("exit code = %d, want 3\nstderr: %s", code, stderr)
	}
}
