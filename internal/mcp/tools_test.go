package mcp

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/devrig/internal/changeset"
	"github.com/gorewood/devrig/internal/detect"
	"github.com/gorewood/devrig/internal/workflow"
)

// --- Test helpers ---

// newProject creates a project directory containing the given files and
// isolates the test from user config and environment overrides.
func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	t.Setenv("DEVRIG_CONFIG_HOME", t.TempDir())
	t.Setenv("DEVRIG_PACKAGE_MANAGER", "")
	t.Setenv("DEVRIG_HOOK_SYSTEM", "")

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return dir
}

var req = &mcp.CallToolRequest{}

// --- Detect handler tests ---

func TestHandleDetect(t *testing.T) {
	dir := newProject(t, map[string]string{
		"pnpm-lock.yaml": "",
		"yarn.lock":      "",
		"lefthook.yml":   "",
	})

	_, out, err := handleDetect(dir)(context.Background(), req, DetectInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Environment.PackageManager != detect.PNPM {
		t.Errorf("PackageManager = %s, want pnpm", out.Environment.PackageManager)
	}
	if out.Environment.HookSystem != detect.Lefthook {
		t.Errorf("HookSystem = %s, want lefthook", out.Environment.HookSystem)
	}
	if len(out.Warnings) != 1 || !strings.Contains(out.Warnings[0], "yarn.lock") {
		t.Errorf("Warnings = %v, want one mentioning yarn.lock", out.Warnings)
	}
}

func TestHandleDetect_Override(t *testing.T) {
	dir := newProject(t, map[string]string{"package-lock.json": ""})

	_, out, err := handleDetect("")(context.Background(), req, DetectInput{Dir: dir, PackageManager: "bun"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Environment.PackageManager != detect.Bun {
		t.Errorf("PackageManager = %s, want bun", out.Environment.PackageManager)
	}
	if out.Environment.PackageManagerSource != detect.SourceOverride {
		t.Errorf("PackageManagerSource = %s, want override", out.Environment.PackageManagerSource)
	}
	if out.Environment.DetectedPackageManager != detect.NPM {
		t.Errorf("DetectedPackageManager = %s, want npm", out.Environment.DetectedPackageManager)
	}
}

func TestHandleDetect_InvalidOverride(t *testing.T) {
	dir := newProject(t, nil)

	_, _, err := handleDetect(dir)(context.Background(), req, DetectInput{PackageManager: "cargo"})
	if err == nil {
		t.Fatal("expected error for unknown package manager")
	}
}

func TestHandleDetect_RelativeDir(t *testing.T) {
	dir := newProject(t, map[string]string{"web/bun.lock": ""})

	_, out, err := handleDetect(dir)(context.Background(), req, DetectInput{Dir: "web"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Environment.PackageManager != detect.Bun {
		t.Errorf("PackageManager = %s, want bun", out.Environment.PackageManager)
	}
	if out.Environment.Root != filepath.Join(dir, "web") {
		t.Errorf("Root = %q", out.Environment.Root)
	}
}

// --- Plan handler tests ---

func TestHandlePlan_List(t *testing.T) {
	_, out, err := handlePlan("")(context.Background(), req, PlanInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Plans) != len(workflow.Names()) {
		t.Errorf("len(Plans) = %d, want %d", len(out.Plans), len(workflow.Names()))
	}
	for _, p := range out.Plans {
		if p.Description == "" {
			t.Errorf("plan %s has no description", p.Name)
		}
	}
}

func TestHandlePlan_Bootstrap(t *testing.T) {
	dir := newProject(t, map[string]string{
		"yarn.lock":               "",
		".pre-commit-config.yaml": "",
	})

	_, out, err := handlePlan(dir)(context.Background(), req, PlanInput{Name: workflow.PlanBootstrap})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var commands []string
	for _, step := range out.Steps {
		commands = append(commands, step.Command)
	}
	want := []string{"yarn install", "pre-commit install", "yarn run ruler:apply"}
	if !slices.Equal(commands, want) {
		t.Errorf("commands = %v, want %v", commands, want)
	}
	if !out.Steps[2].Optional {
		t.Error("ruler step should be optional")
	}
}

func TestHandlePlan_Unknown(t *testing.T) {
	dir := newProject(t, nil)
	if _, _, err := handlePlan(dir)(context.Background(), req, PlanInput{Name: "deploy"}); err == nil {
		t.Error("expected error for unknown plan")
	}
}

// --- Command handler tests ---

func TestHandleCommand(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		input   CommandInput
		want    string
		wantErr string
	}{
		{
			name:  "install with pnpm",
			files: map[string]string{"pnpm-lock.yaml": ""},
			input: CommandInput{Kind: "install"},
			want:  "pnpm install",
		},
		{
			name:  "npm run forwards args after --",
			files: map[string]string{"package-lock.json": ""},
			input: CommandInput{Kind: "run", Script: "test", Args: []string{"--watch"}},
			want:  "npm run test -- --watch",
		},
		{
			name:  "bun exec",
			files: map[string]string{"bun.lockb": ""},
			input: CommandInput{Kind: "exec", Binary: "tsc", Args: []string{"--noEmit"}},
			want:  "bunx tsc --noEmit",
		},
		{
			name:  "lefthook install goes through the package manager",
			files: map[string]string{"pnpm-lock.yaml": "", "lefthook.yml": ""},
			input: CommandInput{Kind: "hooks"},
			want:  "pnpm run lefthook:install",
		},
		{
			name:    "hooks without a hook system",
			input:   CommandInput{Kind: "hooks"},
			wantErr: "no hook system",
		},
		{
			name:    "run without script",
			input:   CommandInput{Kind: "run"},
			wantErr: "script is required",
		},
		{
			name:    "unknown kind",
			input:   CommandInput{Kind: "deploy"},
			wantErr: "unknown kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := newProject(t, tt.files)
			_, out, err := handleCommand(dir)(context.Background(), req, tt.input)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Command != tt.want {
				t.Errorf("Command = %q, want %q", out.Command, tt.want)
			}
			if strings.Join(out.Argv, " ") != tt.want {
				t.Errorf("Argv = %v", out.Argv)
			}
		})
	}
}

// --- Changeset handler tests ---

func TestHandleChangesetAddAndList(t *testing.T) {
	dir := newProject(t, map[string]string{"package.json": `{"name": "@acme/web"}`})

	_, added, err := handleChangesetAdd(dir)(context.Background(), req, ChangesetAddInput{
		ID:       "first-change",
		Releases: []ReleaseInput{{Bump: "minor"}},
		Summary:  "Add dark mode",
	})
	if err != nil {
		t.Fatalf("changeset_add error: %v", err)
	}
	if added.Path != filepath.Join(dir, ".changeset", "first-change.md") {
		t.Errorf("Path = %q", added.Path)
	}
	if got := added.Changeset.Packages(); !slices.Equal(got, []string{"@acme/web"}) {
		t.Errorf("Packages() = %v, want package.json name", got)
	}

	_, _, err = handleChangesetAdd(dir)(context.Background(), req, ChangesetAddInput{
		Releases: []ReleaseInput{{Package: "@acme/web", Bump: "major"}, {Package: "@acme/ui", Bump: "patch"}},
		Summary:  "Drop legacy API",
	})
	if err != nil {
		t.Fatalf("second changeset_add error: %v", err)
	}

	_, list, err := handleChangesetList(dir)(context.Background(), req, ChangesetListInput{})
	if err != nil {
		t.Fatalf("changeset_list error: %v", err)
	}
	if len(list.Changesets) != 2 {
		t.Fatalf("len(Changesets) = %d, want 2", len(list.Changesets))
	}
	want := []changeset.Release{
		{Package: "@acme/ui", Bump: changeset.Patch},
		{Package: "@acme/web", Bump: changeset.Major},
	}
	if !slices.Equal(list.Releases, want) {
		t.Errorf("Releases = %v, want %v", list.Releases, want)
	}
}

func TestHandleChangesetAdd_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input ChangesetAddInput
	}{
		{"no releases", ChangesetAddInput{Summary: "x"}},
		{"releases with empty", ChangesetAddInput{Releases: []ReleaseInput{{Package: "a", Bump: "patch"}}, Empty: true}},
		{"bad bump", ChangesetAddInput{Releases: []ReleaseInput{{Package: "a", Bump: "huge"}}, Summary: "x"}},
		{"no package name available", ChangesetAddInput{Releases: []ReleaseInput{{Bump: "patch"}}, Summary: "x"}},
		{"missing summary", ChangesetAddInput{Releases: []ReleaseInput{{Package: "a", Bump: "patch"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := newProject(t, nil)
			if _, _, err := handleChangesetAdd(dir)(context.Background(), req, tt.input); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestHandleChangesetAdd_Empty(t *testing.T) {
	dir := newProject(t, nil)

	_, out, err := handleChangesetAdd(dir)(context.Background(), req, ChangesetAddInput{Empty: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Changeset.Empty() {
		t.Errorf("Changeset = %+v, want empty", out.Changeset)
	}
	if _, err := os.Stat(out.Path); err != nil {
		t.Errorf("changeset file not written: %v", err)
	}
}

func TestHandleChangesetList_NoDirectory(t *testing.T) {
	dir := newProject(t, nil)

	_, out, err := handleChangesetList(dir)(context.Background(), req, ChangesetListInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Changesets == nil || len(out.Changesets) != 0 {
		t.Errorf("Changesets = %v, want empty non-nil slice", out.Changesets)
	}
}

// --- Server registration test ---

func TestNewServer_RegistersTools(t *testing.T) {
	ctx := context.Background()
	server := NewServer("test-version", t.TempDir())

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	if _, err := server.Connect(ctx, serverTransport, nil); err != nil {
		t.Fatalf("server connect: %v", err)
	}
	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "v0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	slices.Sort(names)
	want := []string{"changeset_add", "changeset_list", "command", "detect", "plan"}
	if !slices.Equal(names, want) {
		t.Errorf("tools = %v, want %v", names, want)
	}
}
