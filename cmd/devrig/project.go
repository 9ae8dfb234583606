package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/devrig/internal/config"
	"github.com/gorewood/devrig/internal/detect"
	"github.com/gorewood/devrig/internal/git"
	"github.com/gorewood/devrig/internal/toolchain"
)

// project is the resolved state shared by commands that act on a project.
type project struct {
	root      string
	settings  config.Settings
	env       detect.Environment
	toolchain toolchain.Toolchain
}

// loadProject resolves the project root from --dir, merges configuration
// with the override flags, and detects the environment once.
func loadProject(cmd *cobra.Command) (*project, error) {
	root, err := git.ProjectRoot(flagValue(cmd, "dir"))
	if err != nil {
		return nil, err
	}

	settings, env, err := config.Load(root, config.Flags{
		PackageManager: flagValue(cmd, "package-manager"),
		HookSystem:     flagValue(cmd, "hook-system"),
	})
	if err != nil {
		return nil, err
	}

	return &project{
		root:      root,
		settings:  settings,
		env:       env,
		toolchain: toolchain.New(env),
	}, nil
}

// relativeTo returns path relative to root when it lies inside it.
func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
