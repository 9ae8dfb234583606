package mcp

import (
	"fmt"
	"path/filepath"

	"github.com/gorewood/devrig/internal/config"
	"github.com/gorewood/devrig/internal/detect"
	"github.com/gorewood/devrig/internal/git"
	"github.com/gorewood/devrig/internal/toolchain"
)

// project is the resolved state every tool call starts from.
type project struct {
	root      string
	settings  config.Settings
	env       detect.Environment
	toolchain toolchain.Toolchain
}

// loadProject resolves the project for a call. A relative dir is taken
// relative to the server's default dir.
func loadProject(defaultDir, dir, packageManager, hookSystem string) (project, error) {
	switch {
	case dir == "":
		dir = defaultDir
	case !filepath.IsAbs(dir) && defaultDir != "":
		dir = filepath.Join(defaultDir, dir)
	}

	root, err := git.ProjectRoot(dir)
	if err != nil {
		return project{}, fmt.Errorf("resolving project root: %w", err)
	}

	settings, env, err := config.Load(root, config.Flags{
		PackageManager: packageManager,
		HookSystem:     hookSystem,
	})
	if err != nil {
		return project{}, err
	}

	return project{
		root:      root,
		settings:  settings,
		env:       env,
		toolchain: toolchain.New(env),
	}, nil
}

