package toolchain

import (
	"github.com/gorewood/devrig/internal/detect"
)

// Well-known package.json scripts that workflows call.
const (
	ScriptLefthookInstall = "lefthook:install"
	ScriptRulerApply      = "ruler:apply"
	ScriptRulerCheck      = "ruler:check"
	ScriptCheck           = "check"
	ScriptFormat          = "format"
	ScriptLint            = "lint"
	ScriptTest            = "test"
)

// Scripts returns the well-known script names.
func Scripts() []string {
	return []string{
		ScriptLefthookInstall,
		ScriptRulerApply,
		ScriptRulerCheck,
		ScriptCheck,
		ScriptFormat,
		ScriptLint,
		ScriptTest,
	}
}

// Toolchain builds commands for one resolved environment.
type Toolchain struct {
	env detect.Environment
}

// New returns a Toolchain for env.
func New(env detect.Environment) Toolchain {
	return Toolchain{env: env}
}

// Environment returns the environment the toolchain was built from.
func (t Toolchain) Environment() detect.Environment {
	return t.env
}

// PackageManager returns the package manager commands are built for.
func (t Toolchain) PackageManager() detect.PackageManager {
	return t.env.PackageManager
}

// HookSystem returns the hook system commands are built for.
func (t Toolchain) HookSystem() detect.HookSystem {
	return t.env.HookSystem
}

// Install returns the dependency install command, e.g. "pnpm install".
func (t Toolchain) Install() Command {
	return NewCommand(t.binary(), "install")
}

// RunScript returns the command that runs a package.json script.
// npm needs "--" before extra arguments; the others forward them directly.
func (t Toolchain) RunScript(script string, args ...string) Command {
	argv := []string{"run", script}
	if len(args) > 0 {
		if t.env.PackageManager == detect.NPM {
			argv = append(argv, "--")
		}
		argv = append(argv, args...)
	}
	return NewCommand(t.binary(), argv...)
}

// Exec returns the command that runs a binary from the project's dependencies.
func (t Toolchain) Exec(bin string, args ...string) Command {
	argv := append([]string{bin}, args...)
	switch t.env.PackageManager {
	case detect.Bun:
		return NewCommand("bunx", argv...)
	case detect.PNPM:
		return NewCommand("pnpm", append([]string{"exec"}, argv...)...)
	case detect.Yarn:
		return NewCommand("yarn", argv...)
	default:
		return NewCommand("npx", argv...)
	}
}

// HookInstall returns the command that installs git hooks for the detected
// hook system. ok is false when the project has no hook system.
func (t Toolchain) HookInstall() (cmd Command, ok bool) {
	switch t.env.HookSystem {
	case detect.Lefthook:
		return t.RunScript(ScriptLefthookInstall), true
	case detect.PreCommit:
		return NewCommand("pre-commit", "install"), true
	default:
		return Command{}, false
	}
}

// binary returns the package manager executable name, falling back to npm.
func (t Toolchain) binary() string {
	if !t.env.PackageManager.Valid() {
		return string(detect.DefaultPackageManager)
	}
	return string(t.env.PackageManager)
}
