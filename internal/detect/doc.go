// Package detect works out which package manager and which git hook
// framework a project uses by looking for marker files in its root.
//
// Each category has a fixed priority list. The first rule with a marker
// present wins, and every category has a default, so detection always
// produces exactly one choice per category:
//
//	env := detect.Detect(root, detect.Overrides{})
//	env.PackageManager // detect.Bun, detect.PNPM, detect.Yarn or detect.NPM
//	env.HookSystem     // detect.Lefthook, detect.PreCommit or detect.NoHooks
//
// # Package Managers
//
// Priority order:
//
//	bun.lockb, bun.lock  -> bun
//	pnpm-lock.yaml       -> pnpm
//	yarn.lock            -> yarn
//	package-lock.json    -> npm
//	(nothing)            -> npm
//
// # Hook Systems
//
// Priority order:
//
//	lefthook.yml, .lefthook.yml -> lefthook
//	.pre-commit-config.yaml     -> pre-commit
//	(nothing)                   -> none
//
// # Conflicts
//
// When markers for different tools of the same category coexist, the
// higher-priority tool is selected and a Conflict is recorded on the
// Environment so callers can warn about the ambiguity.
//
// # Overrides
//
// Overrides replace a detected choice outright. They are the only way to
// diverge from the priority order; Source reports where each choice came from.
package detect
