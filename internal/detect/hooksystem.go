package detect

import (
	"fmt"
	"strings"
)

// HookSystem identifies a git hook framework.
type HookSystem string

const (
	Lefthook  HookSystem = "lefthook"
	PreCommit HookSystem = "pre-commit"
	NoHooks   HookSystem = "none"
)

// DefaultHookSystem is used when no hook configuration is present.
const DefaultHookSystem = NoHooks

// hookSystemRules is the hook config priority order. Lefthook wins over pre-commit.
var hookSystemRules = []rule[HookSystem]{
	{markers: []string{"lefthook.yml", ".lefthook.yml"}, choice: Lefthook},
	{markers: []string{".pre-commit-config.yaml"}, choice: PreCommit},
}

// HookSystems returns all hook systems in detection priority order.
func HookSystems() []HookSystem {
	return []HookSystem{Lefthook, PreCommit, NoHooks}
}

// String implements fmt.Stringer.
func (h HookSystem) String() string {
	return string(h)
}

// Valid reports whether h is one of the known hook systems.
func (h HookSystem) Valid() bool {
	switch h {
	case Lefthook, PreCommit, NoHooks:
		return true
	default:
		return false
	}
}

// Enabled reports whether h is an actual hook framework rather than NoHooks.
func (h HookSystem) Enabled() bool {
	return h != NoHooks && h != ""
}

// ParseHookSystem converts a user-supplied name into a HookSystem.
// "precommit" and "pre_commit" are accepted as spellings of pre-commit.
func ParseHookSystem(s string) (HookSystem, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "precommit" || normalized == "pre_commit" {
		normalized = string(PreCommit)
	}

	hs := HookSystem(normalized)
	if !hs.Valid() {
		return "", fmt.Errorf("unknown hook system %q (want one of lefthook, pre-commit, none)", s)
	}
	return hs, nil
}

// DetectHookSystem resolves the hook system for root from its config files.
func DetectHookSystem(root string) Resolution[HookSystem] {
	return resolve(root, hookSystemRules, DefaultHookSystem)
}
