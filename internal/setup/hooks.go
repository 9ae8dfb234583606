package setup

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gorewood/devrig/internal/detect"
)

// HookNames are the git hooks devrig inspects, primary hook first.
var HookNames = []string{"pre-commit", "commit-msg", "pre-push"}

// Owner identifies the framework that generated a hook script.
type Owner string

const (
	OwnerNone      Owner = ""
	OwnerLefthook  Owner = "lefthook"
	OwnerPreCommit Owner = "pre-commit"
	OwnerOther     Owner = "other"
)

// HookStatus describes a single git hook file.
type HookStatus struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
	Owner  Owner  `json:"owner,omitempty"`
}

// InspectHook reads the hook at path and infers which framework wrote it.
func InspectHook(path string) HookStatus {
	status := HookStatus{Name: filepath.Base(path), Path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		return status
	}

	status.Exists = true
	status.Owner = ownerOf(string(content))
	return status
}

// ownerOf classifies hook script content. Lefthook is checked first because
// its scripts mention hook names such as "pre-commit".
func ownerOf(content string) Owner {
	lower := strings.ToLower(content)
	switch {
	case strings.Contains(lower, "lefthook"):
		return OwnerLefthook
	case strings.Contains(lower, "pre-commit.com"),
		strings.Contains(lower, "generated by pre-commit"),
		strings.Contains(lower, "pre_commit"):
		return OwnerPreCommit
	default:
		return OwnerOther
	}
}

// HookReport compares the hooks installed in git with the detected hook system.
type HookReport struct {
	System   detect.HookSystem `json:"system"`
	HooksDir string            `json:"hooks_dir"`
	Hooks    []HookStatus      `json:"hooks"`
	// Installed is true when the primary hook was written by System.
	Installed bool `json:"installed"`
	// Mismatch is true when a hook from a different framework is installed.
	Mismatch bool `json:"mismatch"`
}

// Primary returns the pre-commit hook status.
func (r HookReport) Primary() HookStatus {
	if len(r.Hooks) == 0 {
		return HookStatus{}
	}
	return r.Hooks[0]
}

// CheckHooks inspects the hooks in hooksDir against system.
func CheckHooks(hooksDir string, system detect.HookSystem) HookReport {
	report := HookReport{System: system, HooksDir: hooksDir}

	for _, name := range HookNames {
		status := InspectHook(filepath.Join(hooksDir, name))
		report.Hooks = append(report.Hooks, status)

		if status.Owner != OwnerLefthook && status.Owner != OwnerPreCommit {
			continue
		}
		if !system.Enabled() || string(status.Owner) != string(system) {
			report.Mismatch = true
		}
	}

	primary := report.Primary()
	report.Installed = system.Enabled() && string(primary.Owner) == string(system)
	return report
}

// DescribeHookState returns a human-readable summary of a hook report.
func DescribeHookState(report HookReport) string {
	primary := report.Primary()
	switch {
	case !report.System.Enabled() && !primary.Exists:
		return "no hook system configured"
	case !report.System.Enabled():
		return "no hook system configured, but a " + describeOwner(primary.Owner) + " hook is installed"
	case report.Installed:
		return report.System.String() + " hooks installed"
	case primary.Exists:
		return report.System.String() + " configured, but the pre-commit hook belongs to " + describeOwner(primary.Owner)
	default:
		return report.System.String() + " configured but not installed"
	}
}

func describeOwner(owner Owner) string {
	switch owner {
	case OwnerNone, OwnerOther:
		return "another tool"
	default:
		return string(owner)
	}
}
