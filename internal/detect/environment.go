package detect

import (
	"fmt"
	"strings"
)

// Overrides force a choice for a category regardless of markers.
// Zero values leave detection in charge.
type Overrides struct {
	PackageManager PackageManager
	HookSystem     HookSystem
}

// IsZero reports whether no override is set.
func (o Overrides) IsZero() bool {
	return o.PackageManager == "" && o.HookSystem == ""
}

// Conflict records markers for more than one tool in a single category.
type Conflict struct {
	Category Category `json:"category"`
	Chosen   string   `json:"chosen"`
	Marker   string   `json:"marker"`
	Ignored  []string `json:"ignored"`
}

// Message returns a one-line description of the conflict suitable for a warning.
func (c Conflict) Message() string {
	return fmt.Sprintf("%s: using %s (%s); ignoring %s",
		strings.ReplaceAll(string(c.Category), "_", " "),
		c.Chosen, c.Marker, strings.Join(c.Ignored, ", "))
}

// Environment is the resolved toolchain for a project root. It is a value:
// build it once with Detect and pass it to whatever needs it.
type Environment struct {
	Root string `json:"root"`

	PackageManager       PackageManager `json:"package_manager"`
	PackageManagerSource Source         `json:"package_manager_source"`
	PackageManagerMarker string         `json:"package_manager_marker,omitempty"`

	HookSystem       HookSystem `json:"hook_system"`
	HookSystemSource Source     `json:"hook_system_source"`
	HookSystemMarker string     `json:"hook_system_marker,omitempty"`

	// Detected holds the marker-based choices before overrides were applied.
	DetectedPackageManager PackageManager `json:"detected_package_manager"`
	DetectedHookSystem     HookSystem     `json:"detected_hook_system"`

	Conflicts []Conflict `json:"conflicts,omitempty"`
}

// Detect resolves both categories for root and applies overrides.
// It never fails: missing or unreadable roots resolve to the defaults.
func Detect(root string, overrides Overrides) Environment {
	pm := DetectPackageManager(root)
	hs := DetectHookSystem(root)

	env := Environment{
		Root:                   root,
		PackageManager:         pm.Choice,
		PackageManagerSource:   pm.Source,
		PackageManagerMarker:   pm.Marker,
		HookSystem:             hs.Choice,
		HookSystemSource:       hs.Source,
		HookSystemMarker:       hs.Marker,
		DetectedPackageManager: pm.Choice,
		DetectedHookSystem:     hs.Choice,
	}

	if pm.Conflicted() {
		env.Conflicts = append(env.Conflicts, Conflict{
			Category: CategoryPackageManager,
			Chosen:   pm.Choice.String(),
			Marker:   pm.Marker,
			Ignored:  pm.Ignored,
		})
	}
	if hs.Conflicted() {
		env.Conflicts = append(env.Conflicts, Conflict{
			Category: CategoryHookSystem,
			Chosen:   hs.Choice.String(),
			Marker:   hs.Marker,
			Ignored:  hs.Ignored,
		})
	}

	return env.WithOverrides(overrides)
}

// WithOverrides returns a copy of env with the non-zero overrides applied.
func (e Environment) WithOverrides(overrides Overrides) Environment {
	if overrides.PackageManager != "" {
		e.PackageManager = overrides.PackageManager
		e.PackageManagerSource = SourceOverride
		e.PackageManagerMarker = ""
	}
	if overrides.HookSystem != "" {
		e.HookSystem = overrides.HookSystem
		e.HookSystemSource = SourceOverride
		e.HookSystemMarker = ""
	}
	return e
}

// Overridden reports whether any override changed the detected result.
func (e Environment) Overridden() bool {
	return e.PackageManager != e.DetectedPackageManager || e.HookSystem != e.DetectedHookSystem
}

// Warnings returns human-readable conflict warnings.
func (e Environment) Warnings() []string {
	warnings := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		warnings = append(warnings, c.Message())
	}
	return warnings
}
