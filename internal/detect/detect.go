package detect

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gorewood/devrig/internal/logging"
)

// Category names a detection category.
type Category string

const (
	CategoryPackageManager Category = "package_manager"
	CategoryHookSystem     Category = "hook_system"
)

// Source reports how a choice was resolved.
type Source string

const (
	SourceMarker   Source = "marker"
	SourceDefault  Source = "default"
	SourceOverride Source = "override"
)

// Choice is the closed set of values a category can resolve to.
type Choice interface {
	PackageManager | HookSystem
}

// rule maps a set of marker files to a single choice.
type rule[T Choice] struct {
	markers []string
	choice  T
}

// Resolution is the outcome of detecting one category.
type Resolution[T Choice] struct {
	Choice T      `json:"choice"`
	Source Source `json:"source"`
	// Marker is the file that selected Choice. Empty unless Source is SourceMarker.
	Marker string `json:"marker,omitempty"`
	// Present lists every marker of this category found in the root,
	// in priority order.
	Present []string `json:"present,omitempty"`
	// Ignored lists present markers that belong to a lower-priority tool.
	Ignored []string `json:"ignored,omitempty"`
}

// Conflicted reports whether markers for more than one tool were found.
func (r Resolution[T]) Conflicted() bool {
	return len(r.Ignored) > 0
}

// resolve walks rules in order and returns the first match, or fallback.
func resolve[T Choice](root string, rules []rule[T], fallback T) Resolution[T] {
	res := Resolution[T]{Choice: fallback, Source: SourceDefault}
	matched := false

	for _, r := range rules {
		for _, marker := range r.markers {
			if !markerExists(root, marker) {
				continue
			}
			logging.Debug("found marker", "root", root, "marker", marker)
			res.Present = append(res.Present, marker)
			if !matched {
				res.Choice = r.choice
				res.Source = SourceMarker
				res.Marker = marker
				matched = true
				continue
			}
			if r.choice != res.Choice {
				res.Ignored = append(res.Ignored, marker)
			}
		}
	}

	return res
}

// markerExists reports whether name is present directly under root. A
// symlink counts when its target, dangling or not, stays inside root.
func markerExists(root, name string) bool {
	path := filepath.Join(root, name)
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return true
	}
	return linkStaysInside(root, path)
}

func linkStaysInside(root, link string) bool {
	target, err := filepath.EvalSymlinks(link)
	if err != nil {
		dest, rerr := os.Readlink(link)
		if rerr != nil {
			return false
		}
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(filepath.Dir(link), dest)
		}
		target = filepath.Clean(dest)
	}

	if within(root, target) {
		return true
	}
	realRoot, err := filepath.EvalSymlinks(root)
	return err == nil && within(realRoot, target)
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Markers returns every marker file name the detector looks for,
// package manager markers first, each in priority order.
func Markers() []string {
	var names []string
	for _, r := range packageManagerRules {
		names = append(names, r.markers...)
	}
	for _, r := range hookSystemRules {
		names = append(names, r.markers...)
	}
	return slices.Clip(names)
}
