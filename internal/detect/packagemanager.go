package detect

import (
	"fmt"
	"strings"
)

// PackageManager identifies a JavaScript package manager.
type PackageManager string

const (
	Bun  PackageManager = "bun"
	PNPM PackageManager = "pnpm"
	Yarn PackageManager = "yarn"
	NPM  PackageManager = "npm"
)

// DefaultPackageManager is used when no lockfile is present.
const DefaultPackageManager = NPM

// packageManagerRules is the lockfile priority order. First match wins.
var packageManagerRules = []rule[PackageManager]{
	{markers: []string{"bun.lockb", "bun.lock"}, choice: Bun},
	{markers: []string{"pnpm-lock.yaml"}, choice: PNPM},
	{markers: []string{"yarn.lock"}, choice: Yarn},
	{markers: []string{"package-lock.json"}, choice: NPM},
}

// PackageManagers returns all package managers in detection priority order.
func PackageManagers() []PackageManager {
	return []PackageManager{Bun, PNPM, Yarn, NPM}
}

// String implements fmt.Stringer.
func (p PackageManager) String() string {
	return string(p)
}

// Valid reports whether p is one of the known package managers.
func (p PackageManager) Valid() bool {
	switch p {
	case Bun, PNPM, Yarn, NPM:
		return true
	default:
		return false
	}
}

// ParsePackageManager converts a user-supplied name into a PackageManager.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParsePackageManager(s string) (PackageManager, error) {
	pm := PackageManager(strings.ToLower(strings.TrimSpace(s)))
	if !pm.Valid() {
		return "", fmt.Errorf("unknown package manager %q (want one of bun, pnpm, yarn, npm)", s)
	}
	return pm, nil
}

// DetectPackageManager resolves the package manager for root from its lockfiles.
func DetectPackageManager(root string) Resolution[PackageManager] {
	return resolve(root, packageManagerRules, DefaultPackageManager)
}
