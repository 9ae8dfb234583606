package changeset

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Bump is a semver release level.
type Bump string

const (
	Patch Bump = "patch"
	Minor Bump = "minor"
	Major Bump = "major"
)

// Bumps returns the bump levels from lowest to highest.
func Bumps() []Bump {
	return []Bump{Patch, Minor, Major}
}

// rank orders bumps; unknown bumps rank below patch.
func (b Bump) rank() int {
	return slices.Index(Bumps(), b)
}

// Valid reports whether b is a known bump level.
func (b Bump) Valid() bool {
	return b.rank() >= 0
}

// ParseBump validates a user-supplied bump level.
func ParseBump(s string) (Bump, error) {
	b := Bump(strings.ToLower(strings.TrimSpace(s)))
	if !b.Valid() {
		return "", fmt.Errorf("invalid bump %q (want major, minor, or patch)", s)
	}
	return b, nil
}

// Max returns the higher of two bumps.
func Max(a, b Bump) Bump {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// Release is a single package entry in a changeset.
type Release struct {
	Package string `json:"package"`
	Bump    Bump   `json:"bump"`
}

// Changeset is a parsed changeset file.
type Changeset struct {
	// ID is the file name without the .md extension.
	ID       string    `json:"id"`
	Releases []Release `json:"releases"`
	Summary  string    `json:"summary"`
}

// Empty reports whether the changeset releases nothing.
func (c Changeset) Empty() bool {
	return len(c.Releases) == 0
}

// Packages returns the package names in release order.
func (c Changeset) Packages() []string {
	names := make([]string, 0, len(c.Releases))
	for _, r := range c.Releases {
		names = append(names, r.Package)
	}
	return names
}

// ErrNoFrontmatter is returned by Parse when the file has no front matter block.
var ErrNoFrontmatter = errors.New("missing front matter")

// Parse parses raw changeset content. The ID is left empty.
func Parse(raw string) (Changeset, error) {
	frontmatter, body, ok := splitFrontmatter(raw)
	if !ok {
		return Changeset{}, ErrNoFrontmatter
	}

	entries := map[string]string{}
	if frontmatter != "" {
		if err := yaml.Unmarshal([]byte(frontmatter), &entries); err != nil {
			return Changeset{}, fmt.Errorf("invalid front matter: %w", err)
		}
	}

	cs := Changeset{Summary: body}
	for pkg, level := range entries {
		bump, err := ParseBump(level)
		if err != nil {
			return Changeset{}, fmt.Errorf("package %q: %w", pkg, err)
		}
		cs.Releases = append(cs.Releases, Release{Package: pkg, Bump: bump})
	}
	sortReleases(cs.Releases)

	if err := Validate(cs); err != nil {
		return Changeset{}, err
	}
	return cs, nil
}

// Render produces the canonical file content for cs.
func Render(cs Changeset) string {
	releases := slices.Clone(cs.Releases)
	sortReleases(releases)

	var b strings.Builder
	b.WriteString("---\n")
	for _, r := range releases {
		fmt.Fprintf(&b, "%s: %s\n", strconv.Quote(r.Package), r.Bump)
	}
	b.WriteString("---\n")
	if summary := strings.TrimSpace(cs.Summary); summary != "" {
		b.WriteString("\n")
		b.WriteString(summary)
		b.WriteString("\n")
	}
	return b.String()
}

// Validate checks package names, bump levels, and duplicates. A changeset
// with releases must have a summary; an empty changeset may omit it.
func Validate(cs Changeset) error {
	seen := make(map[string]bool, len(cs.Releases))
	for _, r := range cs.Releases {
		if strings.TrimSpace(r.Package) == "" {
			return errors.New("release with empty package name")
		}
		if !r.Bump.Valid() {
			return fmt.Errorf("package %q: invalid bump %q", r.Package, r.Bump)
		}
		if seen[r.Package] {
			return fmt.Errorf("package %q listed more than once", r.Package)
		}
		seen[r.Package] = true
	}

	if !cs.Empty() && strings.TrimSpace(cs.Summary) == "" {
		return errors.New("summary is required when releasing packages")
	}
	return nil
}

// Aggregate combines changesets into the highest bump per package, the way
// versioning consumes them. The result is sorted by package name.
func Aggregate(changesets []Changeset) []Release {
	highest := map[string]Bump{}
	for _, cs := range changesets {
		for _, r := range cs.Releases {
			highest[r.Package] = Max(highest[r.Package], r.Bump)
		}
	}

	releases := make([]Release, 0, len(highest))
	for pkg, bump := range highest {
		releases = append(releases, Release{Package: pkg, Bump: bump})
	}
	sortReleases(releases)
	return releases
}

func sortReleases(releases []Release) {
	slices.SortFunc(releases, func(a, b Release) int {
		return strings.Compare(a.Package, b.Package)
	})
}

// splitFrontmatter separates the YAML block delimited by --- lines from the body.
func splitFrontmatter(raw string) (frontmatter, body string, ok bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	if !strings.HasPrefix(raw, "---") {
		return "", "", false
	}

	// Keep a leading newline so an empty block ("---\n---") still has a closing delimiter.
	rest := "\n" + strings.TrimLeft(raw[3:], " \t")
	before, after, found := strings.Cut(rest, "\n---")
	if !found {
		return "", "", false
	}

	return strings.TrimSpace(before), strings.TrimSpace(after), true
}
