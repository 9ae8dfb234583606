// Package changeset reads and writes changeset files: pending release-note
// entries that map package names to a semver bump and carry a free-form
// summary.
//
// A changeset is a Markdown file with YAML front matter:
//
//	---
//	"@acme/web": minor
//	"@acme/api": patch
//	---
//
//	Add dark mode toggle to settings.
//
// Files live in the .changeset directory of a project and are consumed by the
// changesets CLI when versioning. Store manages that directory:
//
//	store := changeset.NewStore(root, "")
//	id, err := store.Add(cs)
//	all, bad, err := store.List()
package changeset
