package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/gorewood/devrig/internal/changeset"
	"github.com/gorewood/devrig/internal/output"
)

// newChangesetCmd creates the changeset command group.
func newChangesetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changeset",
		Short: "Write, list, and validate changeset files",
		Long: `Manage changeset files: markdown notes in .changeset/ that record which
packages a change releases and at what semver level.

  ---
  "@acme/web": minor
  ---

  Add dark mode.

The changeset directory can be moved with [changeset] dir in devrig.toml.`,
	}

	cmd.AddCommand(newChangesetAddCmd(), newChangesetListCmd(), newChangesetCheckCmd())
	return cmd
}

// changesetAddFlags holds the flags for changeset add.
type changesetAddFlags struct {
	packages []string
	bump     string
	summary  string
	id       string
	empty    bool
}

func newChangesetAddCmd() *cobra.Command {
	flags := &changesetAddFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Write a new changeset",
		Long: `Write a new changeset file.

--package defaults to the name in package.json and may be repeated; every
package gets the same --bump. When run in a terminal with missing flags,
devrig prompts for them.

Examples:
  devrig changeset add --bump minor --summary "Add dark mode"
  devrig changeset add --package @acme/ui --package @acme/web --bump patch --summary "Fix focus ring"
  devrig changeset add --empty
  devrig changeset add                   # interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChangesetAdd(cmd, flags)
		},
	}

	cmd.Flags().StringSliceVar(&flags.packages, "package", nil, "Package to release (default: package.json name)")
	cmd.Flags().StringVar(&flags.bump, "bump", "", "Semver bump: patch, minor, major")
	cmd.Flags().StringVar(&flags.summary, "summary", "", "Changelog summary")
	cmd.Flags().StringVar(&flags.id, "id", "", "Changeset file name without .md (default: generated)")
	cmd.Flags().BoolVar(&flags.empty, "empty", false, "Write a changeset that releases nothing")

	return cmd
}

func runChangesetAdd(cmd *cobra.Command, flags *changesetAddFlags) error {
	printer := newPrinter(cmd)

	proj, err := loadProject(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	cs, err := buildChangeset(cmd, printer, proj.root, flags)
	if err != nil {
		printer.Error(err)
		return err
	}

	store := changeset.NewStore(proj.root, proj.settings.ChangesetDir)
	written, err := store.Add(cs)
	if err != nil {
		printer.Error(err)
		return err
	}

	path := store.Path(written.ID)
	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"status":    "created",
			"path":      path,
			"changeset": written,
		})
	}

	if !store.Initialized() {
		printer.Warn("%s has no config.json; run 'changeset init' before versioning", store.Dir)
	}
	printer.Success("Created %s", relativeTo(proj.root, path))
	return nil
}

// buildChangeset assembles a changeset from flags, prompting for anything
// missing when stdin is a terminal.
func buildChangeset(cmd *cobra.Command, printer *output.Printer, root string, flags *changesetAddFlags) (changeset.Changeset, error) {
	if flags.empty {
		if len(flags.packages) > 0 || flags.bump != "" {
			return changeset.Changeset{}, output.NewUserError("--empty cannot be combined with --package or --bump")
		}
		return changeset.Changeset{ID: flags.id, Summary: flags.summary}, nil
	}

	packages := flags.packages
	if len(packages) == 0 {
		if name, err := changeset.PackageName(root); err == nil {
			packages = []string{name}
		}
	}

	bump, summary := flags.bump, flags.summary
	if len(packages) == 0 || bump == "" || strings.TrimSpace(summary) == "" {
		if printer.IsJSON() || !stdinIsTTY(cmd) {
			return changeset.Changeset{}, output.NewUserError(missingChangesetFlags(packages, bump, summary))
		}
		var err error
		packages, bump, summary, err = promptChangeset(packages, bump, summary)
		if err != nil {
			return changeset.Changeset{}, err
		}
	}

	level, err := changeset.ParseBump(bump)
	if err != nil {
		return changeset.Changeset{}, output.NewUserError(err.Error())
	}

	cs := changeset.Changeset{ID: flags.id, Summary: strings.TrimSpace(summary)}
	for _, pkg := range packages {
		cs.Releases = append(cs.Releases, changeset.Release{Package: strings.TrimSpace(pkg), Bump: level})
	}
	return cs, nil
}

// missingChangesetFlags names the flags a non-interactive run still needs.
func missingChangesetFlags(packages []string, bump, summary string) string {
	var missing []string
	if len(packages) == 0 {
		missing = append(missing, "--package (no name in package.json)")
	}
	if bump == "" {
		missing = append(missing, "--bump")
	}
	if strings.TrimSpace(summary) == "" {
		missing = append(missing, "--summary")
	}
	return "missing required flags: " + strings.Join(missing, ", ") + " (or use --empty)"
}

// promptChangeset asks for the fields that flags did not provide.
func promptChangeset(packages []string, bump, summary string) ([]string, string, string, error) {
	pkgInput := strings.Join(packages, ", ")
	if bump == "" {
		bump = string(changeset.Patch)
	}

	bumpOptions := make([]huh.Option[string], 0, len(changeset.Bumps()))
	for _, b := range changeset.Bumps() {
		bumpOptions = append(bumpOptions, huh.NewOption(string(b), string(b)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Packages").
				Description("Comma-separated package names").
				Value(&pkgInput).
				Validate(func(s string) error {
					if len(splitPackages(s)) == 0 {
						return fmt.Errorf("at least one package is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Bump").
				Options(bumpOptions...).
				Value(&bump),
			huh.NewText().
				Title("Summary").
				Value(&summary).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("summary is required")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		return nil, "", "", output.NewUserError("changeset canceled: " + err.Error())
	}
	return splitPackages(pkgInput), bump, summary, nil
}

func splitPackages(s string) []string {
	var packages []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			packages = append(packages, p)
		}
	}
	return packages
}

// stdinIsTTY reports whether the command reads from a terminal.
func stdinIsTTY(cmd *cobra.Command) bool {
	file, ok := cmd.InOrStdin().(*os.File)
	return ok && output.IsTTY(file)
}

func newChangesetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending changesets",
		Args:  cobra.NoArgs,
		RunE:  runChangesetList,
	}
}

func runChangesetList(cmd *cobra.Command, _ []string) error {
	printer := newPrinter(cmd)

	proj, err := loadProject(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	store := changeset.NewStore(proj.root, proj.settings.ChangesetDir)
	changesets, invalid, err := store.List()
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		if changesets == nil {
			changesets = []changeset.Changeset{}
		}
		return printer.WriteJSON(map[string]any{
			"dir":        store.Dir,
			"changesets": changesets,
			"releases":   changeset.Aggregate(changesets),
			"invalid":    invalid,
		})
	}

	for _, fe := range invalid {
		printer.Warn("%s: %s", fe.ID, fe.Err)
	}
	if len(changesets) == 0 {
		printer.Println("No pending changesets.")
		return nil
	}

	rows := make([][]string, 0, len(changesets))
	for _, cs := range changesets {
		rows = append(rows, []string{cs.ID, describeReleases(cs.Releases), firstLine(cs.Summary)})
	}
	printer.Table([]string{"ID", "RELEASES", "SUMMARY"}, rows)

	printer.Section("Releases")
	for _, r := range changeset.Aggregate(changesets) {
		printer.KeyValue(r.Package, string(r.Bump))
	}
	return nil
}

func newChangesetCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate every changeset file",
		Long: `Parse and validate every changeset file. Exits 1 if any file is invalid.

Examples:
  devrig changeset check
  devrig changeset check --json`,
		Args: cobra.NoArgs,
		RunE: runChangesetCheck,
	}
}

func runChangesetCheck(cmd *cobra.Command, _ []string) error {
	printer := newPrinter(cmd)

	proj, err := loadProject(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	store := changeset.NewStore(proj.root, proj.settings.ChangesetDir)
	changesets, invalid, err := store.List()
	if err != nil {
		printer.Error(err)
		return err
	}

	var checkErr error
	if len(invalid) > 0 {
		checkErr = output.UserErrorf("%d invalid changeset(s)", len(invalid))
	}

	if printer.IsJSON() {
		if invalid == nil {
			invalid = []changeset.FileError{}
		}
		if err := printer.WriteJSON(map[string]any{
			"valid":   len(changesets),
			"invalid": invalid,
		}); err != nil {
			return err
		}
		return checkErr
	}

	for _, fe := range invalid {
		printer.Warn("%s: %s", fe.ID, fe.Err)
	}
	if checkErr != nil {
		printer.Error(checkErr)
		return checkErr
	}
	printer.Success("%d changeset(s) valid", len(changesets))
	return nil
}

func describeReleases(releases []changeset.Release) string {
	if len(releases) == 0 {
		return "(empty)"
	}
	parts := make([]string, 0, len(releases))
	for _, r := range releases {
		parts = append(parts, r.Package+"@"+string(r.Bump))
	}
	return strings.Join(parts, ", ")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
