// Package git provides Git operations via exec for the devrig CLI.
//
// Helpers shell out to the git executable and turn failures into
// output.ExitError values. Each takes the directory to run in rather than
// relying on the process working directory:
//
//	git.IsRepo(dir)         // Check if dir is inside a git repository
//	git.RepoRoot(dir)       // Get the repository top-level directory
//	git.CurrentBranch(dir)  // Get the current branch name
//	git.HooksDir(dir)       // Get the hooks directory (honors core.hooksPath)
//	git.ProjectRoot(flag)   // Resolve the directory devrig operates on
//
// # Error Handling
//
// A bad --dir is a user error (exit 1). A missing git binary or a failed git
// command is a system error (exit 2).
package git
