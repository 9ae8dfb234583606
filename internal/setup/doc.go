// Package setup inspects the git hooks installed in a repository and
// compares them with the hook system detected from marker files.
//
// It answers "is lefthook (or pre-commit) actually wired into git?" without
// running either tool. Hook scripts are classified by their content:
//
//	report := setup.CheckHooks(hooksDir, env.HookSystem)
//	report.Installed               // primary hook written by the detected system
//	report.Mismatch                // a different framework owns a hook
//	setup.DescribeHookState(report)
package setup
