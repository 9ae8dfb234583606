// Package output renders devrig results for people and for programs.
//
// Every command writes through a Printer. In human mode the Printer styles
// text with lipgloss and turns color off when stdout is not a terminal. In
// JSON mode it writes one indented document per call:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonFlag, output.IsTTY(cmd.OutOrStdout()))
//	printer.KeyValue("Package manager", "pnpm")
//	printer.Step(1, "Install dependencies", "pnpm install", false)
//	printer.Error(err) // {"error": "...", "code": N}
//
// # Exit Codes
//
//	output.ExitSuccess     // 0
//	output.ExitUserError   // 1: bad flags, unknown plan, invalid changeset
//	output.ExitSystemError // 2: tool missing, subprocess failed, I/O error
//	output.ExitConflict    // 3: changeset already exists, hooks out of sync
//
// Errors built with NewUserError, NewSystemError and NewConflictError carry
// their code through wrapping, and GetExitCode recovers it at the top level.
package output
