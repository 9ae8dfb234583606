// Package toolchain turns a detected environment into concrete commands
// for the package manager and hook system it names.
package toolchain

import (
	"slices"

	shellquote "github.com/kballard/go-shellquote"
)

// Command is an executable plus its arguments. It is never passed through a shell.
type Command struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
}

// NewCommand builds a Command from an executable and arguments.
func NewCommand(name string, args ...string) Command {
	return Command{Name: name, Args: slices.Clone(args)}
}

// Argv returns the full argument vector including the executable.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command as a copy-pasteable shell line.
func (c Command) String() string {
	return shellquote.Join(c.Argv()...)
}

// IsZero reports whether c names no executable.
func (c Command) IsZero() bool {
	return c.Name == ""
}
