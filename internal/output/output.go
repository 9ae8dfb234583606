package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Printer writes command results either as indented JSON or as styled text.
// Human-mode errors and warnings go to a separate writer so stdout stays
// pipeable.
type Printer struct {
	out    io.Writer
	diag   io.Writer
	json   bool
	color  bool
	styles *Styles
}

// Styles is the palette a Printer renders human output with.
type Styles struct {
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Bold    lipgloss.Style
	Dim     lipgloss.Style
	Title   lipgloss.Style
	Key     lipgloss.Style
	Command lipgloss.Style
}

func newStyles(color bool) *Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return &Styles{plain, plain, plain, plain, plain, plain, plain, plain}
	}
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return &Styles{
		Error:   fg("9").Bold(true),
		Success: fg("10"),
		Warning: fg("11"),
		Bold:    lipgloss.NewStyle().Bold(true),
		Dim:     fg("8"),
		Title:   fg("12").Bold(true),
		Key:     fg("14"),
		Command: fg("13"),
	}
}

// NewPrinter returns a Printer writing everything to w. Call WithStderr to
// split human diagnostics onto another writer.
func NewPrinter(w io.Writer, jsonMode, color bool) *Printer {
	return &Printer{
		out:    w,
		diag:   w,
		json:   jsonMode,
		color:  color,
		styles: newStyles(color),
	}
}

// WithStderr routes human-mode errors and warnings to w. JSON errors always
// go to the main writer.
func (p *Printer) WithStderr(w io.Writer) *Printer {
	p.diag = w
	return p
}

// IsJSON reports whether the printer emits JSON.
func (p *Printer) IsJSON() bool { return p.json }

// Colored reports whether human output is styled.
func (p *Printer) Colored() bool { return p.color }

// Success prints a confirmation line in human mode. JSON callers report their
// own payload, so it writes nothing there.
func (p *Printer) Success(format string, args ...any) {
	if p.json {
		return
	}
	p.line(p.out, p.styles.Success.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Error reports err. Errors that carry no ExitError are reported as user
// errors. JSON mode writes {"error": ..., "code": ...} to the main writer.
func (p *Printer) Error(err error) {
	code, msg := ExitUserError, err.Error()
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		code, msg = exitErr.Code, exitErr.Message
	}

	if p.json {
		data, _ := json.Marshal(map[string]any{"error": msg, "code": code})
		p.line(p.out, string(data))
		return
	}
	p.line(p.diag, p.styles.Error.Render("Error")+": "+msg)
}

// Warn reports a non-fatal problem.
func (p *Printer) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.json {
		_ = p.WriteJSON(map[string]any{"warning": msg})
		return
	}
	p.line(p.diag, p.styles.Warning.Render("Warning")+": "+msg)
}

// Warnings prints each warning in human mode and nothing in JSON mode, where
// callers embed them in their payload.
func (p *Printer) Warnings(warnings []string) {
	if p.json {
		return
	}
	for _, w := range warnings {
		p.Warn("%s", w)
	}
}

// Print writes formatted text with no trailing newline.
func (p *Printer) Print(format string, args ...any) {
	mustWrite(fmt.Fprintf(p.out, format, args...))
}

// Println writes its operands followed by a newline.
func (p *Printer) Println(args ...any) {
	mustWrite(fmt.Fprintln(p.out, args...))
}

// WriteJSON writes v as indented JSON.
func (p *Printer) WriteJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// Section starts a titled block: a blank line, the title, and a rule.
func (p *Printer) Section(title string) {
	p.line(p.out, "")
	p.line(p.out, p.styles.Title.Render(title))
	p.line(p.out, p.styles.Dim.Render(strings.Repeat("─", lipgloss.Width(title))))
}

// KeyValue prints "key: value" with the key styled.
func (p *Printer) KeyValue(key, value string) {
	p.line(p.out, p.styles.Key.Render(key+":")+" "+value)
}

// Step prints a numbered plan step and, indented under it, its command.
func (p *Printer) Step(index int, title, command string, optional bool) {
	if optional {
		title += p.styles.Dim.Render(" (optional)")
	}
	p.line(p.out, fmt.Sprintf("%2d. %s", index, title))
	p.line(p.out, "    "+p.styles.Dim.Render("$")+" "+p.styles.Command.Render(command))
}

// Command prints a single shell command line.
func (p *Printer) Command(command string) {
	p.line(p.out, p.styles.Command.Render(command))
}

// Table renders rows under bold headers in space-separated, unbordered
// columns sized to their widest cell.
func (p *Printer) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	last := len(headers) - 1
	t := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle()
			if row == table.HeaderRow {
				style = p.styles.Bold
			}
			if col < last {
				style = style.PaddingRight(2)
			}
			return style
		})

	p.line(p.out, t.Render())
}

func (p *Printer) line(w io.Writer, s string) {
	mustWrite(fmt.Fprintln(w, s))
}

// mustWrite panics on a failed write. Output goes to stdout, stderr, or an
// in-memory buffer, none of which the CLI can recover from losing.
func mustWrite(_ int, err error) {
	if err != nil {
		panic(fmt.Sprintf("write failed: %v", err))
	}
}
