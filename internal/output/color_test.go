package output

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestResolveColorMode(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	tests := []struct {
		name      string
		colorMode string
		isTTY     bool
		want      bool
	}{
		{name: "never disables on TTY", colorMode: "never", isTTY: true, want: false},
		{name: "never disables on non-TTY", colorMode: "never", isTTY: false, want: false},
		{name: "always enables on TTY", colorMode: "always", isTTY: true, want: true},
		{name: "always enables on non-TTY", colorMode: "always", isTTY: false, want: true},
		{name: "auto uses TTY true", colorMode: "auto", isTTY: true, want: true},
		{name: "auto uses TTY false", colorMode: "auto", isTTY: false, want: false},
		{name: "empty string defaults to auto", colorMode: "", isTTY: true, want: true},
		{name: "unknown value defaults to auto", colorMode: "bogus", isTTY: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveColorMode(tt.colorMode, tt.isTTY)
			if got != tt.want {
				t.Errorf("ResolveColorMode(%q, %v) = %v, want %v", tt.colorMode, tt.isTTY, got, tt.want)
			}
		})
	}
}

func TestResolveColorMode_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if ResolveColorMode(ColorAuto, true) {
		t.Error("NO_COLOR should disable auto color on a TTY")
	}
	if !ResolveColorMode(ColorAlways, false) {
		t.Error("--color always should win over NO_COLOR")
	}
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ColorAuto},
		{in: "auto", want: ColorAuto},
		{in: " Always ", want: ColorAlways},
		{in: "NEVER", want: ColorNever},
		{in: "sometimes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColorMode(tt.in)
			if tt.wantErr {
				if GetExitCode(err) != ExitUserError {
					t.Errorf("ParseColorMode(%q) error = %v, want user error", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseColorMode(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestIsTTY(t *testing.T) {
	var buf bytes.Buffer
	if IsTTY(&buf) {
		t.Error("IsTTY(buffer) should return false")
	}

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTTY(f) {
		t.Error("IsTTY(regular file) should return false")
	}
}

func TestNewPrinter_Palette(t *testing.T) {
	plain := lipgloss.NewStyle().GetForeground()

	for _, mode := range []string{ColorNever, ColorAlways} {
		t.Run(mode, func(t *testing.T) {
			color := ResolveColorMode(mode, mode == ColorNever)
			printer := NewPrinter(&bytes.Buffer{}, false, color)

			if printer.Colored() != (mode == ColorAlways) {
				t.Errorf("Colored() = %v with --color %s", printer.Colored(), mode)
			}
			styled := printer.styles.Error.GetForeground() != plain
			if styled != printer.Colored() {
				t.Errorf("error style has foreground = %v, want %v", styled, printer.Colored())
			}
		})
	}
}

func TestNewPrinter_PlainHasNoEscapes(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, ResolveColorMode(ColorNever, true))

	printer.Error(NewUserError("unknown plan"))
	printer.Step(1, "Install dependencies", "npm install", true)
	printer.Section("Hooks")
	printer.Success("done")

	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("--color never output contains escape codes: %q", buf.String())
	}
}
