package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestPrinter_Success(t *testing.T) {
	var human bytes.Buffer
	NewPrinter(&human, false, false).Success("%d changeset(s) valid", 3)
	if want := "✓ 3 changeset(s) valid\n"; human.String() != want {
		t.Errorf("human output = %q, want %q", human.String(), want)
	}

	var js bytes.Buffer
	NewPrinter(&js, true, false).Success("ignored")
	if js.Len() != 0 {
		t.Errorf("JSON printer should leave success to the payload, got %q", js.String())
	}
}

func TestPrinter_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"user error", NewUserError("unknown plan: deploy"), ExitUserError, "unknown plan: deploy"},
		{"system error", NewSystemError("bun not found"), ExitSystemError, "bun not found"},
		{"untyped error", errors.New("boom"), ExitUserError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name+" json", func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf, true, false).Error(tt.err)

			var result map[string]any
			if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
				t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, buf.String())
			}
			if result["error"] != tt.wantMsg {
				t.Errorf("error = %v, want %q", result["error"], tt.wantMsg)
			}
			if code, ok := result["code"].(float64); !ok || int(code) != tt.wantCode {
				t.Errorf("code = %v, want %d", result["code"], tt.wantCode)
			}
		})

		t.Run(tt.name+" human", func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf, false, false).Error(tt.err)

			if want := "Error: " + tt.wantMsg + "\n"; buf.String() != want {
				t.Errorf("output = %q, want %q", buf.String(), want)
			}
		})
	}
}

func TestPrinter_WithStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	printer := NewPrinter(&stdout, false, false).WithStderr(&stderr)

	printer.Warn("%d conflicts", 2)
	printer.Error(NewUserError("bad"))

	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Warning: 2 conflicts") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestPrinter_Warnings(t *testing.T) {
	warnings := []string{"found yarn.lock, using pnpm", "found bun.lock, using pnpm"}

	var human bytes.Buffer
	NewPrinter(&human, false, false).Warnings(warnings)
	if got := strings.Count(human.String(), "Warning:"); got != 2 {
		t.Errorf("human output has %d warnings, want 2: %q", got, human.String())
	}

	var js bytes.Buffer
	NewPrinter(&js, true, false).Warnings(warnings)
	if js.Len() != 0 {
		t.Errorf("JSON printer should leave warnings to the payload, got %q", js.String())
	}
}

func TestPrinter_Warn_JSON(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, true, false).Warn("dirty tree")

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, buf.String())
	}
	if result["warning"] != "dirty tree" {
		t.Errorf("warning = %v, want %q", result["warning"], "dirty tree")
	}
}

func TestPrinter_Step(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.Step(1, "Install dependencies", "pnpm install", false)
	printer.Step(2, "Apply ruler", "pnpm run ruler:apply", true)

	want := " 1. Install dependencies\n" +
		"    $ pnpm install\n" +
		" 2. Apply ruler (optional)\n" +
		"    $ pnpm run ruler:apply\n"
	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestPrinter_KeyValueAndSection(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.Section("Toolchain")
	printer.KeyValue("Package manager", "bun")

	want := "\nToolchain\n─────────\nPackage manager: bun\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.Table([]string{"ID", "BUMP"}, [][]string{
		{"brave-otter-runs", "minor"},
		{"x", "patch"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), buf.String())
	}
	col := len("brave-otter-runs") + 2
	for i, line := range lines {
		if len(line) < col || line[col-2:col] != "  " {
			t.Errorf("line %d = %q, second column should start at %d", i, line, col)
		}
	}
	if !strings.HasSuffix(lines[2], "  patch") {
		t.Errorf("row = %q", lines[2])
	}
}

func TestPrinter_PrintAndPrintln(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.Print("%s install", "npm")
	printer.Println()

	if buf.String() != "npm install\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrinter_IsJSON(t *testing.T) {
	var buf bytes.Buffer
	if !NewPrinter(&buf, true, false).IsJSON() {
		t.Error("IsJSON() should return true for JSON printer")
	}
	if NewPrinter(&buf, false, false).IsJSON() {
		t.Error("IsJSON() should return false for human printer")
	}
}
