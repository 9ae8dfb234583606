package output

import (
	"os"
	"strings"
)

// Values accepted by --color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ParseColorMode validates a --color value. Empty means ColorAuto.
func ParseColorMode(mode string) (string, error) {
	switch m := strings.ToLower(strings.TrimSpace(mode)); m {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", UserErrorf("invalid --color %q (want auto, always, or never)", mode)
	}
}

// ResolveColorMode reports whether output should be styled. "always" and
// "never" are absolute. "auto" follows isTTY unless NO_COLOR is set to a
// non-empty value.
func ResolveColorMode(mode string, isTTY bool) bool {
	switch mode {
	case ColorNever:
		return false
	case ColorAlways:
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTTY
}

// IsTTY reports whether w is a character device, which for stdout and stdin
// means a terminal. Buffers, pipes, and regular files are not.
func IsTTY(w any) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
