package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/gorewood/devrig/internal/changeset"
	"github.com/gorewood/devrig/internal/detect"
	"github.com/gorewood/devrig/internal/logging"
	"github.com/gorewood/devrig/internal/output"
)

// ProjectFiles are the project config file names, checked in order.
var ProjectFiles = []string{"devrig.toml", ".devrig.toml"}

// Environment variables that override detection.
const (
	EnvPackageManager = "DEVRIG_PACKAGE_MANAGER"
	EnvHookSystem     = "DEVRIG_HOOK_SYSTEM"
)

// File is the on-disk TOML config shape shared by project and global files.
type File struct {
	Tools     ToolsSection     `toml:"tools"`
	Changeset ChangesetSection `toml:"changeset"`
}

// ToolsSection pins tool choices.
type ToolsSection struct {
	PackageManager string `toml:"package_manager"`
	HookSystem     string `toml:"hook_system"`
}

// ChangesetSection configures changeset storage.
type ChangesetSection struct {
	Dir string `toml:"dir"`
}

// LoadFile decodes a TOML config file. found is false when the file does not
// exist, which is not an error.
func LoadFile(path string) (file File, found bool, err error) {
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return File{}, false, nil
		}
		return File{}, false, output.UserErrorf("invalid config %s: %v", path, err)
	}

	for _, key := range md.Undecoded() {
		logging.Warn("unknown config key", "file", path, "key", key.String())
	}
	return file, true, nil
}

// FindProjectFile returns the first project config file present in root, or "".
func FindProjectFile(root string) string {
	for _, name := range ProjectFiles {
		path := filepath.Join(root, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Flags holds tool overrides passed on the command line.
type Flags struct {
	PackageManager string
	HookSystem     string
}

// Settings is the merged configuration for one project root.
type Settings struct {
	Overrides detect.Overrides `json:"-"`

	// PackageManagerOrigin and HookSystemOrigin name the source of each
	// override ("flag", "env DEVRIG_...", or a config file path). Empty when
	// the choice is left to detection.
	PackageManagerOrigin string `json:"package_manager_origin,omitempty"`
	HookSystemOrigin     string `json:"hook_system_origin,omitempty"`

	ChangesetDir string   `json:"changeset_dir"`
	Files        []string `json:"files,omitempty"`
}

// Resolve merges configuration for root. Precedence, highest first: flags,
// environment variables, the project file, the global file. Invalid tool
// names are user errors naming their source.
func Resolve(root string, flags Flags) (Settings, error) {
	var settings Settings
	layers := make([]layer, 0, 4)

	if path := GlobalFile(); path != "" {
		file, found, err := LoadFile(path)
		if err != nil {
			return Settings{}, err
		}
		if found {
			settings.Files = append(settings.Files, path)
			layers = append(layers, fileLayer(path, file))
		}
	}

	if path := FindProjectFile(root); path != "" {
		file, found, err := LoadFile(path)
		if err != nil {
			return Settings{}, err
		}
		if found {
			settings.Files = append(settings.Files, path)
			layers = append(layers, fileLayer(path, file))
		}
	}

	layers = append(layers,
		layer{
			packageManager:       os.Getenv(EnvPackageManager),
			packageManagerOrigin: "env " + EnvPackageManager,
			hookSystem:           os.Getenv(EnvHookSystem),
			hookSystemOrigin:     "env " + EnvHookSystem,
		},
		layer{
			packageManager:       flags.PackageManager,
			packageManagerOrigin: "flag --package-manager",
			hookSystem:           flags.HookSystem,
			hookSystemOrigin:     "flag --hook-system",
		},
	)

	for _, l := range layers {
		if err := l.apply(&settings); err != nil {
			return Settings{}, err
		}
	}

	if settings.ChangesetDir == "" {
		settings.ChangesetDir = changeset.DefaultDir
	}

	logging.Debug("resolved config",
		"root", root,
		"package_manager", settings.Overrides.PackageManager,
		"package_manager_origin", settings.PackageManagerOrigin,
		"hook_system", settings.Overrides.HookSystem,
		"hook_system_origin", settings.HookSystemOrigin,
		"files", settings.Files,
	)
	return settings, nil
}

// layer is one precedence level of raw override values.
type layer struct {
	packageManager       string
	packageManagerOrigin string
	hookSystem           string
	hookSystemOrigin     string
	changesetDir         string
}

func fileLayer(path string, file File) layer {
	return layer{
		packageManager:       file.Tools.PackageManager,
		packageManagerOrigin: path,
		hookSystem:           file.Tools.HookSystem,
		hookSystemOrigin:     path,
		changesetDir:         file.Changeset.Dir,
	}
}

// apply validates and copies non-empty values onto settings.
func (l layer) apply(settings *Settings) error {
	if l.packageManager != "" {
		pm, err := detect.ParsePackageManager(l.packageManager)
		if err != nil {
			return output.UserErrorf("%s: %v", l.packageManagerOrigin, err)
		}
		settings.Overrides.PackageManager = pm
		settings.PackageManagerOrigin = l.packageManagerOrigin
	}
	if l.hookSystem != "" {
		hs, err := detect.ParseHookSystem(l.hookSystem)
		if err != nil {
			return output.UserErrorf("%s: %v", l.hookSystemOrigin, err)
		}
		settings.Overrides.HookSystem = hs
		settings.HookSystemOrigin = l.hookSystemOrigin
	}
	if l.changesetDir != "" {
		settings.ChangesetDir = l.changesetDir
	}
	return nil
}

// Load resolves settings for root and detects its environment with the
// resulting overrides applied.
func Load(root string, flags Flags) (Settings, detect.Environment, error) {
	settings, err := Resolve(root, flags)
	if err != nil {
		return Settings{}, detect.Environment{}, err
	}
	return settings, detect.Detect(root, settings.Overrides), nil
}
