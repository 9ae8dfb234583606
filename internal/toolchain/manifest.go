package toolchain

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// ManifestFile is the package manifest name.
const ManifestFile = "package.json"

// Manifest is the subset of package.json devrig reads.
type Manifest struct {
	Name    string            `json:"name"`
	Scripts map[string]string `json:"scripts"`
}

// ReadManifest reads package.json from root.
func ReadManifest(root string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(root, ManifestFile))
	if err != nil {
		return Manifest{}, fmt.Errorf("reading %s: %w", ManifestFile, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing %s: %w", ManifestFile, err)
	}
	return m, nil
}

// MissingScripts returns the names in scripts that the manifest does not define, in order.
func (m Manifest) MissingScripts(scripts ...string) []string {
	var missing []string
	for _, s := range scripts {
		if _, ok := m.Scripts[s]; !ok && !slices.Contains(missing, s) {
			missing = append(missing, s)
		}
	}
	return missing
}
