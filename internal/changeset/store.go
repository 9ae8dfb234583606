package changeset

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/gorewood/devrig/internal/output"
	"github.com/gorewood/devrig/internal/toolchain"
)

// DefaultDir is the changeset directory relative to the project root.
const DefaultDir = ".changeset"

// idPattern limits IDs to safe file names.
var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,99}$`)

// Store reads and writes changeset files in a directory.
type Store struct {
	Dir string
}

// NewStore returns a Store for dir under root. An empty dir uses DefaultDir.
// A relative dir is resolved inside root: ".." and symlinks cannot carry it
// out of the project. An absolute dir is used as given.
func NewStore(root, dir string) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	if filepath.IsAbs(dir) {
		return &Store{Dir: dir}
	}
	joined, err := securejoin.SecureJoin(root, dir)
	if err != nil {
		joined = filepath.Join(root, filepath.Clean("/"+dir))
	}
	return &Store{Dir: joined}
}

// Initialized reports whether the directory exists and has a config.json,
// which the changesets CLI writes on init.
func (s *Store) Initialized() bool {
	info, err := os.Stat(filepath.Join(s.Dir, "config.json"))
	return err == nil && !info.IsDir()
}

// Add writes cs to the store. A missing ID is generated. Writing over an
// existing file is a conflict.
func (s *Store) Add(cs Changeset) (Changeset, error) {
	if err := Validate(cs); err != nil {
		return Changeset{}, output.NewUserError(err.Error())
	}

	if cs.ID != "" && !idPattern.MatchString(cs.ID) {
		return Changeset{}, output.UserErrorf("invalid changeset id %q", cs.ID)
	}

	if err := os.MkdirAll(s.Dir, 0o750); err != nil {
		return Changeset{}, output.NewSystemErrorWithCause("failed to create changeset directory", err)
	}

	var (
		file *os.File
		err  error
	)
	if cs.ID != "" {
		file, err = s.create(cs.ID)
		if errors.Is(err, os.ErrExist) {
			return Changeset{}, output.ConflictErrorf("changeset %s already exists", cs.ID)
		}
	} else {
		cs.ID, file, err = s.createUnique()
	}
	if err != nil {
		return Changeset{}, output.NewSystemErrorWithCause("failed to create changeset file", err)
	}
	defer file.Close() //nolint:errcheck // write error is checked below

	if _, err := file.WriteString(Render(cs)); err != nil {
		return Changeset{}, output.NewSystemErrorWithCause("failed to write changeset", err)
	}
	return cs, nil
}

// Load reads a single changeset by ID.
func (s *Store) Load(id string) (Changeset, error) {
	if !idPattern.MatchString(id) {
		return Changeset{}, output.UserErrorf("invalid changeset id %q", id)
	}
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Changeset{}, output.UserErrorf("changeset %s not found", id)
		}
		return Changeset{}, output.NewSystemErrorWithCause("failed to read changeset", err)
	}

	cs, err := Parse(string(data))
	if err != nil {
		return Changeset{}, output.UserErrorf("changeset %s: %v", id, err)
	}
	cs.ID = id
	return cs, nil
}

// FileError is a changeset file that failed to parse.
type FileError struct {
	ID  string `json:"id"`
	Err string `json:"error"`
}

// List reads every changeset in the store, sorted by ID. Files that fail to
// parse are returned separately. A missing directory yields no changesets.
func (s *Store) List() ([]Changeset, []FileError, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, output.NewSystemErrorWithCause("failed to read changeset directory", err)
	}

	var (
		changesets []Changeset
		failures   []FileError
	)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") || strings.EqualFold(name, "README.md") {
			continue
		}

		id := strings.TrimSuffix(name, ".md")
		data, err := os.ReadFile(filepath.Join(s.Dir, name))
		if err != nil {
			failures = append(failures, FileError{ID: id, Err: err.Error()})
			continue
		}
		cs, err := Parse(string(data))
		if err != nil {
			failures = append(failures, FileError{ID: id, Err: err.Error()})
			continue
		}
		cs.ID = id
		changesets = append(changesets, cs)
	}

	return changesets, failures, nil
}

// Path returns the file path for a changeset ID.
func (s *Store) Path(id string) string {
	return filepath.Join(s.Dir, id+".md")
}

// maxIDAttempts bounds the search for a free generated ID.
const maxIDAttempts = 100

// create opens a new file for id, failing with os.ErrExist if it is taken.
func (s *Store) create(id string) (*os.File, error) {
	// #nosec G304 -- path is built from a validated id
	return os.OpenFile(s.Path(id), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
}

// createUnique creates a file under a fresh adjective-animal-verb ID.
func (s *Store) createUnique() (string, *os.File, error) {
	for range maxIDAttempts {
		id := randomID()
		file, err := s.create(id)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		return id, file, err
	}
	return "", nil, fmt.Errorf("no free changeset id after %d attempts", maxIDAttempts)
}

var (
	idAdjectives = []string{
		"brave", "calm", "clever", "eager", "fancy", "gentle", "happy", "honest",
		"lucky", "nice", "proud", "quick", "quiet", "silly", "tidy", "witty",
	}
	idAnimals = []string{
		"bears", "cats", "crabs", "dogs", "eagles", "foxes", "geese", "hawks",
		"lions", "moles", "otters", "owls", "seals", "tigers", "wolves", "yaks",
	}
	idVerbs = []string{
		"build", "climb", "dance", "dream", "fly", "hide", "jump", "laugh",
		"march", "play", "rest", "run", "sing", "swim", "wait", "wink",
	}
)

func randomID() string {
	// #nosec G404 -- IDs only need to be unlikely to collide, not unpredictable
	pick := func(words []string) string { return words[rand.IntN(len(words))] }
	return pick(idAdjectives) + "-" + pick(idAnimals) + "-" + pick(idVerbs)
}

// PackageName reads the "name" field from package.json in root.
func PackageName(root string) (string, error) {
	manifest, err := toolchain.ReadManifest(root)
	if err != nil {
		return "", err
	}
	if manifest.Name == "" {
		return "", errors.New("package.json has no name")
	}
	return manifest.Name, nil
}
