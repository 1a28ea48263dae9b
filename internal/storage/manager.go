package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lanshare/backend/internal/models"
)

// ErrNotFound is returned when a named file does not exist in the zone.
var ErrNotFound = errors.New("file not found")

// Store defines the interface for zoned file storage.
type Store interface {
	Save(name string, vis models.Visibility, r io.Reader) (*models.FileEntry, error)
	List(vis models.Visibility) ([]*models.FileEntry, error)
	Remove(name string, vis models.Visibility) error
	Open(name string, vis models.Visibility) (*os.File, error)
	Stat(name string, vis models.Visibility) (*models.FileEntry, error)
	Path(name string, vis models.Visibility) string
	PublicDir() string
}

// LocalStore implements Store using the local filesystem. The root directory
// holds private files directly; public files live in a nested public/
// subdirectory. Filenames are used verbatim as storage keys, so a same-named
// save silently overwrites.
type LocalStore struct {
	rootDir   string
	publicDir string
}

// NewLocalStore creates a LocalStore rooted at storeDir, creating both zone
// directories if absent.
func NewLocalStore(storeDir string) (*LocalStore, error) {
	publicDir := filepath.Join(storeDir, "public")
	for _, dir := range []string{storeDir, publicDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating storage directory: %w", err)
		}
	}

	return &LocalStore{
		rootDir:   storeDir,
		publicDir: publicDir,
	}, nil
}

// PublicDir returns the directory holding public-zone files.
func (s *LocalStore) PublicDir() string {
	return s.publicDir
}

func (s *LocalStore) zoneDir(vis models.Visibility) string {
	if vis == models.Public {
		return s.publicDir
	}
	return s.rootDir
}

// cleanName reduces a client-supplied filename to its base component so the
// storage key can never escape the zone directory.
func cleanName(name string) (string, error) {
	name = filepath.Base(filepath.Clean(strings.TrimSpace(name)))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid filename %q", name)
	}
	return name, nil
}

func urlFor(name string, vis models.Visibility) string {
	if vis == models.Public {
		return "/public/" + name
	}
	return "/store/" + name
}

// Save persists the reader's bytes under the given name in the zone,
// overwriting any existing file. The partial file is removed on write failure.
func (s *LocalStore) Save(name string, vis models.Visibility, r io.Reader) (*models.FileEntry, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(s.zoneDir(vis), name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("closing file: %w", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat after write: %w", err)
	}

	return &models.FileEntry{
		Name:     name,
		Size:     size,
		Modified: st.ModTime(),
		URL:      urlFor(name, vis),
		IsPublic: vis == models.Public,
	}, nil
}

// List enumerates the regular files in a zone. Directories are skipped, which
// keeps the nested public/ directory out of private-zone listings. Order is
// unspecified; callers impose their own.
func (s *LocalStore) List(vis models.Visibility) ([]*models.FileEntry, error) {
	entries, err := os.ReadDir(s.zoneDir(vis))
	if err != nil {
		return nil, fmt.Errorf("reading zone directory: %w", err)
	}

	files := make([]*models.FileEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, &models.FileEntry{
			Name:     e.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
			URL:      urlFor(e.Name(), vis),
			IsPublic: vis == models.Public,
		})
	}

	return files, nil
}

// Remove deletes a file from the zone. Returns ErrNotFound if absent.
func (s *LocalStore) Remove(name string, vis models.Visibility) error {
	name, err := cleanName(name)
	if err != nil {
		return ErrNotFound
	}

	path := filepath.Join(s.zoneDir(vis), name)
	st, err := os.Stat(path)
	if err != nil || !st.Mode().IsRegular() {
		return ErrNotFound
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}

// Open returns a readable handle on a stored file, or ErrNotFound.
func (s *LocalStore) Open(name string, vis models.Visibility) (*os.File, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, ErrNotFound
	}

	path := filepath.Join(s.zoneDir(vis), name)
	st, err := os.Stat(path)
	if err != nil || !st.Mode().IsRegular() {
		return nil, ErrNotFound
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return f, nil
}

// Stat returns metadata for a single stored file, or ErrNotFound.
func (s *LocalStore) Stat(name string, vis models.Visibility) (*models.FileEntry, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, ErrNotFound
	}

	path := filepath.Join(s.zoneDir(vis), name)
	st, err := os.Stat(path)
	if err != nil || !st.Mode().IsRegular() {
		return nil, ErrNotFound
	}

	return &models.FileEntry{
		Name:     name,
		Size:     st.Size(),
		Modified: st.ModTime(),
		URL:      urlFor(name, vis),
		IsPublic: vis == models.Public,
	}, nil
}

// Path returns the filesystem path a name maps to within the zone. The file
// may or may not exist.
func (s *LocalStore) Path(name string, vis models.Visibility) string {
	cleaned, err := cleanName(name)
	if err != nil {
		return ""
	}
	return filepath.Join(s.zoneDir(vis), cleaned)
}
