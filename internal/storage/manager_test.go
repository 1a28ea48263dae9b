package storage

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lanshare/backend/internal/models"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	return store
}

func TestNewLocalStoreCreatesZones(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "store")

	store, err := NewLocalStore(root)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	for _, p := range []string{root, store.PublicDir()} {
		st, err := os.Stat(p)
		if err != nil || !st.IsDir() {
			t.Errorf("expected directory at %s", p)
		}
	}
}

func TestSaveAndList(t *testing.T) {
	tests := []struct {
		name    string
		vis     models.Visibility
		content []byte
		wantURL string
	}{
		{"private file", models.Private, []byte("secret bytes"), "/store/private file"},
		{"report.csv", models.Public, []byte("a,b,c"), "/public/report.csv"},
		{"empty.bin", models.Private, nil, "/store/empty.bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)

			entry, err := store.Save(tt.name, tt.vis, bytes.NewReader(tt.content))
			if err != nil {
				t.Fatalf("Save: %v", err)
			}
			if entry.Size != int64(len(tt.content)) {
				t.Errorf("expected size %d, got %d", len(tt.content), entry.Size)
			}
			if entry.URL != tt.wantURL {
				t.Errorf("expected url %q, got %q", tt.wantURL, entry.URL)
			}
			if entry.IsPublic != (tt.vis == models.Public) {
				t.Errorf("visibility mismatch: got isPublic=%v", entry.IsPublic)
			}

			files, err := store.List(tt.vis)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(files) != 1 {
				t.Fatalf("expected 1 file, got %d", len(files))
			}
			if files[0].Name != tt.name || files[0].Size != entry.Size {
				t.Errorf("listing mismatch: %+v", files[0])
			}
		})
	}
}

func TestSaveOverwritesSameName(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save("doc.txt", models.Private, strings.NewReader("first version")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entry, err := store.Save("doc.txt", models.Private, strings.NewReader("v2"))
	if err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	if entry.Size != 2 {
		t.Errorf("expected overwritten size 2, got %d", entry.Size)
	}

	files, _ := store.List(models.Private)
	if len(files) != 1 {
		t.Fatalf("expected 1 file after overwrite, got %d", len(files))
	}
	if files[0].Size != 2 {
		t.Errorf("listing shows stale size %d", files[0].Size)
	}
}

func TestSaveCleansTraversalNames(t *testing.T) {
	store := newTestStore(t)

	entry, err := store.Save("../../etc/passwd", models.Private, strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if entry.Name != "passwd" {
		t.Errorf("expected base name, got %q", entry.Name)
	}
	if _, err := os.Stat(store.Path("passwd", models.Private)); err != nil {
		t.Errorf("file not stored inside the zone: %v", err)
	}
}

func TestPrivateListingExcludesPublicDir(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save("inner.txt", models.Public, strings.NewReader("pub")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Save("mine.txt", models.Private, strings.NewReader("priv")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	private, err := store.List(models.Private)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(private) != 1 || private[0].Name != "mine.txt" {
		t.Errorf("private listing should contain only mine.txt, got %+v", private)
	}
}

func TestOpenRoundTrip(t *testing.T) {
	store := newTestStore(t)
	content := bytes.Repeat([]byte{0xAB, 0x01, 0xFF}, 1000)

	if _, err := store.Save("blob.bin", models.Private, bytes.NewReader(content)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	f, err := store.Open("blob.bin", models.Private)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	got, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Error("read content differs from written content")
	}
}

func TestOpenMissing(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Open("ghost.txt", models.Private); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	// The nested public dir must not be openable as a private file.
	if _, err := store.Open("public", models.Private); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound opening zone dir, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save("gone.txt", models.Public, strings.NewReader("bye")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Remove("gone.txt", models.Public); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	files, _ := store.List(models.Public)
	if len(files) != 0 {
		t.Errorf("expected empty listing after remove, got %d entries", len(files))
	}

	// Idempotent: repeat reports not-found with no other side effects.
	if err := store.Remove("gone.txt", models.Public); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestStat(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Stat("nope", models.Private); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := store.Save("here.txt", models.Private, strings.NewReader("data")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entry, err := store.Stat("here.txt", models.Private)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if entry.Size != 4 || entry.IsPublic {
		t.Errorf("unexpected stat entry: %+v", entry)
	}
}
