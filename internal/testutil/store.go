// store.go - Storage test doubles
package testutil

import (
	"errors"
	"io"

	"github.com/lanshare/backend/internal/models"
	"github.com/lanshare/backend/internal/storage"
)

// ErrInjected is the error every failing FlakyStore operation returns.
var ErrInjected = errors.New("injected storage failure")

// FlakyStore wraps a real Store and fails selected operations, for testing
// the IOError handling path.
type FlakyStore struct {
	storage.Store

	FailSave   bool
	FailList   bool
	FailRemove bool
}

// NewFlakyStore wraps an existing store.
func NewFlakyStore(inner storage.Store) *FlakyStore {
	return &FlakyStore{Store: inner}
}

func (s *FlakyStore) Save(name string, vis models.Visibility, r io.Reader) (*models.FileEntry, error) {
	if s.FailSave {
		return nil, ErrInjected
	}
	return s.Store.Save(name, vis, r)
}

func (s *FlakyStore) List(vis models.Visibility) ([]*models.FileEntry, error) {
	if s.FailList {
		return nil, ErrInjected
	}
	return s.Store.List(vis)
}

func (s *FlakyStore) Remove(name string, vis models.Visibility) error {
	if s.FailRemove {
		return ErrInjected
	}
	return s.Store.Remove(name, vis)
}

var _ storage.Store = (*FlakyStore)(nil)
