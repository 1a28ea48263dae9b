// Package access implements the in-memory access-code registry for
// private files. Codes are stored only as salted Argon2id digests and are
// never recoverable in plaintext. The registry is deliberately not
// persisted: entries die with the process.
package access

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"sync"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (tuned for short shared secrets on a LAN server).
const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 2
	argonKeyLen  uint32 = 32
	saltLen             = 16
)

type entry struct {
	salt   []byte
	digest []byte
}

// Registry maps stored filenames to hashed access codes. Concurrent writers
// to the same filename race with last-write-wins semantics; the mutex only
// keeps the map itself coherent.
type Registry struct {
	mu    sync.RWMutex
	codes map[string]entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{codes: make(map[string]entry)}
}

func hashCode(code string, salt []byte) []byte {
	return argon2.IDKey([]byte(code), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// SetCode hashes the code and stores it keyed by filename, overwriting any
// prior entry for that name.
func (r *Registry) SetCode(name, code string) error {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("generating salt: %w", err)
	}

	e := entry{salt: salt, digest: hashCode(code, salt)}

	r.mu.Lock()
	r.codes[name] = e
	r.mu.Unlock()
	return nil
}

// Verify recomputes the digest of the candidate code and compares it to the
// stored value in constant time. Returns false if no entry exists.
func (r *Registry) Verify(name, candidate string) bool {
	r.mu.RLock()
	e, ok := r.codes[name]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	got := hashCode(candidate, e.salt)
	return subtle.ConstantTimeCompare(got, e.digest) == 1
}

// Has reports whether an access code is registered for the name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.codes[name]
	return ok
}

// Clear removes the entry for a name. Safe to call when none exists.
func (r *Registry) Clear(name string) {
	r.mu.Lock()
	delete(r.codes, name)
	r.mu.Unlock()
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.codes)
}
