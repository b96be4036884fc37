// Package filesystem routes every disk operation through a swappable afero backend.
//
// Production code uses the OS filesystem; tests switch to an in-memory one so the
// orchestrator, config and cache layers can be exercised without touching disk.
package filesystem

import (
	"sync"

	"github.com/spf13/afero"
)

var (
	mu      sync.RWMutex
	backend = afero.Afero{Fs: afero.NewOsFs()}
)

// API returns the active afero.Afero instance.
func API() afero.Afero {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// SetOsFs restores the native operating system backend.
func SetOsFs() {
	Set(afero.NewOsFs())
}

// SetMemMapFs installs a volatile in-memory backend.
func SetMemMapFs() {
	Set(afero.NewMemMapFs())
}

// Set installs an arbitrary backend, e.g. a read-only or base-path filesystem.
func Set(fs afero.Fs) {
	mu.Lock()
	backend = afero.Afero{Fs: fs}
	mu.Unlock()
}
