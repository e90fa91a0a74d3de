// Package filesystem is the file capability of a console: bundled files
// from the content manifest overlaid with the user's saved edits.
package filesystem

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cristianoliveira/questterm/internal/content"
	"github.com/cristianoliveira/questterm/internal/logging"
)

// FileSystem is consumed by the console and its commands. Files are looked
// up by base name (name plus extension).
type FileSystem interface {
	Init(files map[string]content.File)
	GetFile(name string) (*content.File, bool)
	ListFiles() []content.File
	SaveFile(name, data string) error
}

// Store persists overrides of bundled file content.
type Store interface {
	Find(name string) (string, bool, error)
	Save(name, content string) error
	Delete(name string) error
}

// Overlay serves bundled files, replacing their content with an override
// from Store when one exists.
type Overlay struct {
	mu     sync.RWMutex
	files  map[string]content.File
	store  Store
	logger logging.Logger
}

var _ FileSystem = (*Overlay)(nil)

// NewOverlay creates an empty overlay on store.
func NewOverlay(store Store, logger logging.Logger) *Overlay {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Overlay{files: map[string]content.File{}, store: store, logger: logger}
}

// Init replaces the bundled file set.
func (o *Overlay) Init(files map[string]content.File) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.files = make(map[string]content.File, len(files))
	for name, f := range files {
		o.files[name] = f
	}
}

// GetFile returns a copy of the named file with any saved override applied.
func (o *Overlay) GetFile(name string) (*content.File, bool) {
	o.mu.RLock()
	f, ok := o.files[name]
	o.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if override, found, err := o.store.Find(name); err != nil {
		o.logger.Warn("reading file override failed", "file", name, "error", err)
	} else if found {
		f.Content = override
	}
	return &f, true
}

// ListFiles returns every file sorted by base name.
func (o *Overlay) ListFiles() []content.File {
	o.mu.RLock()
	names := make([]string, 0, len(o.files))
	for name := range o.files {
		names = append(names, name)
	}
	o.mu.RUnlock()
	sort.Strings(names)

	out := make([]content.File, 0, len(names))
	for _, name := range names {
		if f, ok := o.GetFile(name); ok {
			out = append(out, *f)
		}
	}
	return out
}

// SaveFile stores data as the content of name. Empty data removes the
// override so the bundled content shows again.
func (o *Overlay) SaveFile(name, data string) error {
	o.mu.RLock()
	_, ok := o.files[name]
	o.mu.RUnlock()
	if !ok {
		return fmt.Errorf("save %s: file does not exist", name)
	}

	if data == "" {
		if err := o.store.Delete(name); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
		return nil
	}
	if err := o.store.Save(name, data); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	o.logger.Debug("file saved", "file", name, "bytes", len(data))
	return nil
}
