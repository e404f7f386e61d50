// Package templates resolves logical template keys to raw template bytes.
//
// Keys are slash-separated paths under a template root, for example
// "rest/src/main/java/package/Application.java". A key says nothing about
// where the rendered file ends up; that mapping belongs to the plan.
package templates

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"shireesh.com/bootgen/internal/errdef"
)

//go:embed all:files
var builtin embed.FS

// Store is the read side the planner and executor depend on.
type Store interface {
	// Resolve returns the template content for key.
	Resolve(key string) ([]byte, error)
	// Exists reports whether key has a backing template without reading it.
	Exists(key string) bool
}

// FSStore serves templates from an fs.FS.
type FSStore struct {
	fsys fs.FS
}

func NewFSStore(fsys fs.FS) *FSStore {
	return &FSStore{fsys: fsys}
}

// Embedded returns the store over the templates compiled into the binary.
func Embedded() *FSStore {
	sub, err := fs.Sub(builtin, "files")
	if err != nil {
		panic("templates: embedded tree missing: " + err.Error())
	}
	return NewFSStore(sub)
}

func (s *FSStore) Resolve(key string) ([]byte, error) {
	if !fs.ValidPath(key) || key == "." {
		return nil, errdef.New(errdef.CodeTemplateNotFound, "invalid template key %q", key)
	}
	b, err := fs.ReadFile(s.fsys, key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errdef.Wrap(errdef.CodeTemplateNotFound, err, "template %s", key)
		}
		return nil, errdef.Wrap(errdef.CodeTemplateNotFound, err, "read template %s", key)
	}
	return b, nil
}

func (s *FSStore) Exists(key string) bool {
	if !fs.ValidPath(key) || key == "." {
		return false
	}
	info, err := fs.Stat(s.fsys, key)
	return err == nil && !info.IsDir()
}

// Keys lists every template key in the store, sorted.
func (s *FSStore) Keys() ([]string, error) {
	var keys []string
	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			keys = append(keys, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Export writes every template under dst, keeping the key layout, so the
// tree can be edited and turned into a pack with Pack.
func (s *FSStore) Export(dst string) error {
	keys, err := s.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		b, err := s.Resolve(k)
		if err != nil {
			return err
		}
		p := filepath.Join(dst, filepath.FromSlash(k))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(p, b, 0o644); err != nil {
			return err
		}
	}
	return nil
}
