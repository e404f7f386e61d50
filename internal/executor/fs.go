package executor

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

type TempFile interface {
	io.Writer
	Name() string
	Chmod(fs.FileMode) error
	Sync() error
	Close() error
}

// FS is everything the executor does to the filesystem.
type FS interface {
	Stat(string) (fs.FileInfo, error)
	MkdirAll(string, fs.FileMode) error
	ReadFile(string) ([]byte, error)
	CreateTemp(string, string) (TempFile, error)
	Rename(string, string) error
	Remove(string) error
}

type OSFS struct{}

func (OSFS) Stat(p string) (fs.FileInfo, error) { return os.Stat(p) }
func (OSFS) MkdirAll(p string, m fs.FileMode) error {
	return os.MkdirAll(p, m)
}
func (OSFS) ReadFile(p string) ([]byte, error)          { return os.ReadFile(p) }
func (OSFS) CreateTemp(d, pat string) (TempFile, error) { return os.CreateTemp(d, pat) }
func (OSFS) Rename(a, b string) error                   { return os.Rename(a, b) }
func (OSFS) Remove(p string) error                      { return os.Remove(p) }

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteAtomic replaces p with data through a temp file in the same
// directory, so readers never observe a half-written file.
func WriteAtomic(fsys FS, p string, m fs.FileMode, data []byte) (err error) {
	d := filepath.Dir(p)
	f, err := fsys.CreateTemp(d, ".bootgen-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		_ = f.Close()
		if err != nil {
			_ = fsys.Remove(tmp)
		}
	}()
	if err = f.Chmod(m); err != nil {
		return err
	}
	if _, err = f.Write(data); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = fsys.Rename(tmp, p); err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return err
	}
	// rename over an existing file fails on some platforms
	if err = fsys.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return fsys.Rename(tmp, p)
}
