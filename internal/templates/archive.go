package templates

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Archive is a template pack read from a zip file.
type Archive struct {
	*FSStore
	rc *zip.ReadCloser
}

// OpenArchive opens a zip template pack. Entries are addressed by their
// path inside the archive, so a pack built by Pack from a template root
// yields the same keys as the embedded store.
func OpenArchive(path string) (*Archive, error) {
	if err := checkZipHeader(path); err != nil {
		return nil, fmt.Errorf("template pack %s: %w", path, err)
	}
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("template pack %s: %w", path, err)
	}
	return &Archive{FSStore: NewFSStore(rc), rc: rc}, nil
}

func (a *Archive) Close() error {
	return a.rc.Close()
}

func checkZipHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	header := make([]byte, 2)
	if _, err := io.ReadFull(f, header); err != nil {
		return fmt.Errorf("not a zip archive: %w", err)
	}
	if header[0] != 'P' || header[1] != 'K' {
		return fmt.Errorf("not a zip archive: %w", os.ErrInvalid)
	}
	return nil
}

// Pack zips the template tree rooted at srcDir into destZip.
// example usage:
// err := Pack("path/to/templates", "dist/templates.zip")
func Pack(srcDir, destZip string) error {
	info, err := os.Stat(srcDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", srcDir)
	}
	if err := os.MkdirAll(filepath.Dir(destZip), 0o755); err != nil {
		return err
	}
	zipfile, err := os.Create(destZip)
	if err != nil {
		return err
	}
	defer zipfile.Close()

	archive := zip.NewWriter(zipfile)
	err = filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		// zip entries always use forward slashes
		name := filepath.ToSlash(rel)
		if info.IsDir() {
			_, err := archive.Create(name + "/")
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		w, err := archive.Create(name)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, file)
		return err
	})
	if err != nil {
		archive.Close()
		return err
	}
	return archive.Close()
}
