// Package state persists project facts at the root of a generated tree so a
// later run can prefill its answers.
package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"shireesh.com/bootgen/internal/errdef"
	"shireesh.com/bootgen/internal/executor"
)

// FileName is the state file written at the output root.
const FileName = ".bootgen.yaml"

const (
	KeyPackageName      = "packageName"
	KeyPackageFolder    = "packageFolder"
	KeyBaseName         = "baseName"
	KeyGeneratorVersion = "generatorVersion"
)

// State holds every key found in the file, including ones other tools wrote.
type State map[string]any

// Get returns the value stored under key rendered as a string.
func (s State) Get(key string) (string, bool) {
	v, ok := s[key]
	if !ok || v == nil {
		return "", false
	}
	if str, ok := v.(string); ok {
		return str, true
	}
	return fmt.Sprint(v), true
}

// Path returns the state file location under root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads the state under root. A missing file yields an empty state.
func Load(root string) (State, error) {
	p := Path(root)
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return State{}, nil
	}
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeState, err, "read %s", p)
	}

	s := State{}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errdef.Wrap(errdef.CodeState, err, "parse %s", p)
	}
	// a null document decodes to a nil map
	if s == nil {
		s = State{}
	}
	return s, nil
}

// Upsert writes each key in kv, replacing a present value and adding an
// absent one. Keys not in kv are kept as they are.
func Upsert(root string, kv map[string]string) error {
	s, err := Load(root)
	if err != nil {
		return err
	}
	for k, v := range kv {
		s[k] = v
	}

	data, err := yaml.Marshal(map[string]any(s))
	if err != nil {
		return errdef.Wrap(errdef.CodeState, err, "encode state")
	}
	p := Path(root)
	if err := executor.WriteAtomic(executor.OSFS{}, p, 0o644, data); err != nil {
		return errdef.Wrap(errdef.CodeState, err, "write %s", p)
	}
	return nil
}
