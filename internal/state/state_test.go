package state

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shireesh.com/bootgen/internal/errdef"
)

func TestLoadMissingIsEmpty(t *testing.T) {
	s, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(s) != 0 {
		t.Fatalf("expected empty state, got %v", s)
	}
	if _, ok := s.Get(KeyPackageName); ok {
		t.Fatalf("unexpected packageName")
	}
}

func TestUpsertCreatesThenUpdates(t *testing.T) {
	root := t.TempDir()
	if err := Upsert(root, map[string]string{
		KeyPackageName:   "com.example.foo",
		KeyPackageFolder: "com/example/foo",
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := Upsert(root, map[string]string{KeyPackageName: "com.example.bar"}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	s, err := Load(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if v, _ := s.Get(KeyPackageName); v != "com.example.bar" {
		t.Fatalf("packageName = %q", v)
	}
	if v, _ := s.Get(KeyPackageFolder); v != "com/example/foo" {
		t.Fatalf("packageFolder = %q", v)
	}
}

func TestUpsertPreservesForeignKeys(t *testing.T) {
	root := t.TempDir()
	seed := "packageName: com.example.old\nowner: platform-team\nreviews: 3\nextra:\n  nested: true\n"
	if err := os.WriteFile(Path(root), []byte(seed), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := Upsert(root, map[string]string{KeyPackageName: "com.example.new"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	s, err := Load(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if v, _ := s.Get("owner"); v != "platform-team" {
		t.Fatalf("owner = %q", v)
	}
	if v, _ := s.Get("reviews"); v != "3" {
		t.Fatalf("reviews = %q", v)
	}
	if _, ok := s["extra"].(map[string]any); !ok {
		t.Fatalf("nested value lost: %#v", s["extra"])
	}
	if v, _ := s.Get(KeyPackageName); v != "com.example.new" {
		t.Fatalf("packageName = %q", v)
	}
}

func TestUpsertLeavesNoTempFiles(t *testing.T) {
	root := t.TempDir()
	if err := Upsert(root, map[string]string{KeyBaseName: "foo"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".bootgen-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestCorruptStateFails(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("packageName: [unterminated"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := Load(root); !errdef.Is(err, errdef.CodeState) {
		t.Fatalf("expected state error, got %v", err)
	}
	if err := Upsert(root, map[string]string{KeyBaseName: "foo"}); !errdef.Is(err, errdef.CodeState) {
		t.Fatalf("expected state error from upsert, got %v", err)
	}
}

func TestUpsertOverNullDocument(t *testing.T) {
	for _, body := range []string{"", "# only a comment\n", "---\n", "null\n", "~\n"} {
		root := t.TempDir()
		if err := os.WriteFile(Path(root), []byte(body), 0o644); err != nil {
			t.Fatalf("seed: %v", err)
		}
		s, err := Load(root)
		if err != nil {
			t.Fatalf("load %q: %v", body, err)
		}
		if s == nil {
			t.Fatalf("load %q returned a nil state", body)
		}
		if err := Upsert(root, map[string]string{KeyPackageName: "a.b"}); err != nil {
			t.Fatalf("upsert over %q: %v", body, err)
		}
		s, err = Load(root)
		if err != nil {
			t.Fatalf("reload %q: %v", body, err)
		}
		if v, _ := s.Get(KeyPackageName); v != "a.b" {
			t.Fatalf("packageName after %q = %q", body, v)
		}
	}
}
