package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shireesh.com/bootgen/internal/errdef"
	"shireesh.com/bootgen/internal/state"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeAnswers(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "answers.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write answers: %v", err)
	}
	return p
}

const sqlAnswers = `packageName: com.acme.orders
baseName: orders
databaseType: sql
prodDatabaseType: mysql
devDatabaseType: mysql
`

func TestGenerateNonInteractive(t *testing.T) {
	out := t.TempDir()
	answers := writeAnswers(t, sqlAnswers)

	stdout, err := execute(t, "generate", "-y", "--answers", answers, "-o", out)
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "done:") {
		t.Fatalf("missing summary:\n%s", stdout)
	}
	app := filepath.Join(out, "orders-rest", "src", "main", "java", "com", "acme", "orders", "Application.java")
	if _, err := os.Stat(app); err != nil {
		t.Fatalf("Application.java missing: %v", err)
	}
	st, err := state.Load(out)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if v, _ := st.Get(state.KeyBaseName); v != "orders" {
		t.Fatalf("baseName = %q", v)
	}
}

func TestRerunUsesState(t *testing.T) {
	out := t.TempDir()
	if _, err := execute(t, "-y", "--answers", writeAnswers(t, sqlAnswers), "-o", out); err != nil {
		t.Fatalf("first run: %v", err)
	}
	// no answers file: identity comes from .bootgen.yaml
	stdout, err := execute(t, "plan", "-y", "-o", out)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !strings.Contains(stdout, "mkdir orders-rest/") {
		t.Fatalf("plan did not reuse the recorded baseName:\n%s", stdout)
	}
}

func TestDryRunWithPlanOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "svc")
	stdout, err := execute(t, "-y", "--dry-run", "-o", out)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !strings.Contains(stdout, "dry run:") {
		t.Fatalf("missing dry-run summary:\n%s", stdout)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("dry run created %s", out)
	}
}

func TestInvalidAnswers(t *testing.T) {
	answers := writeAnswers(t, "packageName: com.acme.class\nbaseName: x\n")
	_, err := execute(t, "-y", "--answers", answers, "-o", t.TempDir())
	if !errdef.Is(err, errdef.CodeInvalidConfiguration) {
		t.Fatalf("expected invalid configuration, got %v", err)
	}
}

func TestSaveAnswers(t *testing.T) {
	saved := filepath.Join(t.TempDir(), "saved.yaml")
	out := t.TempDir()
	if _, err := execute(t, "generate", "-y", "--answers", writeAnswers(t, sqlAnswers), "-o", out, "--save-answers", saved); err != nil {
		t.Fatalf("generate: %v", err)
	}
	stdout, err := execute(t, "plan", "-y", "--answers", saved, "-o", t.TempDir())
	if err != nil {
		t.Fatalf("plan from saved answers: %v", err)
	}
	if !strings.Contains(stdout, "V1__init-mysql.sql") {
		t.Fatalf("saved answers lost the database choice:\n%s", stdout)
	}
}

func TestExportPackAndGenerate(t *testing.T) {
	tree := filepath.Join(t.TempDir(), "tree")
	if _, err := execute(t, "export", tree); err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tree, "root", "gitignore"), []byte("custom\n"), 0o644); err != nil {
		t.Fatalf("customise: %v", err)
	}
	zipPath := filepath.Join(t.TempDir(), "pack.zip")
	if _, err := execute(t, "pack", tree, zipPath); err != nil {
		t.Fatalf("pack: %v", err)
	}

	out := t.TempDir()
	if _, err := execute(t, "-y", "-t", zipPath, "-o", out); err != nil {
		t.Fatalf("generate from pack: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(out, ".gitignore"))
	if err != nil || string(b) != "custom\n" {
		t.Fatalf(".gitignore = %q, %v", b, err)
	}
}
