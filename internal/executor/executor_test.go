package executor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"testing/fstest"

	"shireesh.com/bootgen/internal/config"
	"shireesh.com/bootgen/internal/errdef"
	"shireesh.com/bootgen/internal/plan"
	"shireesh.com/bootgen/internal/render"
	"shireesh.com/bootgen/internal/templates"
)

// failFS fails CreateTemp in one directory, as a full disk or a read-only
// mount would.
type failFS struct {
	OSFS
	dir string
}

func (f failFS) CreateTemp(d, pat string) (TempFile, error) {
	if d == f.dir {
		return nil, &os.PathError{Op: "createtemp", Path: d, Err: syscall.ENOSPC}
	}
	return f.OSFS.CreateTemp(d, pat)
}

func mustConfig(t *testing.T, a config.Answers) config.Config {
	t.Helper()
	cfg, err := config.New(a)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func testStore() templates.Store {
	return templates.NewFSStore(fstest.MapFS{
		"root/readme.md":   {Data: []byte("# {{ .baseName }}\n")},
		"root/pom.xml":     {Data: []byte("<artifactId><%= .baseName %></artifactId>\n<v>${project.version}</v>\n")},
		"root/literal.txt": {Data: []byte("{{ .notAVariable }}\n")},
		"root/broken.txt":  {Data: []byte("{{ .nope }}\n")},
	})
}

func testPlan() plan.Plan {
	return plan.Plan{Tasks: []plan.Task{
		{Kind: plan.KindMkdir, Dest: "foo-rest"},
		{Kind: plan.KindMkdir, Dest: "docs"},
		{Kind: plan.KindRender, TemplateKey: "root/readme.md", Dest: "docs/README.md", Mode: plan.ModeInterpolate},
		{Kind: plan.KindRender, TemplateKey: "root/pom.xml", Dest: "pom.xml", Mode: plan.ModeInterpolate, Syntax: render.SyntaxERB},
		{Kind: plan.KindRender, TemplateKey: "root/literal.txt", Dest: "literal.txt", Mode: plan.ModeLiteral},
	}}
}

func read(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read %s: %v", p, err)
	}
	return string(b)
}

func TestExecuteWritesFiles(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	cfg := mustConfig(t, config.Answers{PackageName: "com.example.foo", BaseName: "foo"})

	rep, err := New(testStore()).Execute(testPlan(), cfg, root)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := read(t, filepath.Join(root, "docs", "README.md")); got != "# foo\n" {
		t.Fatalf("README = %q", got)
	}
	if got := read(t, filepath.Join(root, "pom.xml")); got != "<artifactId>foo</artifactId>\n<v>${project.version}</v>\n" {
		t.Fatalf("pom.xml = %q", got)
	}
	if got := read(t, filepath.Join(root, "literal.txt")); got != "{{ .notAVariable }}\n" {
		t.Fatalf("literal.txt = %q", got)
	}
	if info, err := os.Stat(filepath.Join(root, "foo-rest")); err != nil || !info.IsDir() {
		t.Fatalf("expected foo-rest directory: %v", err)
	}
	if rep.Count(ActionMkdir) != 2 || rep.Count(ActionCreate) != 3 {
		t.Fatalf("unexpected report %+v", rep.Entries)
	}
}

func TestExecuteTwiceOverwritesAndKeepsDirectories(t *testing.T) {
	root := t.TempDir()
	cfg := mustConfig(t, config.Answers{PackageName: "com.example.foo", BaseName: "foo"})
	ex := New(testStore(), WithDiff(true))

	if _, err := ex.Execute(testPlan(), cfg, root); err != nil {
		t.Fatalf("first run: %v", err)
	}
	readme := filepath.Join(root, "docs", "README.md")
	if err := os.WriteFile(readme, []byte("hand edited\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rep, err := ex.Execute(testPlan(), cfg, root)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if got := read(t, readme); got != "# foo\n" {
		t.Fatalf("expected regenerated README, got %q", got)
	}
	if rep.Count(ActionExists) != 2 {
		t.Fatalf("expected existing directories to be reported, got %+v", rep.Entries)
	}
	if rep.Count(ActionOverwrite) != 1 || rep.Count(ActionUnchanged) != 2 {
		t.Fatalf("unexpected actions %+v", rep.Entries)
	}
	for _, e := range rep.Entries {
		if e.Action == ActionOverwrite {
			if !strings.Contains(e.Diff, "-hand edited") || !strings.Contains(e.Diff, "+# foo") {
				t.Fatalf("unexpected diff:\n%s", e.Diff)
			}
		}
	}
}

func TestMkdirIdempotent(t *testing.T) {
	root := t.TempDir()
	ex := New(testStore())
	dir := filepath.Join(root, "a", "b")
	for i := 0; i < 2; i++ {
		if _, err := ex.mkdir(dir); err != nil {
			t.Fatalf("mkdir #%d: %v", i, err)
		}
	}
	if act, _ := ex.mkdir(dir); act != ActionExists {
		t.Fatalf("expected exists, got %s", act)
	}
}

func TestMkdirOverFileFails(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "foo-rest"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := mustConfig(t, config.DefaultAnswers())
	_, err := New(testStore()).Execute(testPlan(), cfg, root)
	if !errdef.Is(err, errdef.CodeGenerationFailed) {
		t.Fatalf("expected generation failed, got %v", err)
	}
}

func TestWriteFailureAbortsAndNamesTask(t *testing.T) {
	root := t.TempDir()
	cfg := mustConfig(t, config.Answers{PackageName: "com.example.foo", BaseName: "foo"})
	ex := New(testStore(), WithFS(failFS{dir: root}))

	rep, err := ex.Execute(testPlan(), cfg, root)
	if !errdef.Is(err, errdef.CodeGenerationFailed) {
		t.Fatalf("expected generation failed, got %v", err)
	}
	var te *TaskError
	if !errors.As(err, &te) {
		t.Fatalf("expected TaskError, got %T", err)
	}
	if te.Task.Dest != "pom.xml" {
		t.Fatalf("failure attributed to %s", te.Task.Dest)
	}
	if !errors.Is(err, syscall.ENOSPC) {
		t.Fatalf("expected cause in chain: %v", err)
	}

	// tasks before the failure stay, tasks after it never ran
	if got := read(t, filepath.Join(root, "docs", "README.md")); got != "# foo\n" {
		t.Fatalf("README = %q", got)
	}
	if _, err := os.Stat(filepath.Join(root, "literal.txt")); !os.IsNotExist(err) {
		t.Fatalf("literal.txt must not be written after the failure")
	}
	if len(rep.Entries) != 3 {
		t.Fatalf("expected 3 completed entries, got %d", len(rep.Entries))
	}
	matches, _ := filepath.Glob(filepath.Join(root, ".bootgen-*"))
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}

func TestUnresolvedPlaceholderIsAttributed(t *testing.T) {
	root := t.TempDir()
	cfg := mustConfig(t, config.DefaultAnswers())
	p := plan.Plan{Tasks: []plan.Task{
		{Kind: plan.KindRender, TemplateKey: "root/broken.txt", Dest: "broken.txt", Mode: plan.ModeInterpolate},
	}}
	_, err := New(testStore()).Execute(p, cfg, root)
	if !errdef.Is(err, errdef.CodeUnresolvedPlaceholder) {
		t.Fatalf("expected unresolved placeholder, got %v", err)
	}
	var pe *render.PlaceholderError
	if !errors.As(err, &pe) || pe.Key != "nope" {
		t.Fatalf("expected placeholder key nope, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "broken.txt")); !os.IsNotExist(err) {
		t.Fatalf("broken.txt must not be written")
	}
}

func TestTemplateNotFound(t *testing.T) {
	cfg := mustConfig(t, config.DefaultAnswers())
	p := plan.Plan{Tasks: []plan.Task{
		{Kind: plan.KindRender, TemplateKey: "root/absent.txt", Dest: "absent.txt"},
	}}
	_, err := New(testStore()).Execute(p, cfg, t.TempDir())
	if !errdef.Is(err, errdef.CodeTemplateNotFound) {
		t.Fatalf("expected template not found, got %v", err)
	}
}

func TestDryRunWritesNothing(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	cfg := mustConfig(t, config.DefaultAnswers())
	rep, err := New(testStore(), WithDryRun(true)).Execute(testPlan(), cfg, root)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Fatalf("dry run created the output root")
	}
	if !rep.DryRun || len(rep.Entries) != len(testPlan().Tasks) {
		t.Fatalf("unexpected dry-run report %+v", rep)
	}
}

func TestChecks(t *testing.T) {
	cfg := mustConfig(t, config.DefaultAnswers())
	p := plan.Plan{Tasks: []plan.Task{
		{Kind: plan.KindRender, TemplateKey: "root/readme.md", Dest: "README.md", Check: plan.CheckPostgreSQL},
	}}

	var seen string
	ok := func(name string, content []byte) error {
		seen = name + ":" + string(content)
		return nil
	}
	if _, err := New(testStore(), WithCheck(plan.CheckPostgreSQL, ok)).Execute(p, cfg, t.TempDir()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if seen != "README.md:# myservice\n" {
		t.Fatalf("check saw %q", seen)
	}

	bad := func(string, []byte) error { return errors.New("syntax error at or near") }
	root := t.TempDir()
	_, err := New(testStore(), WithCheck(plan.CheckPostgreSQL, bad)).Execute(p, cfg, root)
	if !errdef.Is(err, errdef.CodeInvalidOutput) {
		t.Fatalf("expected invalid output, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "README.md")); !os.IsNotExist(err) {
		t.Fatalf("file failing its check must not be written")
	}

	// without a registered checker the output is written unchecked
	if _, err := New(testStore()).Execute(p, cfg, t.TempDir()); err != nil {
		t.Fatalf("execute without checker: %v", err)
	}
}

func TestRootIsAFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(f, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := New(testStore()).Execute(testPlan(), mustConfig(t, config.DefaultAnswers()), f)
	if !errdef.Is(err, errdef.CodeGenerationFailed) {
		t.Fatalf("expected generation failed, got %v", err)
	}
}
