// Package executor carries out a generation plan against the filesystem.
//
// Tasks run strictly in plan order. Directory creation is idempotent and
// rendered files always replace what is on disk. The first failure stops the
// run; files written before it are left in place and the error names the
// task that failed.
package executor

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/aymanbagabas/go-udiff"
	"go.uber.org/zap"

	"shireesh.com/bootgen/internal/config"
	"shireesh.com/bootgen/internal/errdef"
	"shireesh.com/bootgen/internal/plan"
	"shireesh.com/bootgen/internal/render"
	"shireesh.com/bootgen/internal/templates"
)

type Action string

const (
	ActionMkdir     Action = "mkdir"
	ActionExists    Action = "exists"
	ActionCreate    Action = "create"
	ActionOverwrite Action = "overwrite"
	ActionUnchanged Action = "unchanged"
)

// Entry records what happened to one task.
type Entry struct {
	Task   plan.Task
	Action Action
	Path   string
	Diff   string
}

type Report struct {
	Root    string
	DryRun  bool
	Entries []Entry
}

// Count returns how many entries ended with action a.
func (r Report) Count(a Action) int {
	n := 0
	for _, e := range r.Entries {
		if e.Action == a {
			n++
		}
	}
	return n
}

// TaskError attributes a failure to the task that caused it.
type TaskError struct {
	Task plan.Task
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Task.Kind, e.Task.Dest, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

// CheckFunc verifies rendered output before it is written.
type CheckFunc func(name string, content []byte) error

type Executor struct {
	fs     FS
	store  templates.Store
	log    *zap.Logger
	dryRun bool
	diff   bool
	checks map[plan.Check]CheckFunc
}

type Option func(*Executor)

func WithFS(fsys FS) Option {
	return func(e *Executor) { e.fs = fsys }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithDryRun reports what would happen without touching the filesystem.
func WithDryRun(on bool) Option {
	return func(e *Executor) { e.dryRun = on }
}

// WithDiff records a unified diff for every overwritten file.
func WithDiff(on bool) Option {
	return func(e *Executor) { e.diff = on }
}

func WithCheck(c plan.Check, fn CheckFunc) Option {
	return func(e *Executor) { e.checks[c] = fn }
}

func New(store templates.Store, opts ...Option) *Executor {
	e := &Executor{
		fs:     OSFS{},
		store:  store,
		log:    zap.NewNop(),
		checks: map[plan.Check]CheckFunc{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs p under root. The returned report covers every task that
// completed, including when an error is returned.
func (e *Executor) Execute(p plan.Plan, cfg config.Config, root string) (Report, error) {
	rep := Report{Root: root, DryRun: e.dryRun}
	if err := e.ensureRoot(root); err != nil {
		return rep, errdef.Wrap(errdef.CodeGenerationFailed, err, "output root %s", root)
	}

	for _, t := range p.Tasks {
		entry, err := e.run(t, cfg, root)
		if err != nil {
			e.log.Error("task failed", zap.Stringer("task", t), zap.Error(err))
			return rep, errdef.Wrap(errdef.CodeGenerationFailed, &TaskError{Task: t, Err: err}, "")
		}
		e.log.Debug("task done", zap.String("action", string(entry.Action)), zap.String("dest", t.Dest))
		rep.Entries = append(rep.Entries, entry)
	}

	e.log.Info("plan executed",
		zap.String("root", root),
		zap.Bool("dryRun", e.dryRun),
		zap.Int("created", rep.Count(ActionCreate)),
		zap.Int("overwritten", rep.Count(ActionOverwrite)),
		zap.Int("unchanged", rep.Count(ActionUnchanged)),
	)
	return rep, nil
}

func (e *Executor) ensureRoot(root string) error {
	info, err := e.fs.Stat(root)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", root)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if e.dryRun {
		return nil
	}
	return e.fs.MkdirAll(root, dirPerm)
}

func (e *Executor) run(t plan.Task, cfg config.Config, root string) (Entry, error) {
	abs := filepath.Join(root, filepath.FromSlash(t.Dest))
	switch t.Kind {
	case plan.KindMkdir:
		act, err := e.mkdir(abs)
		return Entry{Task: t, Action: act, Path: abs}, err
	case plan.KindRender:
		return e.render(t, cfg, abs)
	}
	return Entry{}, fmt.Errorf("unknown task kind %q", t.Kind)
}

// mkdir creates dir; an existing directory is not an error.
func (e *Executor) mkdir(dir string) (Action, error) {
	info, err := e.fs.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		return ActionExists, nil
	case err == nil:
		return "", fmt.Errorf("%s exists and is not a directory", dir)
	case !errors.Is(err, fs.ErrNotExist):
		return "", err
	}
	if e.dryRun {
		return ActionMkdir, nil
	}
	if err := e.fs.MkdirAll(dir, dirPerm); err != nil {
		return "", err
	}
	return ActionMkdir, nil
}

func (e *Executor) render(t plan.Task, cfg config.Config, abs string) (Entry, error) {
	entry := Entry{Task: t, Path: abs}
	content, err := e.produce(t, cfg)
	if err != nil {
		return entry, err
	}

	prev, err := e.fs.ReadFile(abs)
	switch {
	case err == nil:
		entry.Action = ActionOverwrite
		if bytes.Equal(prev, content) {
			entry.Action = ActionUnchanged
		} else if e.diff {
			entry.Diff = udiff.Unified("a/"+t.Dest, "b/"+t.Dest, string(prev), string(content))
		}
	case errors.Is(err, fs.ErrNotExist):
		entry.Action = ActionCreate
	default:
		return entry, err
	}

	if e.dryRun {
		return entry, nil
	}
	if err := WriteAtomic(e.fs, abs, filePerm, content); err != nil {
		return entry, err
	}
	return entry, nil
}

func (e *Executor) produce(t plan.Task, cfg config.Config) ([]byte, error) {
	tpl, err := e.store.Resolve(t.TemplateKey)
	if err != nil {
		return nil, err
	}
	content := tpl
	if t.Mode != plan.ModeLiteral {
		content, err = render.Render(t.TemplateKey, tpl, cfg, t.Syntax)
		if err != nil {
			return nil, err
		}
	}
	if t.Check == plan.CheckNone {
		return content, nil
	}
	check, ok := e.checks[t.Check]
	if !ok {
		e.log.Warn("no checker registered", zap.String("check", string(t.Check)), zap.String("dest", t.Dest))
		return content, nil
	}
	if err := check(t.Dest, content); err != nil {
		return nil, errdef.Wrap(errdef.CodeInvalidOutput, err, "%s check of %s", t.Check, t.Dest)
	}
	return content, nil
}
