// Package plan turns a configuration into an ordered list of generation tasks.
//
// The set of files a project gets is a declarative rule table (see
// DefaultRules). Building a plan is a pure function of the configuration and
// the set of template keys the store holds; no template content is read.
package plan

import (
	"fmt"
	"path"
	"strings"

	"shireesh.com/bootgen/internal/render"
)

type Kind string

const (
	KindMkdir  Kind = "mkdir"
	KindRender Kind = "render"
)

type Mode string

const (
	ModeInterpolate Mode = "interpolated"
	ModeLiteral     Mode = "literal"
)

// Check names a verification run on rendered output before it is written.
type Check string

const (
	CheckNone       Check = ""
	CheckPostgreSQL Check = "postgresql"
)

// Task is one unit of work. Mkdir tasks carry no template key; render tasks
// always do. Dest is slash-separated and relative to the output root.
type Task struct {
	Kind        Kind
	TemplateKey string
	Dest        string
	Mode        Mode
	Syntax      render.Syntax
	Check       Check
}

func (t Task) String() string {
	if t.Kind == KindMkdir {
		return "mkdir " + t.Dest + "/"
	}
	s := fmt.Sprintf("render %s -> %s", t.TemplateKey, t.Dest)
	if t.Mode == ModeLiteral {
		return s + " (literal)"
	}
	if t.Syntax != render.SyntaxDefault {
		s += " (" + t.Syntax.String() + ")"
	}
	return s
}

// Plan is the ordered task list of one generator run.
type Plan struct {
	Tasks []Task
}

// Renders returns the render tasks in plan order.
func (p Plan) Renders() []Task {
	var out []Task
	for _, t := range p.Tasks {
		if t.Kind == KindRender {
			out = append(out, t)
		}
	}
	return out
}

// Dirs returns the destinations of mkdir tasks in plan order.
func (p Plan) Dirs() []string {
	var out []string
	for _, t := range p.Tasks {
		if t.Kind == KindMkdir {
			out = append(out, t.Dest)
		}
	}
	return out
}

// Find returns the task whose destination is dest.
func (p Plan) Find(dest string) (Task, bool) {
	for _, t := range p.Tasks {
		if t.Dest == dest {
			return t, true
		}
	}
	return Task{}, false
}

func (p Plan) String() string {
	var b strings.Builder
	for _, t := range p.Tasks {
		b.WriteString(t.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Validate checks the ordering invariant: every render task's parent
// directory is the output root or was created by an earlier mkdir task.
func (p Plan) Validate() error {
	made := map[string]bool{".": true}
	for i, t := range p.Tasks {
		switch t.Kind {
		case KindMkdir:
			for d := t.Dest; d != "." && d != "/"; d = path.Dir(d) {
				made[d] = true
			}
		case KindRender:
			if t.TemplateKey == "" {
				return fmt.Errorf("task %d: render %s has no template key", i, t.Dest)
			}
			if !made[path.Dir(t.Dest)] {
				return fmt.Errorf("task %d: render %s precedes mkdir of %s", i, t.Dest, path.Dir(t.Dest))
			}
		default:
			return fmt.Errorf("task %d: unknown kind %q", i, t.Kind)
		}
	}
	return nil
}
