// Package render interpolates template text against a project configuration.
package render

import (
	"bytes"
	"regexp"
	"text/template"

	"shireesh.com/bootgen/internal/config"
	"shireesh.com/bootgen/internal/errdef"
)

// Syntax selects the placeholder delimiters of a template.
type Syntax int

const (
	// SyntaxDefault uses "{{" and "}}".
	SyntaxDefault Syntax = iota
	// SyntaxERB uses "<%=" and "%>", for build descriptors and YAML whose
	// content carries its own ${...} and {{ }} expressions.
	SyntaxERB
)

func (s Syntax) Delims() (left, right string) {
	switch s {
	case SyntaxERB:
		return "<%=", "%>"
	default:
		return "{{", "}}"
	}
}

func (s Syntax) String() string {
	switch s {
	case SyntaxERB:
		return "erb"
	default:
		return "default"
	}
}

// PlaceholderError names a variable a template referenced but the
// configuration does not define.
type PlaceholderError struct {
	Template string
	Key      string
	Err      error
}

func (e *PlaceholderError) Error() string {
	return "template " + e.Template + " references undefined variable " + e.Key
}

func (e *PlaceholderError) Unwrap() error { return e.Err }

var missingKey = regexp.MustCompile(`map has no entry for key "([^"]*)"`)

// Render interpolates tpl against cfg. Identical inputs always produce
// identical output.
func Render(name string, tpl []byte, cfg config.Config, syntax Syntax) ([]byte, error) {
	return RenderVars(name, tpl, cfg.Vars(), syntax)
}

// RenderVars is Render over an explicit variable map.
func RenderVars(name string, tpl []byte, vars map[string]any, syntax Syntax) ([]byte, error) {
	left, right := syntax.Delims()
	if !bytes.Contains(tpl, []byte(left)) {
		return bytes.Clone(tpl), nil
	}
	t, err := template.New(name).
		Delims(left, right).
		Option("missingkey=error").
		Funcs(template.FuncMap(funcs)).
		Parse(string(tpl))
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeTemplateSyntax, err, "parse %s", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		if m := missingKey.FindStringSubmatch(err.Error()); m != nil {
			return nil, errdef.Wrap(errdef.CodeUnresolvedPlaceholder, &PlaceholderError{Template: name, Key: m[1], Err: err}, "")
		}
		return nil, errdef.Wrap(errdef.CodeTemplateSyntax, err, "execute %s", name)
	}
	return buf.Bytes(), nil
}
