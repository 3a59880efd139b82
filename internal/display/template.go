package display

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

var templateFuncs = func() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["title"] = Title
	fm["capitalize"] = Capitalize
	return fm
}()

// Template is a parsed text template with sprig functions available.
type Template struct {
	tmpl *template.Template
}

// ParseTemplate parses str once so it can be rendered many times.
func ParseTemplate(name, str string) (*Template, error) {
	tmpl, err := template.New(name).Funcs(templateFuncs).Parse(str)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	return &Template{tmpl: tmpl}, nil
}

// MustParseTemplate is ParseTemplate for templates compiled into the binary.
func MustParseTemplate(name, str string) *Template {
	t, err := ParseTemplate(name, str)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) Render(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", t.tmpl.Name(), err)
	}
	return buf.String(), nil
}

// Expand parses and renders str in one step. Strings without actions are returned as is.
func Expand(str string, data any) (string, error) {
	if !strings.Contains(str, "{{") {
		return str, nil
	}
	t, err := ParseTemplate("inline", str)
	if err != nil {
		return "", err
	}
	return t.Render(data)
}
