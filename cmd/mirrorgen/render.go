package main

import (
	"bytes"
	"go/format"
	"text/template"

	"github.com/pkg/errors"
)

type (
	// pkgModel is what is generated for one package.
	pkgModel struct {
		Name  string
		Path  string
		Types []typeModel
	}
	typeModel struct {
		Name      string
		Permanent string
		Fields    []string
	}
)

var tmpl = template.Must(template.New("mirror").Parse(`// Code generated by mirrorgen. DO NOT EDIT.

package {{.Name}}

import "github.com/sugawarayuuta/mirror"

func init() {
{{- range .Types}}
	mirror.Begin[{{.Name}}]({{printf "%q" .Permanent}}){{range .Fields}}.
		Field({{printf "%q" .}}){{end}}.
		End()
{{- end}}
}
`))

// render returns the formatted registration file of mdl.
func render(mdl pkgModel) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, mdl); err != nil {
		return nil, errors.Wrapf(err, "render %s", mdl.Path)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrapf(err, "format %s", mdl.Path)
	}
	return out, nil
}
