// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package html uses templates to render a lowered register block as
// HTML documentation.
package html

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/NuQuantum/regblock/lower"
)

const dirMode = 0777

// GenerateDocs produces HTML documentation for the lowered block,
// writing an index page, a page per register, and a stylesheet to
// the given directory.
func GenerateDocs(dir string, block *lower.Block) error {
	err := generatePage(filepath.Join(dir, "index.html"), indexTemplate, block)
	if err != nil {
		return err
	}

	err = generatePage(filepath.Join(dir, "main.css"), cssTemplate, nil)
	if err != nil {
		return err
	}

	regDir := filepath.Join(dir, "registers")
	err = os.MkdirAll(regDir, dirMode)
	if err != nil {
		return fmt.Errorf("failed to create directory %q: %v", regDir, err)
	}

	for _, reg := range block.Registers {
		name := filepath.Join(regDir, reg.Path.Signal()+".html")
		err = generatePage(name, registerTemplate, reg)
		if err != nil {
			return err
		}
	}

	return nil
}

// generatePage renders one template to a new file with the given
// name.
func generatePage(name, template string, item any) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %q: %v", name, err)
	}

	err = templates.ExecuteTemplate(f, template, item)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to execute template %q for %s: %v", template, name, err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("failed to close %s: %v", name, err)
	}

	return nil
}

//go:embed templates/*_html.txt templates/css/*_css.txt
var templatesFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"hex": htmlHex,
}).ParseFS(templatesFS, "templates/*_html.txt", "templates/css/*_css.txt"))

const (
	indexTemplate    = "index_html.txt"
	registerTemplate = "register_html.txt"
	cssTemplate      = "main_css.txt"
)

func htmlHex(v uint64) string {
	return fmt.Sprintf("%#x", v)
}
