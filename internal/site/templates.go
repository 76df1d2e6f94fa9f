package site

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

//go:embed templates/*.html
var defaultTemplates embed.FS

// requiredTemplates must be defined whether the set comes from the embedded
// defaults or from the site's own templates directory.
var requiredTemplates = []string{"page.html", "list.html"}

// loadTemplates returns the site's template set. A templates directory
// under inputDir overrides the built-in defaults wholesale.
func loadTemplates(inputDir string) (*template.Template, error) {
	custom := filepath.Join(inputDir, "templates")
	var (
		tmpl *template.Template
		err  error
	)
	if info, statErr := os.Stat(custom); statErr == nil && info.IsDir() {
		tmpl, err = template.ParseGlob(filepath.Join(custom, "*.html"))
		if err != nil {
			return nil, fmt.Errorf("parse templates in %s: %w", custom, err)
		}
	} else {
		tmpl, err = template.ParseFS(defaultTemplates, "templates/*.html")
		if err != nil {
			return nil, fmt.Errorf("parse built-in templates: %w", err)
		}
	}
	for _, name := range requiredTemplates {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("template %s is not defined", name)
		}
	}
	return tmpl, nil
}

// pageRef is a link to another page, used for backlink lists.
type pageRef struct {
	Title string
	URL   string
}

// pageContext is the data handed to page.html.
type pageContext struct {
	SiteTitle string
	Title     string
	Date      string
	Published string
	Authors   []string
	Tags      []string
	Link      string
	URL       string
	Body      template.HTML
	HasMath   bool
	Backlinks []pageRef
}

// listEntry is one row of a listing page.
type listEntry struct {
	Title string
	Date  string
	URL   string
	Tags  []string
}

// listContext is the data handed to list.html.
type listContext struct {
	SiteTitle string
	Title     string
	URL       string
	Pages     []listEntry
}
