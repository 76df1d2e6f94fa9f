// Package site drives a full build: index the content tree, render every
// page, copy static assets, and emit the configured listing pages.
package site

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path"
	"path/filepath"

	"github.com/cronokirby/clog/internal/config"
	"github.com/cronokirby/clog/internal/index"
	"github.com/cronokirby/clog/internal/katex"
	"github.com/cronokirby/clog/internal/markdown"
	"github.com/cronokirby/clog/internal/render"
	"github.com/cronokirby/clog/internal/slug"
)

// Stats summarizes what one build produced.
type Stats struct {
	Pages    int
	Drafts   int
	Statics  int
	Listings int
}

// Build generates the site from inputDir into outputDir. The content tree
// is inputDir/content when that directory exists, otherwise inputDir
// itself. Draft pages stay in the index for cross-references but produce
// no output and appear in no listing.
func Build(cfg *config.Config, inputDir, outputDir string) (*Stats, error) {
	tmpl, err := loadTemplates(inputDir)
	if err != nil {
		return nil, err
	}

	contentRoot := filepath.Join(inputDir, "content")
	if _, statErr := os.Stat(contentRoot); statErr != nil {
		contentRoot = inputDir
	}
	idx, err := index.Build(cfg, contentRoot, outputDir)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	var math render.MathRenderer
	if cfg.Math.Enabled {
		math = katex.NewClient(cfg.Math.URL)
	}
	r := &render.Renderer{Links: idx, Math: math}

	stats := &Stats{}
	pages := idx.Pages()
	for i := range pages {
		p := &pages[i]
		if p.FrontMatter.Draft {
			stats.Drafts++
			continue
		}
		if err := writePage(tmpl, r, cfg, idx, p); err != nil {
			return nil, fmt.Errorf("render %s: %w", p.SourcePath, err)
		}
		stats.Pages++
	}

	for _, s := range idx.Statics() {
		if err := copyFile(s.SourcePath, s.OutPath); err != nil {
			return nil, err
		}
		stats.Statics++
	}
	copied, err := copyStaticDir(filepath.Join(inputDir, "static"), filepath.Join(outputDir, "static"))
	if err != nil {
		return nil, err
	}
	stats.Statics += copied

	listings, err := writeListings(tmpl, cfg, idx, outputDir)
	if err != nil {
		return nil, err
	}
	stats.Listings = listings

	return stats, nil
}

func writePage(tmpl *template.Template, r *render.Renderer, cfg *config.Config, idx *index.Index, p *index.Page) error {
	doc := markdown.Parse(p.Body())
	var body bytes.Buffer
	log, err := r.Render(&body, p.Body(), doc)
	if err != nil {
		return err
	}

	var back []pageRef
	for _, b := range idx.Backlinks(p) {
		if b.FrontMatter.Draft {
			continue
		}
		back = append(back, pageRef{Title: b.FrontMatter.Title, URL: b.Link})
	}

	ctx := pageContext{
		SiteTitle: cfg.Site.Title,
		Title:     p.FrontMatter.Title,
		Date:      p.FrontMatter.Date,
		Published: p.FrontMatter.Published,
		Authors:   p.FrontMatter.Authors,
		Tags:      p.FrontMatter.Tags,
		Link:      p.FrontMatter.Link,
		URL:       p.Link,
		Body:      template.HTML(body.String()),
		HasMath:   log.HasMath,
		Backlinks: back,
	}
	var out bytes.Buffer
	if err := tmpl.ExecuteTemplate(&out, "page.html", ctx); err != nil {
		return fmt.Errorf("execute page template: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.OutPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.OutPath, out.Bytes(), 0o644)
}

// writeListings emits one listing per configured content folder plus one
// per tag. Buckets come back pre-sorted newest-first.
func writeListings(tmpl *template.Template, cfg *config.Config, idx *index.Index, outputDir string) (int, error) {
	count := 0
	listSet := cfg.ListSet()
	for _, b := range idx.Folders() {
		if !listSet[b.Key] {
			continue
		}
		slugged := slug.SlugifyPath(b.Key)
		ctx := listContext{
			SiteTitle: cfg.Site.Title,
			Title:     path.Base(b.Key),
			URL:       "/" + slugged + "/",
			Pages:     listEntries(b.Pages),
		}
		outPath := filepath.Join(outputDir, filepath.FromSlash(slugged), "index.html")
		if err := writeListing(tmpl, ctx, outPath); err != nil {
			return count, err
		}
		count++
	}
	for _, b := range idx.Tags() {
		slugged := slug.Slugify(b.Key)
		ctx := listContext{
			SiteTitle: cfg.Site.Title,
			Title:     b.Key,
			URL:       "/tags/" + slugged + ".html",
			Pages:     listEntries(b.Pages),
		}
		outPath := filepath.Join(outputDir, "tags", slugged+".html")
		if err := writeListing(tmpl, ctx, outPath); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func writeListing(tmpl *template.Template, ctx listContext, outPath string) error {
	var out bytes.Buffer
	if err := tmpl.ExecuteTemplate(&out, "list.html", ctx); err != nil {
		return fmt.Errorf("execute list template: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outPath, out.Bytes(), 0o644)
}

func listEntries(pages []*index.Page) []listEntry {
	var out []listEntry
	for _, p := range pages {
		if p.FrontMatter.Draft {
			continue
		}
		out = append(out, listEntry{
			Title: p.FrontMatter.Title,
			Date:  p.FrontMatter.Date,
			URL:   p.Link,
			Tags:  p.FrontMatter.Tags,
		})
	}
	return out
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}

// copyStaticDir copies the files directly inside src into dst. The copy is
// shallow; subdirectories are skipped. A missing src is not an error.
func copyStaticDir(src, dst string) (int, error) {
	entries, err := os.ReadDir(src)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read %s: %w", src, err)
	}
	count := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := copyFile(filepath.Join(src, e.Name()), filepath.Join(dst, e.Name())); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
