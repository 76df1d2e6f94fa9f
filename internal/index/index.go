// Package index builds the read-only content index: every page and static
// asset under the content root, plus name, tag, and folder lookup buckets
// and the cross-page backlink relation. The index is built exactly once,
// before any page is rendered, and never mutated afterwards.
package index

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cronokirby/clog/internal/config"
	"github.com/cronokirby/clog/internal/slug"
	"github.com/cronokirby/clog/internal/wikilink"
)

// staticExtensions lists file extensions copied to the output verbatim.
var staticExtensions = map[string]bool{
	".png": true,
	".jpg": true,
}

// Page is one markdown document discovered during the scan.
type Page struct {
	// Name is the filename stem, used as the [[...]] cross-reference key.
	Name string
	// Link is the site-relative URL of the rendered page, with a leading
	// slash and slug-normalized path segments.
	Link        string
	FrontMatter FrontMatter
	SourcePath  string
	OutPath     string
	// Folder is the page's containing folder relative to the content root,
	// slash-separated; empty for pages at the root.
	Folder string

	body []byte // content with the header stripped, kept for the render phase
	ord  int    // position in the page arena
}

// Body returns the page's markdown content with the front matter stripped.
func (p *Page) Body() []byte { return p.body }

// Static is a file copied byte-for-byte into the output tree.
type Static struct {
	SourcePath string
	OutPath    string
}

// Bucket is a named, sorted group of pages (one folder or one tag).
type Bucket struct {
	Key   string
	Pages []*Page
}

// Index holds the complete site map. Built once by Build, read-only after.
type Index struct {
	statics []Static
	pages   []Page

	byName    map[string][]int
	byTag     map[string][]int
	byFolder  map[string][]int
	firstSeen map[string]int // name -> first page in walk order
	backlinks map[int][]int  // target ord -> referencing ords, walk order
}

// Build scans contentRoot, classifies every file, extracts metadata per
// document, and assembles the lookup buckets. Folders whose root-relative
// path is in the configured ignore set are pruned along with all their
// descendants. Output locations mirror source locations under outRoot with
// slug-normalized segments and the extension replaced by .html.
//
// Duplicate page names are a warning, not an error: lookups resolve to the
// first page encountered in walk order.
func Build(cfg *config.Config, contentRoot, outRoot string) (*Index, error) {
	ignored := cfg.IgnoredSet()
	x := &Index{
		byName:    make(map[string][]int),
		byTag:     make(map[string][]int),
		byFolder:  make(map[string][]int),
		firstSeen: make(map[string]int),
		backlinks: make(map[int][]int),
	}

	err := filepath.WalkDir(contentRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scan %s: %w", p, err)
		}
		rel, rerr := filepath.Rel(contentRoot, p)
		if rerr != nil {
			return fmt.Errorf("relativize %s: %w", p, rerr)
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && ignored[rel] {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(p))
		if staticExtensions[ext] {
			x.statics = append(x.statics, Static{
				SourcePath: p,
				OutPath:    filepath.Join(outRoot, filepath.FromSlash(slug.SlugifyPath(rel))),
			})
			return nil
		}
		if ext != ".md" {
			return nil
		}

		info, ierr := d.Info()
		if ierr != nil {
			return fmt.Errorf("stat %s: %w", p, ierr)
		}
		content, rdErr := os.ReadFile(p)
		if rdErr != nil {
			return fmt.Errorf("read %s: %w", p, rdErr)
		}
		fm, body, fmErr := ExtractFrontMatter(p, info.ModTime(), content)
		if fmErr != nil {
			return fmErr
		}

		htmlRel := slug.SlugifyPath(strings.TrimSuffix(rel, ".md") + ".html")
		folder := path.Dir(rel)
		if folder == "." {
			folder = ""
		}
		x.pages = append(x.pages, Page{
			Name:        strings.TrimSuffix(filepath.Base(p), ".md"),
			Link:        "/" + htmlRel,
			FrontMatter: fm,
			SourcePath:  p,
			OutPath:     filepath.Join(outRoot, filepath.FromSlash(htmlRel)),
			Folder:      folder,
			body:        body,
			ord:         len(x.pages),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	x.buildBuckets()
	x.warnDuplicates()
	x.sortBuckets()
	x.collectBacklinks()
	return x, nil
}

func (x *Index) buildBuckets() {
	for i := range x.pages {
		p := &x.pages[i]
		x.byName[p.Name] = append(x.byName[p.Name], i)
		if _, ok := x.firstSeen[p.Name]; !ok {
			x.firstSeen[p.Name] = i
		}
		for _, tag := range p.FrontMatter.Tags {
			x.byTag[tag] = append(x.byTag[tag], i)
		}
		x.byFolder[p.Folder] = append(x.byFolder[p.Folder], i)
	}
}

// warnDuplicates reports every name claimed by more than one page. The walk
// order of pages keeps the output deterministic.
func (x *Index) warnDuplicates() {
	warned := make(map[string]bool)
	for i := range x.pages {
		name := x.pages[i].Name
		if warned[name] || len(x.byName[name]) < 2 {
			continue
		}
		warned[name] = true
		fmt.Fprintf(os.Stderr, "clog: warning: page name %q has conflicts:\n", name)
		for _, j := range x.byName[name] {
			fmt.Fprintf(os.Stderr, "\t%s\n", x.pages[j].SourcePath)
		}
	}
}

// sortBuckets orders every bucket newest-first, breaking date ties by
// title descending.
func (x *Index) sortBuckets() {
	byDateTitle := func(indices []int) {
		sort.SliceStable(indices, func(a, b int) bool {
			pa, pb := &x.pages[indices[a]], &x.pages[indices[b]]
			if pa.FrontMatter.Date != pb.FrontMatter.Date {
				return pa.FrontMatter.Date > pb.FrontMatter.Date
			}
			return pa.FrontMatter.Title > pb.FrontMatter.Title
		})
	}
	for _, list := range x.byName {
		byDateTitle(list)
	}
	for _, list := range x.byTag {
		byDateTitle(list)
	}
	for _, list := range x.byFolder {
		byDateTitle(list)
	}
}

// collectBacklinks scans every page's body for [[...]] references and
// records the reverse edges. This runs as a pre-pass so that backlinks are
// complete before the first page is rendered.
func (x *Index) collectBacklinks() {
	for i := range x.pages {
		seen := make(map[int]bool)
		for seg := range wikilink.Segments(string(x.pages[i].body)) {
			if !seg.IsRef() {
				continue
			}
			target, ok := x.PageByName(seg.Name)
			if !ok || target.ord == i || seen[target.ord] {
				continue
			}
			seen[target.ord] = true
			x.backlinks[target.ord] = append(x.backlinks[target.ord], i)
		}
	}
}

// Pages returns all pages in walk order. Read-only.
func (x *Index) Pages() []Page { return x.pages }

// Statics returns all static assets in walk order. Read-only.
func (x *Index) Statics() []Static { return x.statics }

// PageByName looks up a page by its exact name. When several pages share a
// name, the first one encountered in walk order wins.
func (x *Index) PageByName(name string) (*Page, bool) {
	i, ok := x.firstSeen[name]
	if !ok {
		return nil, false
	}
	return &x.pages[i], true
}

// ResolveLink resolves a cross-reference name to the target page's URL.
func (x *Index) ResolveLink(name string) (string, bool) {
	p, ok := x.PageByName(name)
	if !ok {
		return "", false
	}
	return p.Link, true
}

// Folders returns one bucket per containing folder, keyed by the folder's
// slash-separated path relative to the content root. Buckets are ordered by
// key so generated listings are deterministic.
func (x *Index) Folders() []Bucket { return x.buckets(x.byFolder) }

// Tags returns one bucket per tag, ordered by tag name.
func (x *Index) Tags() []Bucket { return x.buckets(x.byTag) }

func (x *Index) buckets(m map[string][]int) []Bucket {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		pages := make([]*Page, 0, len(m[k]))
		for _, i := range m[k] {
			pages = append(pages, &x.pages[i])
		}
		out = append(out, Bucket{Key: k, Pages: pages})
	}
	return out
}

// Backlinks returns every other page whose body contains a resolved
// reference to p, in walk order.
func (x *Index) Backlinks(p *Page) []*Page {
	refs := x.backlinks[p.ord]
	out := make([]*Page, 0, len(refs))
	for _, i := range refs {
		out = append(out, &x.pages[i])
	}
	return out
}
