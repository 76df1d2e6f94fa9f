package index

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// FrontMatter holds a document's normalized metadata. Title and Date are
// always present after extraction; the other fields may be empty.
type FrontMatter struct {
	Title     string
	Draft     bool
	Date      string // YYYY-MM-DD
	Authors   []string
	Published string // YYYY-MM-DD, empty if absent or unparseable
	Link      string
	Tags      []string
}

// rawFrontMatter mirrors the header block as written. Every field is
// optional; fallbacks are applied per field when building FrontMatter.
type rawFrontMatter struct {
	Title     string       `yaml:"title"`
	Date      string       `yaml:"date"`
	Modified  string       `yaml:"modified"`
	Created   string       `yaml:"created"`
	Published string       `yaml:"published"`
	Authors   stringOrList `yaml:"authors"`
	Draft     looseString  `yaml:"draft"`
	Link      string       `yaml:"link"`
	Tags      stringOrList `yaml:"tags"`
}

// stringOrList accepts either a bare string or a list of strings.
type stringOrList []string

func (s *stringOrList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var one string
	if err := unmarshal(&one); err == nil {
		*s = stringOrList{one}
		return nil
	}
	var many []string
	if err := unmarshal(&many); err != nil {
		return err
	}
	*s = many
	return nil
}

// looseString keeps a scalar's original text instead of its resolved YAML
// type, so an unquoted `draft: TRUE` reads back as "TRUE" while the YAML 1.1
// truthy scalars `yes` and `on` stay "yes" and "on" rather than becoming
// booleans.
type looseString string

func (s *looseString) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err == nil {
		*s = looseString(raw)
		return nil
	}
	// Non-scalar values have no text form; swallow them as empty.
	var v interface{}
	if err := unmarshal(&v); err != nil {
		return err
	}
	*s = ""
	return nil
}

// dateRe matches a YYYY-MM-DD prefix; anything after the date is ignored.
var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// datePrefix extracts a leading YYYY-MM-DD date from s, if present.
func datePrefix(s string) (string, bool) {
	m := dateRe.FindString(s)
	return m, m != ""
}

// ExtractFrontMatter splits a document's optional header block from its body
// and applies per-field fallbacks:
//
//   - title: header value, else the file name without extension
//   - date: first date-prefixed value among modified, created, date; else
//     the file's modification time, formatted as YYYY-MM-DD in UTC
//   - draft: true only when the header value equals "true", case-insensitively
//   - authors, tags: string or list, normalized to a list
//   - published: date-prefix rule with no fallback
//   - link: passed through verbatim
//
// The returned body is the content with the header stripped. A present but
// malformed header is an error.
func ExtractFrontMatter(path string, modTime time.Time, content []byte) (FrontMatter, []byte, error) {
	var raw rawFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(content), &raw)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse front matter of %s: %w", path, err)
	}

	fm := FrontMatter{
		Title:   raw.Title,
		Draft:   strings.EqualFold(string(raw.Draft), "true"),
		Authors: raw.Authors,
		Link:    raw.Link,
		Tags:    raw.Tags,
	}
	if fm.Title == "" {
		base := filepath.Base(path)
		fm.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	for _, candidate := range []string{raw.Modified, raw.Created, raw.Date} {
		if d, ok := datePrefix(candidate); ok {
			fm.Date = d
			break
		}
	}
	if fm.Date == "" {
		fm.Date = modTime.UTC().Format("2006-01-02")
	}
	if d, ok := datePrefix(raw.Published); ok {
		fm.Published = d
	}
	return fm, body, nil
}
