// Package poemfile parses poem source files into the core poem model.
//
// A poem file is plain text with an optional YAML frontmatter block fenced
// by --- markers. The body is split into stanzas on blank lines. When the
// frontmatter omits the title or author, both fall back to the
// "Author::Title" filename convention (underscores read as spaces).
package poemfile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/Recite/core/errors"
	"github.com/FocuswithJustin/Recite/core/poem"
	"github.com/FocuswithJustin/Recite/internal/validation"
)

// DefaultDir is the directory scanned when no poem files are named.
const DefaultDir = "poems"

// Frontmatter is the YAML metadata block at the top of a poem file.
type Frontmatter struct {
	Title      string `yaml:"title"`
	Author     string `yaml:"author"`
	Collection string `yaml:"collection"`
	Year       int    `yaml:"year"`
	URL        string `yaml:"url"`
	Source     string `yaml:"source"`
}

// SourceURL returns the source link, preferring url over source.
func (f Frontmatter) SourceURL() string {
	if f.URL != "" {
		return f.URL
	}
	return f.Source
}

var stanzaSplit = regexp.MustCompile(`\n\s*\n`)

// Parse builds a Poem from file content. path is used for filename-derived
// metadata fallbacks and is recorded on the poem.
func Parse(data []byte, path string) (*poem.Poem, error) {
	fm, body, err := splitFrontmatter(string(data), path)
	if err != nil {
		return nil, err
	}

	title, author := metaFromFilename(path)
	if fm.Title != "" {
		title = fm.Title
	}
	if fm.Author != "" {
		author = fm.Author
	}

	p := &poem.Poem{
		Title:      title,
		Author:     author,
		Collection: fm.Collection,
		Year:       fm.Year,
		Source:     fm.SourceURL(),
		Path:       path,
		Stanzas:    parseStanzas(body),
	}

	if errs := poem.ValidatePoem(p); len(errs) > 0 {
		return nil, errors.Wrapf(errs[0], "parsing %s", path)
	}
	return p, nil
}

// Load reads and parses one poem file. Files larger than
// validation.MaxFileSize are rejected before reading.
func Load(path string) (*poem.Poem, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewIO("stat", path, err)
	}
	if info.Size() > validation.MaxFileSize {
		return nil, errors.NewValidation("file", fmt.Sprintf(
			"%s exceeds maximum size of %d bytes", path, validation.MaxFileSize))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	return Parse(data, path)
}

// Discover lists poem files under dir, sorted by name. Both .md and .txt
// files are accepted.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewIO("read directory", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".md" || ext == ".txt" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// splitFrontmatter separates the YAML block from the poem body. A file with
// no frontmatter is all body.
func splitFrontmatter(text, path string) (Frontmatter, string, error) {
	var fm Frontmatter
	trimmed := strings.TrimLeft(text, "\n\r \t")
	if !strings.HasPrefix(trimmed, "---") {
		return fm, text, nil
	}

	parts := strings.SplitN(trimmed, "---", 3)
	if len(parts) < 3 {
		return fm, text, nil
	}
	if err := yaml.Unmarshal([]byte(parts[1]), &fm); err != nil {
		return fm, "", errors.NewParse("yaml", path, err.Error())
	}
	return fm, parts[2], nil
}

// parseStanzas splits the body into stanzas on blank lines. Blank lines
// inside a stanza block cannot occur by construction; stray whitespace-only
// lines act as separators.
func parseStanzas(body string) []poem.Stanza {
	var stanzas []poem.Stanza
	for _, block := range stanzaSplit.Split(strings.TrimSpace(body), -1) {
		if strings.TrimSpace(block) == "" {
			continue
		}
		var lines []poem.Line
		for _, raw := range strings.Split(block, "\n") {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			lines = append(lines, poem.Line{Text: strings.TrimRight(raw, " \t\r")})
		}
		stanzas = append(stanzas, poem.Stanza{Lines: lines})
	}
	return stanzas
}

// metaFromFilename derives title and author from the file's base name.
// "william_blake::the_tyger.md" yields author "William Blake" and title
// "The Tyger". Without the separator the whole stem is the title.
func metaFromFilename(path string) (title, author string) {
	stem := filepath.Base(path)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	stem = strings.ReplaceAll(stem, "_", " ")

	author = poem.DefaultAuthor
	if strings.Contains(stem, "::") {
		parts := strings.SplitN(stem, "::", 2)
		author = titleCase(strings.TrimSpace(parts[0]))
		stem = strings.TrimSpace(parts[1])
	}
	return titleCase(stem), author
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
