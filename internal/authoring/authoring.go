// Package authoring implements the interactive poem-add flow: prompting for
// metadata, writing a frontmatter template into the poems directory, and
// opening the new file in an editor.
package authoring

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/gosimple/slug"

	"github.com/FocuswithJustin/Recite/core/errors"
	"github.com/FocuswithJustin/Recite/internal/validation"
)

// Year bounds accepted for publication dates.
const (
	MinYear = 1000
	MaxYear = 2100
)

// Metadata is the collected poem header information.
type Metadata struct {
	Title      string
	Author     string
	Collection string
	Year       int
	URL        string
}

// Prompter reads interactive answers. Wrapping the reader keeps the flow
// testable without a terminal.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter creates a prompter reading from in and writing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// ask prints the prompt and reads one trimmed line. Required fields loop
// until a non-empty answer arrives.
func (p *Prompter) ask(prompt string, required bool) string {
	for {
		fmt.Fprintf(p.out, "%s: ", prompt)
		if !p.in.Scan() {
			return ""
		}
		value := strings.TrimSpace(p.in.Text())
		if value != "" || !required {
			return value
		}
		fmt.Fprintln(p.out, "This field is required. Please enter a value.")
	}
}

// Collect runs the interactive metadata prompts.
func (p *Prompter) Collect() (Metadata, error) {
	m := Metadata{
		Title:  p.ask("* Poem title", true),
		Author: p.ask("* Author name", true),
	}
	if m.Title == "" || m.Author == "" {
		return m, errors.NewValidation("metadata", "input ended before required fields were answered")
	}
	m.Collection = p.ask("Collection/Book name", false)

	for {
		raw := p.ask("Publication year", false)
		if raw == "" {
			break
		}
		year, err := ParseYear(raw)
		if err == nil {
			m.Year = year
			break
		}
		fmt.Fprintln(p.out, err)
	}

	for {
		raw := p.ask("Source URL", false)
		if raw == "" {
			break
		}
		if err := ValidateURL(raw); err == nil {
			m.URL = raw
			break
		} else {
			fmt.Fprintln(p.out, err)
		}
	}

	return m, nil
}

// ParseYear validates a publication year string.
func ParseYear(s string) (int, error) {
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewValidation("year", "please enter a valid year (numbers only)")
	}
	if year < MinYear || year > MaxYear {
		return 0, errors.NewValidation("year", fmt.Sprintf("please enter a year between %d and %d", MinYear, MaxYear))
	}
	return year, nil
}

// ValidateURL accepts http and https URLs only.
func ValidateURL(s string) error {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return nil
	}
	return errors.NewValidation("url", "URL should start with http:// or https://")
}

// genericTitles are title slugs too ambiguous to stand alone as filenames.
var genericTitles = map[string]bool{
	"poem":   true,
	"sonnet": true,
	"ode":    true,
	"song":   true,
}

// Filename derives the poem file's name from its metadata. Short or generic
// titles get the author slug prefixed so files stay distinguishable.
func Filename(title, author string) string {
	base := slug.Make(title)
	if len(base) > 50 {
		base = strings.Trim(base[:50], "-")
	}

	if len(base) < 10 || genericTitles[base] {
		authorSlug := slug.Make(author)
		if len(authorSlug) > 20 {
			authorSlug = strings.Trim(authorSlug[:20], "-")
		}
		base = authorSlug + "_" + base
	}

	return base + ".md"
}

// Template renders the frontmatter skeleton written into a new poem file.
func Template(m Metadata) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %q\n", m.Title)
	fmt.Fprintf(&b, "author: %q\n", m.Author)
	if m.Collection != "" {
		fmt.Fprintf(&b, "collection: %q\n", m.Collection)
	}
	if m.Year != 0 {
		fmt.Fprintf(&b, "year: %d\n", m.Year)
	}
	if m.URL != "" {
		fmt.Fprintf(&b, "url: %q\n", m.URL)
	}
	b.WriteString("---\n\n")
	b.WriteString("Delete this line and paste your poem here.\n")
	return b.String()
}

// CreatePoemFile writes the frontmatter template into dir. It refuses to
// overwrite an existing file unless overwrite is set.
func CreatePoemFile(dir string, m Metadata, overwrite bool) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.NewIO("create directory", dir, err)
	}

	name, err := validation.SanitizeFilename(Filename(m.Title, m.Author))
	if err != nil {
		return "", err
	}
	// The sanitized name must resolve inside dir.
	rel, err := validation.SanitizePath(dir, name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, rel)

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return path, errors.NewValidation("file", fmt.Sprintf("%s already exists", path))
		}
	}

	if err := os.WriteFile(path, []byte(Template(m)), 0644); err != nil {
		return "", errors.NewIO("write", path, err)
	}
	return path, nil
}

// OpenInEditor opens the file with $EDITOR when set, falling back to the
// platform opener.
func OpenInEditor(path string) error {
	if editor := os.Getenv("EDITOR"); editor != "" {
		cmd := exec.Command(editor, path)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}

	var openers []string
	switch runtime.GOOS {
	case "darwin":
		openers = []string{"open"}
	case "windows":
		openers = []string{"cmd /c start"}
	default:
		openers = []string{"xdg-open", "nano", "vim"}
	}

	for _, opener := range openers {
		parts := strings.Fields(opener)
		cmd := exec.Command(parts[0], append(parts[1:], path)...)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err == nil {
			return nil
		}
	}
	return fmt.Errorf("could not open an editor; please manually edit %s", path)
}
