// Command recite converts poem files into spaced-repetition cloze decks.
// It provides commands for building .apkg packages, pushing notes to a
// running Anki instance, and managing the poem collection.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/Recite/core/anki"
	"github.com/FocuswithJustin/Recite/core/cloze"
	"github.com/FocuswithJustin/Recite/core/poem"
	"github.com/FocuswithJustin/Recite/core/sqlite"
	"github.com/FocuswithJustin/Recite/internal/ankiconnect"
	"github.com/FocuswithJustin/Recite/internal/archive"
	"github.com/FocuswithJustin/Recite/internal/authoring"
	"github.com/FocuswithJustin/Recite/internal/logging"
	"github.com/FocuswithJustin/Recite/internal/poemfile"
	"github.com/FocuswithJustin/Recite/internal/validation"
)

const version = "0.1.0"

// CLI defines the command-line interface for recite.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log output format"`

	// Command groups (noun-first organization)
	Deck    DeckGroup  `cmd:"" help:"Deck generation and delivery"`
	Poem    PoemGroup  `cmd:"" help:"Poem collection management"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// DeckGroup contains deck generation operations.
type DeckGroup struct {
	Build BuildCmd `cmd:"" help:"Build an .apkg package from poem files"`
	Push  PushCmd  `cmd:"" help:"Send notes to a running Anki via AnkiConnect"`
	Info  InfoCmd  `cmd:"" help:"Summarize a built .apkg package"`
}

// PoemGroup contains poem collection operations.
type PoemGroup struct {
	Add     AddCmd     `cmd:"" help:"Interactively add a new poem file"`
	List    ListCmd    `cmd:"" help:"List poems with stanza and line counts"`
	Check   CheckCmd   `cmd:"" help:"Validate poem files and report errors"`
	Backup  BackupCmd  `cmd:"" help:"Archive the poems directory"`
	Restore RestoreCmd `cmd:"" help:"Extract a poem file from a backup archive"`
}

// genFlags holds the flags shared by deck build and deck push.
type genFlags struct {
	Files         []string `short:"f" help:"Poem files to process (default: all files under the poems directory)" type:"existingfile"`
	Dir           string   `help:"Poems directory scanned when no files are given" default:"poems" type:"path"`
	DeckName      string   `name:"deck-name" default:"Poetry" help:"Parent deck name"`
	SingleDeck    bool     `name:"single-deck" help:"Put all poems in one deck instead of per-poem subdecks"`
	WindowSize    int      `name:"window-size" default:"13" help:"Number of display lines shown per card"`
	NoShuffle     bool     `name:"no-shuffle" help:"Review lines in source order instead of a shuffled order"`
	Seed          *uint64  `help:"Pin the shuffle seed for reproducible output"`
	MultiStanza   bool     `name:"multi-stanza" help:"Add paired cards for adjacent short stanzas"`
	NoWrap        bool     `name:"no-wrap" help:"Disable word wrapping of long lines"`
	MaxLineLength int      `name:"max-line-length" default:"50" help:"Wrap lines longer than this many characters"`
}

// config translates the flags into a generation configuration.
func (g *genFlags) config() cloze.Config {
	cfg := cloze.DefaultConfig()
	cfg.WindowSize = g.WindowSize
	cfg.ShuffleLines = !g.NoShuffle
	cfg.Seed = g.Seed
	cfg.MultiStanza = g.MultiStanza
	cfg.WrapLines = !g.NoWrap
	cfg.MaxLineLength = g.MaxLineLength
	return cfg
}

// loadPoems parses the named files, or everything under the poems directory
// when none are named. Unreadable or invalid files are logged and skipped.
func (g *genFlags) loadPoems() ([]*poem.Poem, error) {
	paths := g.Files
	if len(paths) == 0 {
		discovered, err := poemfile.Discover(g.Dir)
		if err != nil {
			return nil, fmt.Errorf("discovering poems: %w", err)
		}
		paths = discovered
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no poem files found in %s", g.Dir)
	}

	var poems []*poem.Poem
	for _, path := range paths {
		p, err := poemfile.Load(path)
		if err != nil {
			logging.PoemSkipped(path, err)
			continue
		}
		logging.PoemLoaded(path, p.Title, p.Author, len(p.Stanzas))
		poems = append(poems, p)
	}
	if len(poems) == 0 {
		return nil, fmt.Errorf("no valid poems among %d files", len(paths))
	}
	return poems, nil
}

// buildDecks runs card generation for every poem and groups the notes into
// decks.
func (g *genFlags) buildDecks() (*anki.DeckSet, error) {
	poems, err := g.loadPoems()
	if err != nil {
		return nil, err
	}
	cfg := g.config()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	set := anki.NewDeckSet(g.DeckName, !g.SingleDeck)
	counts := anki.TitleCounts(poems)
	for _, p := range poems {
		cards, err := cloze.GenerateCards(p, cfg)
		if err != nil {
			return nil, fmt.Errorf("generating cards for %s: %w", p.Title, err)
		}
		notes := anki.BuildNotes(p, cards)
		set.Add(set.DeckName(p.Title, p.AuthorOrDefault(), counts), notes)
		fmt.Printf("Processed '%s' by %s: %d notes\n", p.Title, p.AuthorOrDefault(), len(notes))
	}
	return set, nil
}

// BuildCmd builds an .apkg package from poem files.
type BuildCmd struct {
	genFlags
	Out string `help:"Output .apkg path" type:"path" default:"poetry.apkg"`
}

func (c *BuildCmd) Run() error {
	if err := validation.ValidatePath(c.Out); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	if err := validation.ValidateFilename(filepath.Base(c.Out)); err != nil {
		return fmt.Errorf("invalid output name: %w", err)
	}

	start := time.Now()
	set, err := c.buildDecks()
	if err != nil {
		return err
	}

	decks := set.Decks()
	if err := anki.WritePackage(c.Out, decks); err != nil {
		return fmt.Errorf("writing package: %w", err)
	}

	logging.DeckBuilt(c.Out, len(decks), set.NoteCount(), time.Since(start))
	fmt.Printf("\nTotal notes created: %d\n", set.NoteCount())
	fmt.Printf("Created %s - import this file into Anki\n", c.Out)
	return nil
}

// PushCmd sends notes to a running Anki instance over AnkiConnect.
type PushCmd struct {
	genFlags
	URL string `default:"" help:"AnkiConnect endpoint (default: http://localhost:8765)"`
}

func (c *PushCmd) Run() error {
	set, err := c.buildDecks()
	if err != nil {
		return err
	}

	ctx := context.Background()
	client := ankiconnect.NewClient(c.URL)
	if _, err := client.Version(ctx); err != nil {
		return fmt.Errorf("AnkiConnect unreachable (is Anki running with the add-on installed?): %w", err)
	}

	added, skipped, err := client.PushDecks(ctx, set.Decks())
	if err != nil {
		return fmt.Errorf("pushing notes: %w", err)
	}
	fmt.Printf("Added %d notes (%d skipped as duplicates)\n", added, skipped)
	return nil
}

// AddCmd interactively creates a new poem file.
type AddCmd struct {
	Dir       string `help:"Poems directory" default:"poems" type:"path"`
	Overwrite bool   `help:"Replace an existing file with the same name"`
	NoEdit    bool   `name:"no-edit" help:"Skip opening the new file in an editor"`
}

func (c *AddCmd) Run() error {
	fmt.Println("Add New Poem")
	fmt.Println("Required fields are marked with *")
	fmt.Println()

	prompter := authoring.NewPrompter(os.Stdin, os.Stdout)
	meta, err := prompter.Collect()
	if err != nil {
		return err
	}

	path, err := authoring.CreatePoemFile(c.Dir, meta, c.Overwrite)
	if err != nil {
		return err
	}
	fmt.Printf("Created %s\n", path)

	if c.NoEdit {
		return nil
	}
	fmt.Println("Opening file in your editor; add the poem text and save.")
	if err := authoring.OpenInEditor(path); err != nil {
		fmt.Println(err)
	}
	return nil
}

// ListCmd lists poems with stanza and line counts.
type ListCmd struct {
	Dir string `help:"Poems directory" default:"poems" type:"path"`
}

func (c *ListCmd) Run() error {
	paths, err := poemfile.Discover(c.Dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Printf("No poems found in %s\n", c.Dir)
		return nil
	}

	for _, path := range paths {
		p, err := poemfile.Load(path)
		if err != nil {
			fmt.Printf("%-40s (invalid: %v)\n", path, err)
			continue
		}
		fmt.Printf("%-40s %s by %s (%d stanzas, %d lines)\n",
			path, p.Title, p.AuthorOrDefault(), len(p.Stanzas), p.LineCount())
	}
	return nil
}

// CheckCmd validates poem files and reports per-file errors.
type CheckCmd struct {
	Files []string `short:"f" help:"Poem files to check (default: all files under the poems directory)" type:"existingfile"`
	Dir   string   `help:"Poems directory" default:"poems" type:"path"`
}

func (c *CheckCmd) Run() error {
	paths := c.Files
	if len(paths) == 0 {
		discovered, err := poemfile.Discover(c.Dir)
		if err != nil {
			return err
		}
		paths = discovered
	}
	if len(paths) == 0 {
		return fmt.Errorf("no poem files found in %s", c.Dir)
	}

	failures := 0
	for _, path := range paths {
		if _, err := poemfile.Load(path); err != nil {
			fmt.Printf("FAIL %s: %v\n", path, err)
			failures++
			continue
		}
		fmt.Printf("ok   %s\n", path)
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d files failed validation", failures, len(paths))
	}
	return nil
}

// BackupCmd archives the poems directory.
type BackupCmd struct {
	Dir string `help:"Poems directory" default:"poems" type:"path"`
	Out string `help:"Output archive (.tar.xz or .tar.gz)" default:"poems.tar.xz" type:"path"`
}

func (c *BackupCmd) Run() error {
	if err := validation.ValidatePath(c.Out); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	if _, err := os.Stat(c.Dir); err != nil {
		return fmt.Errorf("poems directory: %w", err)
	}
	if err := archive.CreateBackup(c.Dir, c.Out); err != nil {
		return err
	}

	// Read the archive back so a truncated or mislabeled backup is caught
	// now rather than at restore time.
	names, err := archive.ListFiles(c.Out)
	if err != nil {
		return fmt.Errorf("verifying archive: %w", err)
	}
	fmt.Printf("Created %s (%d files)\n", c.Out, len(names))
	return nil
}

// RestoreCmd extracts one poem file from a backup archive back into the
// poems directory.
type RestoreCmd struct {
	Name      string `arg:"" help:"File name inside the archive"`
	From      string `help:"Backup archive to read" default:"poems.tar.xz" type:"existingfile"`
	Dir       string `help:"Poems directory" default:"poems" type:"path"`
	Overwrite bool   `help:"Replace an existing file with the same name"`
}

func (c *RestoreCmd) Run() error {
	rel, err := validation.SanitizePath(c.Dir, c.Name)
	if err != nil {
		return fmt.Errorf("invalid poem name: %w", err)
	}

	content, err := archive.ReadFile(c.From, c.Name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return fmt.Errorf("poems directory: %w", err)
	}
	dst := filepath.Join(c.Dir, rel)
	if !c.Overwrite {
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("%s already exists (use --overwrite)", dst)
		}
	}
	if err := os.WriteFile(dst, content, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	fmt.Printf("Restored %s\n", dst)
	return nil
}

// InfoCmd summarizes a built .apkg package.
type InfoCmd struct {
	File string `arg:"" help:".apkg file to inspect" type:"existingfile"`
}

func (c *InfoCmd) Run() error {
	info, err := anki.ReadPackageInfo(c.File)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d notes, %d cards\n", c.File, info.NoteCount, info.CardCount)
	for _, name := range info.Decks {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("recite version %s\n", version)
	fmt.Printf("SQLite driver: %s (%s)\n", sqlite.DriverName(), sqlite.DriverType())
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("recite"),
		kong.Description("Recite - poems to spaced-repetition cloze decks"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
