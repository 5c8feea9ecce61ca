package anki

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/FocuswithJustin/Recite/core/errors"
	"github.com/FocuswithJustin/Recite/core/render"
	"github.com/FocuswithJustin/Recite/core/sqlite"
)

// timeNow is a variable to allow deterministic timestamps in tests.
var timeNow = time.Now

// fieldSeparator joins note fields in the collection schema.
const fieldSeparator = "\x1f"

// collectionSchema is the anki2 collection layout (schema version 11).
const collectionSchema = `
CREATE TABLE col (
    id     integer PRIMARY KEY,
    crt    integer NOT NULL,
    mod    integer NOT NULL,
    scm    integer NOT NULL,
    ver    integer NOT NULL,
    dty    integer NOT NULL,
    usn    integer NOT NULL,
    ls     integer NOT NULL,
    conf   text NOT NULL,
    models text NOT NULL,
    decks  text NOT NULL,
    dconf  text NOT NULL,
    tags   text NOT NULL
);
CREATE TABLE notes (
    id    integer PRIMARY KEY,
    guid  text NOT NULL,
    mid   integer NOT NULL,
    mod   integer NOT NULL,
    usn   integer NOT NULL,
    tags  text NOT NULL,
    flds  text NOT NULL,
    sfld  integer NOT NULL,
    csum  integer NOT NULL,
    flags integer NOT NULL,
    data  text NOT NULL
);
CREATE TABLE cards (
    id     integer PRIMARY KEY,
    nid    integer NOT NULL,
    did    integer NOT NULL,
    ord    integer NOT NULL,
    mod    integer NOT NULL,
    usn    integer NOT NULL,
    type   integer NOT NULL,
    queue  integer NOT NULL,
    due    integer NOT NULL,
    ivl    integer NOT NULL,
    factor integer NOT NULL,
    reps   integer NOT NULL,
    lapses integer NOT NULL,
    left   integer NOT NULL,
    odue   integer NOT NULL,
    odid   integer NOT NULL,
    flags  integer NOT NULL,
    data   text NOT NULL
);
CREATE TABLE revlog (
    id      integer PRIMARY KEY,
    cid     integer NOT NULL,
    usn     integer NOT NULL,
    ease    integer NOT NULL,
    ivl     integer NOT NULL,
    lastIvl integer NOT NULL,
    factor  integer NOT NULL,
    time    integer NOT NULL,
    type    integer NOT NULL
);
CREATE TABLE graves (
    usn  integer NOT NULL,
    oid  integer NOT NULL,
    type integer NOT NULL
);
CREATE INDEX ix_notes_usn ON notes (usn);
CREATE INDEX ix_cards_usn ON cards (usn);
CREATE INDEX ix_revlog_usn ON revlog (usn);
CREATE INDEX ix_cards_nid ON cards (nid);
CREATE INDEX ix_cards_sched ON cards (did, queue, due);
CREATE INDEX ix_revlog_cid ON revlog (cid);
CREATE INDEX ix_notes_csum ON notes (csum);
`

// WritePackage writes all decks into an importable .apkg file at path.
// The package is a zip holding the SQLite collection plus an empty media
// manifest: this tool ships no media files.
func WritePackage(path string, decks []*Deck) error {
	tempDir, err := os.MkdirTemp("", "recite-apkg-*")
	if err != nil {
		return errors.NewIO("create temp directory", "", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := writeCollection(dbPath, decks); err != nil {
		return errors.Wrap(err, "writing collection")
	}

	return packZip(path, dbPath)
}

// writeCollection creates collection.anki2 and fills it with the decks.
func writeCollection(dbPath string, decks []*Deck) error {
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return errors.NewIO("open", dbPath, err)
	}
	defer db.Close()

	if _, err := db.Exec(collectionSchema); err != nil {
		return errors.Wrap(err, "creating schema")
	}
	if err := insertCol(db, decks); err != nil {
		return err
	}
	return insertNotes(db, decks)
}

// insertCol writes the single col row: timestamps, configuration, the cloze
// model, and the deck tree.
func insertCol(db *sql.DB, decks []*Deck) error {
	nowSec := timeNow().Unix()
	nowMilli := nowSec * 1000

	conf := map[string]interface{}{
		"nextPos":       1,
		"estTimes":      true,
		"activeDecks":   []int64{1},
		"sortType":      "noteFld",
		"timeLim":       0,
		"sortBackwards": false,
		"addToCur":      true,
		"curDeck":       1,
		"newBury":       true,
		"newSpread":     0,
		"dueCounts":     true,
		"curModel":      strconv.Itoa(ModelID),
		"collapseTime":  1200,
	}

	models := map[string]interface{}{
		strconv.Itoa(ModelID): modelMap(render.FieldNames, nowSec),
	}

	deckTree := map[string]interface{}{
		"1": deckMap(1, "Default", nowSec),
	}
	for _, d := range decks {
		deckTree[strconv.FormatInt(d.ID, 10)] = deckMap(d.ID, d.Name, nowSec)
	}

	dconf := map[string]interface{}{
		"1": defaultDeckConf(nowSec),
	}

	confJSON, err := json.Marshal(conf)
	if err != nil {
		return err
	}
	modelsJSON, err := json.Marshal(models)
	if err != nil {
		return err
	}
	decksJSON, err := json.Marshal(deckTree)
	if err != nil {
		return err
	}
	dconfJSON, err := json.Marshal(dconf)
	if err != nil {
		return err
	}

	_, err = db.Exec(
		`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		 VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		nowSec, nowMilli, nowMilli,
		string(confJSON), string(modelsJSON), string(decksJSON), string(dconfJSON),
	)
	return errors.Wrap(err, "inserting col row")
}

// insertNotes writes every note and its single cloze card.
func insertNotes(db *sql.DB, decks []*Deck) error {
	nowSec := timeNow().Unix()

	noteStmt, err := db.Prepare(
		`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
		 VALUES (?, ?, ?, ?, -1, ?, ?, ?, ?, 0, '')`)
	if err != nil {
		return err
	}
	defer noteStmt.Close()

	cardStmt, err := db.Prepare(
		`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due,
		                    ivl, factor, reps, lapses, left, odue, odid, flags, data)
		 VALUES (?, ?, ?, 0, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`)
	if err != nil {
		return err
	}
	defer cardStmt.Close()

	due := 0
	for _, deck := range decks {
		for _, note := range deck.Notes {
			flds := strings.Join(note.Fields, fieldSeparator)
			sortField := ""
			if len(note.Fields) > 0 {
				sortField = note.Fields[0]
			}
			if _, err := noteStmt.Exec(
				note.ID, note.GUID, ModelID, nowSec,
				TagString(note.Tags), flds, sortField, fieldChecksum(sortField),
			); err != nil {
				return errors.Wrapf(err, "inserting note %s", note.GUID)
			}
			due++
			if _, err := cardStmt.Exec(note.ID, note.ID, deck.ID, nowSec, due); err != nil {
				return errors.Wrapf(err, "inserting card for note %s", note.GUID)
			}
		}
	}
	return nil
}

// deckMap builds one deck entry for the collection's decks JSON.
func deckMap(id int64, name string, mod int64) map[string]interface{} {
	return map[string]interface{}{
		"id":        id,
		"name":      name,
		"desc":      "",
		"mod":       mod,
		"usn":       -1,
		"conf":      1,
		"dyn":       0,
		"collapsed": false,
		"extendNew": 0,
		"extendRev": 50,
		"newToday":  []int{0, 0},
		"revToday":  []int{0, 0},
		"lrnToday":  []int{0, 0},
		"timeToday": []int{0, 0},
	}
}

// defaultDeckConf is the stock scheduling configuration. The downstream
// application owns scheduling; this exists only so the collection is valid.
func defaultDeckConf(mod int64) map[string]interface{} {
	return map[string]interface{}{
		"id":       1,
		"name":     "Default",
		"mod":      mod,
		"usn":      -1,
		"autoplay": true,
		"dyn":      false,
		"maxTaken": 60,
		"replayq":  true,
		"timer":    0,
		"new": map[string]interface{}{
			"bury":          true,
			"delays":        []int{1, 10},
			"initialFactor": 2500,
			"ints":          []int{1, 4, 7},
			"order":         1,
			"perDay":        20,
			"separate":      true,
		},
		"rev": map[string]interface{}{
			"bury":     true,
			"ease4":    1.3,
			"fuzz":     0.05,
			"ivlFct":   1,
			"maxIvl":   36500,
			"minSpace": 1,
			"perDay":   100,
		},
		"lapse": map[string]interface{}{
			"delays":      []int{10},
			"leechAction": 0,
			"leechFails":  8,
			"minInt":      1,
			"mult":        0,
		},
	}
}

// htmlTagPattern matches HTML tags for checksum stripping.
var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// fieldChecksum is the integer form of the first 8 hex digits of the sort
// field's SHA-1. Anki strips HTML from the field before hashing, so a
// <pre>-wrapped field must checksum the same as its plain text for
// duplicate search to work.
func fieldChecksum(field string) int64 {
	stripped := htmlTagPattern.ReplaceAllString(field, "")
	sum := sha1.Sum([]byte(stripped))
	prefix := hex.EncodeToString(sum[:])[:8]
	v, err := strconv.ParseInt(prefix, 16, 64)
	if err != nil {
		return 0
	}
	return v
}

// packZip writes the final .apkg: the collection database plus an empty
// media manifest.
func packZip(path, dbPath string) error {
	out, err := os.Create(path)
	if err != nil {
		return errors.NewIO("create", path, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	if err := addZipFile(zw, "collection.anki2", dbPath); err != nil {
		zw.Close()
		return err
	}
	media, err := zw.Create("media")
	if err != nil {
		zw.Close()
		return errors.Wrap(err, "adding media manifest")
	}
	if _, err := media.Write([]byte("{}")); err != nil {
		zw.Close()
		return errors.Wrap(err, "writing media manifest")
	}

	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "finalizing package")
	}
	return nil
}

// addZipFile copies one file into the archive under the given name.
func addZipFile(zw *zip.Writer, name, srcPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return errors.NewIO("open", srcPath, err)
	}
	defer src.Close()

	dst, err := zw.Create(name)
	if err != nil {
		return errors.Wrapf(err, "adding %s", name)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return errors.Wrapf(err, "copying %s", name)
	}
	return nil
}
