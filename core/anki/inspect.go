package anki

import (
	"archive/zip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/FocuswithJustin/Recite/core/errors"
	"github.com/FocuswithJustin/Recite/core/sqlite"
)

// PackageInfo summarizes the contents of an .apkg file.
type PackageInfo struct {
	Decks     []string
	NoteCount int
	CardCount int
}

// ReadPackageInfo opens a package read-only and reports its deck names and
// note and card counts.
func ReadPackageInfo(path string) (*PackageInfo, error) {
	dbPath, cleanup, err := extractCollection(path)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	db, err := sqlite.OpenReadOnly(dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening collection")
	}
	defer db.Close()

	info := &PackageInfo{}
	if err := db.QueryRow("SELECT count(*) FROM notes").Scan(&info.NoteCount); err != nil {
		return nil, errors.Wrap(err, "counting notes")
	}
	if err := db.QueryRow("SELECT count(*) FROM cards").Scan(&info.CardCount); err != nil {
		return nil, errors.Wrap(err, "counting cards")
	}

	var decksJSON string
	if err := db.QueryRow("SELECT decks FROM col WHERE id = 1").Scan(&decksJSON); err != nil {
		return nil, errors.Wrap(err, "reading deck table")
	}
	var decks map[string]struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(decksJSON), &decks); err != nil {
		return nil, errors.Wrap(err, "decoding deck table")
	}
	for id, d := range decks {
		if id == "1" {
			// the built-in Default deck
			continue
		}
		info.Decks = append(info.Decks, d.Name)
	}
	sort.Strings(info.Decks)
	return info, nil
}

// extractCollection copies collection.anki2 out of the package into a
// temporary directory. The returned cleanup removes the directory.
func extractCollection(path string) (string, func(), error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", nil, errors.NewIO("open", path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "collection.anki2" {
			continue
		}
		tmpDir, err := os.MkdirTemp("", "recite-inspect-*")
		if err != nil {
			return "", nil, errors.NewIO("create temp directory", "", err)
		}
		cleanup := func() { os.RemoveAll(tmpDir) }
		dbPath := filepath.Join(tmpDir, "collection.anki2")
		if err := copyZipEntry(f, dbPath); err != nil {
			cleanup()
			return "", nil, err
		}
		return dbPath, cleanup, nil
	}
	return "", nil, errors.NewParse("apkg", path, "no collection.anki2 entry")
}

func copyZipEntry(f *zip.File, dst string) error {
	rc, err := f.Open()
	if err != nil {
		return errors.Wrapf(err, "opening %s", f.Name)
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.NewIO("create", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return errors.Wrapf(err, "extracting %s", f.Name)
	}
	return nil
}
