package main

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FocuswithJustin/Recite/core/anki"
)

// Test helper functions

func createPoemFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create poem file: %v", err)
	}
	return path
}

func createPoemDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "poems")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create poems dir: %v", err)
	}
	createPoemFile(t, dir, "the-tyger.md", `---
title: The Tyger
author: William Blake
---

Tyger Tyger, burning bright,
In the forests of the night;

What immortal hand or eye,
Could frame thy fearful symmetry?
`)
	return dir
}

// Tests for BuildCmd

func TestBuildCmd_Run(t *testing.T) {
	dir := createPoemDir(t)
	out := filepath.Join(t.TempDir(), "poetry.apkg")
	seed := uint64(42)

	cmd := &BuildCmd{
		genFlags: genFlags{
			Dir:           dir,
			DeckName:      "Poetry",
			WindowSize:    13,
			Seed:          &seed,
			MaxLineLength: 50,
		},
		Out: out,
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("BuildCmd.Run: %v", err)
	}

	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("output is not a zip: %v", err)
	}
	defer zr.Close()
	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	if !names["collection.anki2"] || !names["media"] {
		t.Errorf("package entries = %v", names)
	}
}

func TestBuildCmd_NoPoems(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "empty")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	cmd := &BuildCmd{
		genFlags: genFlags{Dir: dir, DeckName: "Poetry", WindowSize: 13, MaxLineLength: 50},
		Out:      filepath.Join(t.TempDir(), "out.apkg"),
	}
	if err := cmd.Run(); err == nil {
		t.Error("expected error for empty poems directory")
	}
}

func TestBuildCmd_SkipsInvalidFiles(t *testing.T) {
	dir := createPoemDir(t)
	// Invalid: frontmatter only, no stanzas.
	createPoemFile(t, dir, "broken.md", "---\ntitle: Broken\n---\n")

	cmd := &BuildCmd{
		genFlags: genFlags{Dir: dir, DeckName: "Poetry", WindowSize: 13, MaxLineLength: 50},
		Out:      filepath.Join(t.TempDir(), "out.apkg"),
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("BuildCmd.Run: %v", err)
	}
}

// Tests for CheckCmd

func TestCheckCmd_Run(t *testing.T) {
	dir := createPoemDir(t)

	cmd := &CheckCmd{Dir: dir}
	if err := cmd.Run(); err != nil {
		t.Errorf("CheckCmd.Run on valid poems: %v", err)
	}

	createPoemFile(t, dir, "broken.md", "---\ntitle: Broken\n---\n")
	if err := cmd.Run(); err == nil {
		t.Error("expected error when a file fails validation")
	}
}

// Tests for ListCmd

func TestListCmd_Run(t *testing.T) {
	cmd := &ListCmd{Dir: createPoemDir(t)}
	if err := cmd.Run(); err != nil {
		t.Errorf("ListCmd.Run: %v", err)
	}
}

func TestListCmd_MissingDir(t *testing.T) {
	cmd := &ListCmd{Dir: filepath.Join(t.TempDir(), "nope")}
	if err := cmd.Run(); err == nil {
		t.Error("expected error for missing directory")
	}
}

// Tests for BackupCmd

func TestBackupCmd_Run(t *testing.T) {
	dir := createPoemDir(t)
	out := filepath.Join(t.TempDir(), "poems.tar.xz")

	cmd := &BackupCmd{Dir: dir, Out: out}
	if err := cmd.Run(); err != nil {
		t.Fatalf("BackupCmd.Run: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("archive not created: %v", err)
	}
}

func TestRestoreCmd_Run(t *testing.T) {
	dir := createPoemDir(t)
	out := filepath.Join(t.TempDir(), "poems.tar.xz")
	if err := (&BackupCmd{Dir: dir, Out: out}).Run(); err != nil {
		t.Fatalf("BackupCmd.Run: %v", err)
	}

	restoreDir := filepath.Join(t.TempDir(), "restored")
	cmd := &RestoreCmd{Name: "the-tyger.md", From: out, Dir: restoreDir}
	if err := cmd.Run(); err != nil {
		t.Fatalf("RestoreCmd.Run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(restoreDir, "the-tyger.md"))
	if err != nil {
		t.Fatalf("reading restored file: %v", err)
	}
	if !strings.Contains(string(data), "The Tyger") {
		t.Errorf("restored file missing poem content:\n%s", data)
	}

	// Restoring over an existing file requires --overwrite.
	if err := cmd.Run(); err == nil {
		t.Error("expected error restoring over an existing file")
	}
	cmd.Overwrite = true
	if err := cmd.Run(); err != nil {
		t.Errorf("overwrite restore failed: %v", err)
	}
}

func TestRestoreCmd_RejectsTraversal(t *testing.T) {
	dir := createPoemDir(t)
	out := filepath.Join(t.TempDir(), "poems.tar.xz")
	if err := (&BackupCmd{Dir: dir, Out: out}).Run(); err != nil {
		t.Fatalf("BackupCmd.Run: %v", err)
	}

	cmd := &RestoreCmd{Name: "../escape.md", From: out, Dir: filepath.Join(t.TempDir(), "restored")}
	if err := cmd.Run(); err == nil {
		t.Error("expected error for a name escaping the poems directory")
	}
}

func TestInfoCmd_Run(t *testing.T) {
	dir := createPoemDir(t)
	out := filepath.Join(t.TempDir(), "poetry.apkg")
	seed := uint64(42)

	build := &BuildCmd{
		genFlags: genFlags{
			Dir:           dir,
			DeckName:      "Poetry",
			WindowSize:    13,
			Seed:          &seed,
			MaxLineLength: 50,
		},
		Out: out,
	}
	if err := build.Run(); err != nil {
		t.Fatalf("BuildCmd.Run: %v", err)
	}

	cmd := &InfoCmd{File: out}
	if err := cmd.Run(); err != nil {
		t.Errorf("InfoCmd.Run: %v", err)
	}

	info, err := anki.ReadPackageInfo(out)
	if err != nil {
		t.Fatalf("ReadPackageInfo: %v", err)
	}
	if info.NoteCount == 0 {
		t.Error("built package has no notes")
	}
}

func TestBackupCmd_MissingDir(t *testing.T) {
	cmd := &BackupCmd{
		Dir: filepath.Join(t.TempDir(), "nope"),
		Out: filepath.Join(t.TempDir(), "poems.tar.xz"),
	}
	if err := cmd.Run(); err == nil {
		t.Error("expected error for missing poems directory")
	}
}

// Tests for VersionCmd

func TestVersionCmd_Run(t *testing.T) {
	cmd := &VersionCmd{}
	if err := cmd.Run(); err != nil {
		t.Errorf("VersionCmd.Run: %v", err)
	}
}

// Tests for genFlags

func TestGenFlagsConfig(t *testing.T) {
	g := genFlags{
		WindowSize:    7,
		NoShuffle:     true,
		MultiStanza:   true,
		NoWrap:        true,
		MaxLineLength: 65,
	}
	cfg := g.config()
	if cfg.WindowSize != 7 {
		t.Errorf("WindowSize = %d", cfg.WindowSize)
	}
	if cfg.ShuffleLines {
		t.Error("ShuffleLines should be false with --no-shuffle")
	}
	if !cfg.MultiStanza {
		t.Error("MultiStanza should be true")
	}
	if cfg.WrapLines {
		t.Error("WrapLines should be false with --no-wrap")
	}
	if cfg.MaxLineLength != 65 {
		t.Errorf("MaxLineLength = %d", cfg.MaxLineLength)
	}
}
