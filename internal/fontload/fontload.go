package fontload

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/npillmayer/fontsubset"
	"github.com/npillmayer/fontsubset/hbsubset"
)

// FontFile is a font file read from disk.
type FontFile struct {
	Name   string // base name of the file
	Path   string
	Binary []byte
}

// LoadFontFile reads a font file (TTF, OTF, WOFF or WOFF2). Files with
// other extensions are rejected before reading.
func LoadFontFile(path string) (*FontFile, error) {
	if err := fontsubset.CheckExtension(path); err != nil {
		return nil, err
	}
	bytez, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytez) == 0 {
		return nil, fmt.Errorf("font file %s is empty", path)
	}
	return &FontFile{Name: filepath.Base(path), Path: path, Binary: bytez}, nil
}

// OpenSession loads a font file and starts a session for it.
func OpenSession(path string, engine *hbsubset.Engine) (*fontsubset.Session, error) {
	f, err := LoadFontFile(path)
	if err != nil {
		return nil, err
	}
	return fontsubset.Open(f.Name, f.Binary, engine)
}

// WriteSubset saves a subset binary as fontsubset.SubsetFileName(name) in
// directory dir and returns the path written.
func WriteSubset(dir, name string, subset []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, fontsubset.SubsetFileName(name))
	if err := os.WriteFile(path, subset, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
