package midifile

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListFiles returns the MIDI files in a directory, sorted by name. Used as
// a pass-through listing for selection screens.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".mid", ".midi":
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
