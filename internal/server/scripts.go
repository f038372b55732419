package server

import (
	"fmt"
	"os"
	"strings"
)

// File extensions recognized as startup scripts.
var scriptExtensions = []string{".bat", ".sh"}

// Returns the names of the startup scripts at the top level of dir.
//
// A startup script is a regular file ending in .bat or .sh whose name
// contains "start". Names are relative to dir and sorted lexically. A
// directory without scripts yields an empty slice.
func FindStartupScripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrController, err)
	}

	found := []string{}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if isStartupScript(e.Name()) {
			found = append(found, e.Name())
		}
	}
	return found, nil
}

func isStartupScript(name string) bool {
	if !strings.Contains(name, "start") {
		return false
	}
	for _, ext := range scriptExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
