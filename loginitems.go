package loginitems

import (
	"github.com/forensickit/loginitems/extractor"
	"github.com/forensickit/loginitems/plist"
)

// Version is the module release version.
const Version = "0.3.0"

// Bookmarks extracts every bookmark payload from the login-items
// container at path. Diagnostics are discarded; construct an
// extractor.Extractor with a logger to capture them.
func Bookmarks(path string) ([][]byte, error) {
	return extractor.New().ExtractBookmarksFile(path)
}

// Read loads the container at path as an ordered dictionary without
// interpreting it.
func Read(path string) (*plist.Dictionary, error) {
	return plist.LoadDictionary(path)
}
