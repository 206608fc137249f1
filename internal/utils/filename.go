// Package utils holds small helpers shared across packages.
package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	// Whitespace characters to normalize
	whitespaceChars = regexp.MustCompile(`[\r\n\t]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes a client-supplied upload name safe to embed in an
// archive file name. Directory components are discarded, characters invalid
// on common filesystems are removed and over-long names are truncated.
func SanitizeFilename(filename string) string {
	// Only the base name matters; clients may send full paths.
	filename = filepath.Base(filename)

	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = whitespaceChars.ReplaceAllString(filename, " ")
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = strings.TrimSpace(filename)

	// Leave room for the UUID prefix within common 255-byte name limits.
	if len(filename) > 100 {
		filename = strings.TrimSpace(filename[:100])
	}

	if filename == "" || filename == "." || filename == ".." {
		filename = "upload.tsv"
	}

	return filename
}
