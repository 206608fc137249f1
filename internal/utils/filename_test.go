package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "keeps ordinary upload names",
			input:    "spring_hymns.tsv",
			expected: "spring_hymns.tsv",
		},
		{
			name:     "drops directory components",
			input:    "../../etc/passwd",
			expected: "passwd",
		},
		{
			name:     "removes invalid characters",
			input:    `le??ons: "draft".tsv`,
			expected: "leons draft.tsv",
		},
		{
			name:     "replaces newlines and tabs with spaces",
			input:    "file\nname\twith\rspaces.tsv",
			expected: "file name with spaces.tsv",
		},
		{
			name:     "collapses multiple spaces",
			input:    "file   name  with    spaces",
			expected: "file name with spaces",
		},
		{
			name:     "trims whitespace",
			input:    "  filename.tsv  ",
			expected: "filename.tsv",
		},
		{
			name:     "falls back for empty input",
			input:    "",
			expected: "upload.tsv",
		},
		{
			name:     "falls back for only special chars",
			input:    `<>:?*`,
			expected: "upload.tsv",
		},
		{
			name:     "falls back for bare directory traversal",
			input:    "..",
			expected: "upload.tsv",
		},
		{
			name:     "truncates long names",
			input:    strings.Repeat("a", 250),
			expected: strings.Repeat("a", 100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeFilename(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}
