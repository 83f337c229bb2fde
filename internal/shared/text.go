package shared

import (
	"strings"

	"golang.org/x/text/cases"
)

var caseFolder = cases.Fold()

// FoldCase normalizes text for case-insensitive matching.
func FoldCase(s string) string {
	return caseFolder.String(s)
}

// ContainsFold reports whether substr occurs in s ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(FoldCase(s), FoldCase(substr))
}