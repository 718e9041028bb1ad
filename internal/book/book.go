// Package book defines the Book record shared by every layer of the catalog,
// together with the title normalization that keys it in storage.
package book

import (
	"fmt"
	"strings"
)

// Book is a catalog entry. The title keeps the caller's casing for display;
// storage is keyed by Normalize(Title).
type Book struct {
	Title  string `json:"title" validate:"notblank"`
	Author string `json:"author" validate:"notblank"`
	Year   int    `json:"year" validate:"gt=0"`
}

// String implements fmt.Stringer.
func (b Book) String() string {
	return fmt.Sprintf("Book{title=%q, author=%q, year=%d}", b.Title, b.Author, b.Year)
}

// Normalize derives the storage key for a title: surrounding whitespace is
// trimmed and the result is lower-cased.
func Normalize(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// IsBlank reports whether s is empty or contains only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// CompareTitles orders two titles case-insensitively. Titles equal under
// case folding fall back to a byte-wise comparison so the result is total.
func CompareTitles(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
