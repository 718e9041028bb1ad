package catalog

import (
	"slices"

	"github.com/agnivade/levenshtein"

	"github.com/ASHISH26940/shelfdb/internal/book"
)

const maxSuggestions = 3

type suggestion struct {
	title    string
	distance int
}

// SuggestTitles returns up to three stored titles close to title, nearest first.
// Distances are measured between normalized keys.
func (s *Service) SuggestTitles(title string) []string {
	if book.IsBlank(title) {
		return nil
	}
	query := book.Normalize(title)

	var candidates []suggestion
	for _, b := range s.store.FindAll() {
		d := levenshtein.ComputeDistance(query, book.Normalize(b.Title))
		if d <= s.suggestDistance {
			candidates = append(candidates, suggestion{title: b.Title, distance: d})
		}
	}

	// FindAll is already title-ordered, so a stable sort keeps ties alphabetical.
	slices.SortStableFunc(candidates, func(a, b suggestion) int {
		return a.distance - b.distance
	})

	titles := make([]string, 0, min(len(candidates), maxSuggestions))
	for _, c := range candidates[:min(len(candidates), maxSuggestions)] {
		titles = append(titles, c.title)
	}
	return titles
}
