package services

import (
	"strings"

	"cian-scraper/models"
)

// roomMarkers maps title keywords to a room count. Studios count as one
// room; listings past five rooms share the "Многокомнатная" title and are
// bucketed as six.
var roomMarkers = []struct {
	marker string
	count  int
}{
	{"Студия", 1},
	{"1-комн", 1},
	{"2-комн", 2},
	{"3-комн", 3},
	{"4-комн", 4},
	{"5-комн", 5},
	{"Многокомн", 6},
	{"многокомн", 6},
}

// RoomsFromText classifies the room count from a free-text listing title.
// Unrecognized titles yield the sentinel.
func RoomsFromText(text string) int {
	for _, m := range roomMarkers {
		if strings.Contains(text, m.marker) {
			return m.count
		}
	}
	return models.Sentinel
}
