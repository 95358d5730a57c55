package tmdb

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxGenreDistance is the largest edit distance accepted for a genre name
const maxGenreDistance = 2

// Genres maps TMDB genre names to ids
var Genres = map[string]int{
	"Action":          28,
	"Adventure":       12,
	"Animation":       16,
	"Comedy":          35,
	"Crime":           80,
	"Documentary":     99,
	"Drama":           18,
	"Family":          10751,
	"Fantasy":         14,
	"History":         36,
	"Horror":          27,
	"Music":           10402,
	"Mystery":         9648,
	"Romance":         10749,
	"Science Fiction": 878,
	"TV Movie":        10770,
	"Thriller":        53,
	"War":             10752,
	"Western":         37,
}

// GenreID resolves a genre name. Exact and case-insensitive matches win;
// otherwise the closest name within a small edit distance is used, which
// covers typos such as "Thriler".
func GenreID(name string) (int, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false
	}
	if id, ok := Genres[name]; ok {
		return id, true
	}

	lower := strings.ToLower(name)
	bestID, bestDistance := 0, maxGenreDistance+1
	bestName := ""
	for genre, id := range Genres {
		candidate := strings.ToLower(genre)
		if candidate == lower {
			return id, true
		}
		distance := levenshtein.ComputeDistance(lower, candidate)
		// ties resolve alphabetically so the result does not depend on map order
		if distance < bestDistance || (distance == bestDistance && genre < bestName) {
			bestID, bestDistance, bestName = id, distance, genre
		}
	}
	if bestDistance > maxGenreDistance {
		return 0, false
	}
	return bestID, true
}

// GenreName returns the name of a genre id
func GenreName(id int) (string, bool) {
	for name, genreID := range Genres {
		if genreID == id {
			return name, true
		}
	}
	return "", false
}
