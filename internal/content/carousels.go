package content

import (
	"fmt"

	"github.com/iburimskiy/particle-field/internal/theme"
)

// Carousel is one scrollable row under a category tab.
type Carousel struct {
	ID            string
	Path          string
	FallbackQuery string
	FallbackType  string
}

var carousels = map[theme.Category][]Carousel{
	theme.Movies: {
		{ID: "moviesTrending", Path: "/api/trending/movies", FallbackQuery: "avengers", FallbackType: "movie"},
		{ID: "moviesTopRated", Path: "/api/top-rated/movies", FallbackQuery: "godfather", FallbackType: "movie"},
		{ID: "moviesLatest", Path: "/api/latest/movies", FallbackQuery: "spider", FallbackType: "movie"},
	},
	theme.TV: {
		{ID: "tvTrending", Path: "/api/trending/tv", FallbackQuery: "stranger", FallbackType: "tv"},
		{ID: "tvTopRated", Path: "/api/top-rated/tv", FallbackQuery: "breaking", FallbackType: "tv"},
		{ID: "tvOnAir", Path: "/api/on-air/tv", FallbackQuery: "house", FallbackType: "tv"},
	},
	theme.Music: {
		{ID: "musicTrending", Path: "/api/trending/music", FallbackQuery: "taylor swift", FallbackType: "album"},
		{ID: "musicNew", Path: "/api/new-releases/music", FallbackQuery: "drake", FallbackType: "album"},
		{ID: "musicFeatured", Path: "/api/featured/music", FallbackQuery: "billie eilish", FallbackType: "album"},
	},
	theme.Games: {
		{ID: "gamesTrending", Path: "/api/trending/games", FallbackQuery: "call of duty", FallbackType: "game"},
		{ID: "gamesTopRated", Path: "/api/top-rated/games", FallbackQuery: "zelda", FallbackType: "game"},
		{ID: "gamesNew", Path: "/api/new-releases/games", FallbackQuery: "fifa", FallbackType: "game"},
	},
}

// Carousels returns the carousels shown under a category tab.
func Carousels(cat theme.Category) ([]Carousel, error) {
	cars, ok := carousels[cat]
	if !ok {
		return nil, fmt.Errorf("%w: %q", theme.ErrUnknownCategory, cat)
	}
	return cars, nil
}
