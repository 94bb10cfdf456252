package helper

import (
	"movie-catalog-backend/models"
)

const (
	demoThumbnailURL = "https://images.unsplash.com/photo-1524985069026-dd778a71c7b4?w=800&q=80&auto=format&fit=crop"
	demoVideoURL     = "https://samplelib.com/lib/preview/mp4/sample-5s.mp4"
)

type demoEntry struct {
	title       string
	description string
	year        int
	genres      []string
	rating      float64
	duration    int
	featured    bool
}

var demoEntries = []demoEntry{
	{"The Horizon", "A journey beyond the edge.", 2023, []string{"Sci-Fi", "Adventure"}, 8.1, 112, true},
	{"Crimson City", "Noir mystery in neon lights.", 2022, []string{"Thriller"}, 7.6, 98, false},
	{"Laugh Track", "Standup that hits home.", 2021, []string{"Comedy"}, 7.2, 62, false},
	{"Planet Blue", "Nature docu-series pilot.", 2020, []string{"Documentary"}, 8.7, 50, false},
	{"Shadow School", "Teens with secret powers.", 2024, []string{"Drama", "Fantasy"}, 7.9, 45, false},
}

// DemoCatalog returns fresh copies of the demo movies in seeding order.
func DemoCatalog() []*models.Movie {
	movies := make([]*models.Movie, 0, len(demoEntries))
	for _, e := range demoEntries {
		description := e.description
		year := e.year
		rating := e.rating
		duration := e.duration
		thumb := demoThumbnailURL
		video := demoVideoURL

		movies = append(movies, &models.Movie{
			Title:           e.title,
			Description:     &description,
			Year:            &year,
			Genres:          append([]string(nil), e.genres...),
			Rating:          &rating,
			DurationMinutes: &duration,
			ThumbnailURL:    &thumb,
			VideoURL:        &video,
			Featured:        e.featured,
		})
	}
	return movies
}
