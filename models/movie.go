package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MovieCollection = "movie"

type Movie struct {
	OID primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID  ID                 `bson:"-" json:"id"`

	Title           string   `bson:"title" json:"title" validate:"required"`
	Description     *string  `bson:"description" json:"description"`
	Year            *int     `bson:"year" json:"year" validate:"omitnil,gte=1900,lte=2100"`
	Genres          []string `bson:"genres" json:"genres"`
	Rating          *float64 `bson:"rating" json:"rating" validate:"omitnil,gte=0,lte=10"`
	DurationMinutes *int     `bson:"duration_minutes" json:"duration_minutes" validate:"omitnil,gte=1"`
	ThumbnailURL    *string  `bson:"thumbnail_url" json:"thumbnail_url"`
	VideoURL        *string  `bson:"video_url" json:"video_url"`
	Featured        bool     `bson:"featured" json:"featured"`
}

func (m *Movie) Normalize() {
	if m == nil {
		return
	}
	m.ID = IDFromObjectID(m.OID)
	if m.Genres == nil {
		m.Genres = []string{}
	}
}

// MovieCreate is the request body of POST /api/movies.
type MovieCreate struct {
	Title           string   `json:"title"`
	Description     *string  `json:"description"`
	Year            *int     `json:"year"`
	Genres          []string `json:"genres"`
	Rating          *float64 `json:"rating"`
	DurationMinutes *int     `json:"duration_minutes"`
	ThumbnailURL    *string  `json:"thumbnail_url"`
	VideoURL        *string  `json:"video_url"`
	Featured        bool     `json:"featured"`
}

func (c *MovieCreate) ToMovie() *Movie {
	genres := c.Genres
	if genres == nil {
		genres = []string{}
	}
	return &Movie{
		Title:           c.Title,
		Description:     c.Description,
		Year:            c.Year,
		Genres:          genres,
		Rating:          c.Rating,
		DurationMinutes: c.DurationMinutes,
		ThumbnailURL:    c.ThumbnailURL,
		VideoURL:        c.VideoURL,
		Featured:        c.Featured,
	}
}

// MovieFilter holds the optional filters of GET /api/movies. Nil fields are not applied.
type MovieFilter struct {
	Genre    *string
	Featured *bool
}

type SeedResponse struct {
	Message  string `json:"message"`
	Count    *int64 `json:"count,omitempty"`
	Inserted *int   `json:"inserted,omitempty"`
}
