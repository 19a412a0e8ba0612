package model

import "time"

// Movie is a catalogue record.
// This is a pure domain model with no database-specific dependencies or tags.
// Optional attributes are pointers so an absent value is distinguishable from a zero one.
type Movie struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Director    *string   `json:"director,omitempty"`
	ReleaseYear *int      `json:"releaseYear,omitempty"`
	Genre       *string   `json:"genre,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MoviePatch carries the client-settable fields of a write. A nil field is
// left untouched by an update.
type MoviePatch struct {
	Title       *string  `json:"title,omitempty"`
	Director    *string  `json:"director,omitempty"`
	ReleaseYear *int     `json:"releaseYear,omitempty"`
	Genre       *string  `json:"genre,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
}

// IsEmpty reports whether the patch sets no field at all.
func (p MoviePatch) IsEmpty() bool {
	return p.Title == nil && p.Director == nil && p.ReleaseYear == nil && p.Genre == nil && p.Rating == nil
}

// Apply copies every set field of p onto m.
func (p MoviePatch) Apply(m *Movie) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Director != nil {
		m.Director = p.Director
	}
	if p.ReleaseYear != nil {
		m.ReleaseYear = p.ReleaseYear
	}
	if p.Genre != nil {
		m.Genre = p.Genre
	}
	if p.Rating != nil {
		m.Rating = p.Rating
	}
}

// NewMovie builds an unsaved movie from a create patch.
func NewMovie(p MoviePatch) *Movie {
	m := &Movie{}
	p.Apply(m)
	return m
}

// Statistics summarises the whole collection. Rating and year aggregates only
// consider records where the attribute is present.
type Statistics struct {
	TotalMovies   int64   `json:"totalMovies"`
	AverageRating float64 `json:"averageRating"`
	HighestRating float64 `json:"highestRating"`
	LowestRating  float64 `json:"lowestRating"`
	LatestYear    *int    `json:"latestYear"`
	OldestYear    *int    `json:"oldestYear"`
}
