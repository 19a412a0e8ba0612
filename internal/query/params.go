package query

// Params are the validated, typed list parameters. String filters are
// trimmed and empty means absent.
type Params struct {
	Page      Page
	SortBy    string
	SortOrder string
	Genre     string
	Director  string
	Year      *int
	MinRating *float64
	MaxRating *float64
}

// Filter builds the conjunction of every present filter parameter.
func (p Params) Filter() Filter {
	b := NewFilterBuilder().
		Contains(FieldGenre, p.Genre).
		Contains(FieldDirector, p.Director).
		Between(FieldRating, p.MinRating, p.MaxRating)
	if p.Year != nil {
		b.Equals(FieldReleaseYear, *p.Year)
	}
	return b.Build()
}

// Sort resolves the ordering.
func (p Params) Sort() Sort {
	return NewSort(p.SortBy, p.SortOrder)
}
