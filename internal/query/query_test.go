package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fptr(f float64) *float64 { return &f }
func iptr(i int) *int         { return &i }

func TestParams_Filter(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   []Condition
	}{
		{
			name:   "no filters",
			params: Params{},
			want:   []Condition{},
		},
		{
			name:   "genre and director contain",
			params: Params{Genre: "drama", Director: "Frank"},
			want: []Condition{
				{Field: FieldGenre, Op: OpContains, Value: "drama"},
				{Field: FieldDirector, Op: OpContains, Value: "Frank"},
			},
		},
		{
			name:   "year equals",
			params: Params{Year: iptr(1994)},
			want:   []Condition{{Field: FieldReleaseYear, Op: OpEquals, Value: 1994}},
		},
		{
			name:   "min rating only",
			params: Params{MinRating: fptr(9)},
			want:   []Condition{{Field: FieldRating, Op: OpRange, Value: Range{Min: fptr(9)}}},
		},
		{
			name:   "full range",
			params: Params{MinRating: fptr(7.5), MaxRating: fptr(9)},
			want:   []Condition{{Field: FieldRating, Op: OpRange, Value: Range{Min: fptr(7.5), Max: fptr(9)}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.params.Filter().Conditions)
		})
	}
}

func TestFilterBuilder_NoDuplicateFields(t *testing.T) {
	f := NewFilterBuilder().
		Contains(FieldGenre, "drama").
		Contains(FieldGenre, "crime").
		Equals(FieldReleaseYear, 1972).
		Build()

	assert.Len(t, f.Conditions, 2)
	c, ok := f.Get(FieldGenre)
	assert.True(t, ok)
	assert.Equal(t, "crime", c.Value)
}

func TestFilterBuilder_OrderIndependent(t *testing.T) {
	a := NewFilterBuilder().Contains(FieldGenre, "drama").Equals(FieldReleaseYear, 1994).Build()
	b := NewFilterBuilder().Equals(FieldReleaseYear, 1994).Contains(FieldGenre, "drama").Build()

	assert.ElementsMatch(t, a.Conditions, b.Conditions)
}

func TestFilterBuilder_BuildCopies(t *testing.T) {
	b := NewFilterBuilder().Contains(FieldTitle, "god")
	f := b.Build()
	b.Contains(FieldGenre, "crime")

	assert.Len(t, f.Conditions, 1)
	assert.False(t, f.IsEmpty())
	_, ok := f.Get(FieldGenre)
	assert.False(t, ok)
}

func TestNewSort(t *testing.T) {
	tests := []struct {
		sortBy, sortOrder string
		want              Sort
	}{
		{"", "", DefaultSort},
		{"", "asc", DefaultSort},
		{"rating", "", Sort{Field: FieldRating, Desc: true}},
		{"rating", "desc", Sort{Field: FieldRating, Desc: true}},
		{"title", "asc", Sort{Field: FieldTitle}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewSort(tt.sortBy, tt.sortOrder), "%s/%s", tt.sortBy, tt.sortOrder)
	}
}

func TestIsSortable(t *testing.T) {
	for _, f := range SortableFields {
		assert.True(t, IsSortable(string(f)))
	}
	assert.False(t, IsSortable("updatedAt"))
	assert.False(t, IsSortable("Title"))
}

func TestPage_Skip(t *testing.T) {
	for page := 1; page <= 5; page++ {
		for limit := 1; limit <= 20; limit++ {
			assert.Equal(t, (page-1)*limit, Page{Page: page, Limit: limit}.Skip())
		}
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{100, 1, 100},
		{99, 100, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PageCount(tt.total, tt.limit), "total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestPage_PaginateEchoesOutOfRangePage(t *testing.T) {
	p := Page{Page: 7, Limit: 10}.Paginate(25)

	assert.Equal(t, Pagination{Page: 7, Limit: 10, Total: 25, Pages: 3}, p)
}
