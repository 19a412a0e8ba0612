// Package query turns validated request parameters into a store-agnostic
// filter, sort order and page window.
package query

// Field names a sortable or filterable movie attribute, using the public
// (JSON) spelling. Stores map it to their own column or key names.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDirector    Field = "director"
	FieldReleaseYear Field = "releaseYear"
	FieldGenre       Field = "genre"
	FieldRating      Field = "rating"
	FieldCreatedAt   Field = "createdAt"
)

// SortableFields lists the values accepted for sortBy.
var SortableFields = []Field{
	FieldTitle, FieldDirector, FieldReleaseYear, FieldGenre, FieldRating, FieldCreatedAt,
}

// Operator is the comparison a Condition applies.
type Operator int

const (
	// OpContains is a case-insensitive substring match on a text field.
	OpContains Operator = iota + 1
	// OpEquals is exact equality.
	OpEquals
	// OpRange is an inclusive range; either bound may be nil.
	OpRange
)

// Range is the value of an OpRange condition.
type Range struct {
	Min *float64
	Max *float64
}

// Condition is one clause of a Filter.
type Condition struct {
	Field Field
	Op    Operator
	Value any // string for OpContains, int for OpEquals on releaseYear, Range for OpRange
}

// Filter is a conjunction of conditions, at most one per field.
type Filter struct {
	Conditions []Condition
}

// IsEmpty reports whether the filter matches every record.
func (f Filter) IsEmpty() bool { return len(f.Conditions) == 0 }

// Get returns the condition on field, if any.
func (f Filter) Get(field Field) (Condition, bool) {
	for _, c := range f.Conditions {
		if c.Field == field {
			return c, true
		}
	}
	return Condition{}, false
}

// FilterBuilder accumulates conditions. Setting a field twice replaces the
// earlier condition, so the built filter never repeats a field.
type FilterBuilder struct {
	conds []Condition
}

// NewFilterBuilder creates an empty builder.
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{}
}

// Contains adds a case-insensitive substring match. Empty values are ignored.
func (b *FilterBuilder) Contains(field Field, value string) *FilterBuilder {
	if value == "" {
		return b
	}
	return b.set(Condition{Field: field, Op: OpContains, Value: value})
}

// Equals adds an exact match.
func (b *FilterBuilder) Equals(field Field, value any) *FilterBuilder {
	return b.set(Condition{Field: field, Op: OpEquals, Value: value})
}

// Between adds an inclusive range. It is a no-op when both bounds are nil.
func (b *FilterBuilder) Between(field Field, lo, hi *float64) *FilterBuilder {
	if lo == nil && hi == nil {
		return b
	}
	return b.set(Condition{Field: field, Op: OpRange, Value: Range{Min: lo, Max: hi}})
}

// Build returns the accumulated filter.
func (b *FilterBuilder) Build() Filter {
	out := make([]Condition, len(b.conds))
	copy(out, b.conds)
	return Filter{Conditions: out}
}

func (b *FilterBuilder) set(c Condition) *FilterBuilder {
	for i := range b.conds {
		if b.conds[i].Field == c.Field {
			b.conds[i] = c
			return b
		}
	}
	b.conds = append(b.conds, c)
	return b
}
