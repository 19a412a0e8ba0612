package query

// Sort is a single-key ordering.
type Sort struct {
	Field Field
	Desc  bool
}

// DefaultSort is newest first.
var DefaultSort = Sort{Field: FieldCreatedAt, Desc: true}

// NewSort resolves sortBy/sortOrder. An empty sortBy yields DefaultSort and
// any order other than "asc" sorts descending.
func NewSort(sortBy, sortOrder string) Sort {
	if sortBy == "" {
		return DefaultSort
	}
	return Sort{Field: Field(sortBy), Desc: sortOrder != "asc"}
}

// IsSortable reports whether name is an accepted sortBy value.
func IsSortable(name string) bool {
	for _, f := range SortableFields {
		if string(f) == name {
			return true
		}
	}
	return false
}
