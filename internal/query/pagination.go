package query

// Page is a validated page window: Page >= 1 and Limit >= 1.
type Page struct {
	Page  int
	Limit int
}

// Skip is the number of records before the window.
func (p Page) Skip() int {
	return (p.Page - 1) * p.Limit
}

// Pagination is the block echoed back to clients.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// Paginate combines the window with the total row count. Page is echoed
// as-is even when it lies beyond the last page.
func (p Page) Paginate(total int64) Pagination {
	return Pagination{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: PageCount(total, p.Limit),
	}
}

// PageCount is ceil(total/limit), and 0 for an empty result.
func PageCount(total int64, limit int) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}
