package validation

import (
	"sort"
	"strings"
)

// FieldError is one violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the full list of violations found in one pass. It is only ever
// returned as a non-empty error.
type Errors []FieldError

func (e Errors) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Messages returns the human-readable messages in order.
func (e Errors) Messages() []string {
	out := make([]string, len(e))
	for i, fe := range e {
		out[i] = fe.Message
	}
	return out
}

// collector gathers violations keyed by struct field so the final list follows
// declaration order regardless of which stage found them.
type collector struct {
	order map[string]int
	errs  Errors
}

func newCollector(order map[string]int) *collector {
	return &collector{order: order}
}

func (c *collector) add(field, message string) {
	c.errs = append(c.errs, FieldError{Field: field, Message: message})
}

func (c *collector) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	sort.SliceStable(c.errs, func(i, j int) bool {
		return c.order[c.errs[i].Field] < c.order[c.errs[j].Field]
	})
	return c.errs
}
