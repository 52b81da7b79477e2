package pagination

import "fmt"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params selects one page of an ordered list.
type Params struct {
	Limit  int
	Offset int
}

// New normalizes raw limit/offset values: a non-positive limit becomes
// DefaultLimit, limits above MaxLimit are capped and a negative offset is 0.
func New(limit, offset int) Params {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Params{Limit: limit, Offset: offset}
}

// Page returns the items selected by p. The result shares storage with items.
func Page[T any](items []T, p Params) []T {
	if p.Offset >= len(items) {
		return nil
	}
	end := p.Offset + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.Offset:end]
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Offset+p.Limit < total
}

// HasPrevious returns true if there are results before the current page.
func (p Params) HasPrevious() bool {
	return p.Offset > 0
}

// NextOffset returns the offset for the next page.
func (p Params) NextOffset() int {
	return p.Offset + p.Limit
}

// PreviousOffset returns the offset for the previous page.
// Returns 0 if the result would be negative.
func (p Params) PreviousOffset() int {
	prev := p.Offset - p.Limit
	if prev < 0 {
		return 0
	}
	return prev
}

// Summary describes the page for a table footer, e.g. "Showing 21-40 of 55".
func (p Params) Summary(total int) string {
	if total == 0 || p.Offset >= total {
		return fmt.Sprintf("Showing 0 of %d", total)
	}
	last := p.Offset + p.Limit
	if last > total {
		last = total
	}
	return fmt.Sprintf("Showing %d-%d of %d", p.Offset+1, last, total)
}
