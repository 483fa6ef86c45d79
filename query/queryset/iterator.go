package queryset

import "context"

// Iterator is a positional cursor over a query set's result window.
// Dereferencing via Scan fetches the window lazily through the owning
// query set, so a freshly built iterator costs nothing until used.
//
// Two iterators compare equal when they point into the same query set
// at the same offset. Comparing iterators from different query sets,
// or advancing past the End sentinel, is undefined.
type Iterator struct {
	qs     *QuerySet
	offset int
}

// Begin returns an iterator at the first row of the window.
func (qs *QuerySet) Begin() Iterator {
	return Iterator{qs: qs}
}

// End returns the one-past-the-last sentinel. Reaching it requires the
// window size, so the window is fetched if it has not been already.
func (qs *QuerySet) End(ctx context.Context) (Iterator, error) {
	n, err := qs.Size(ctx)
	if err != nil {
		return Iterator{}, err
	}
	return Iterator{qs: qs, offset: n}, nil
}

// Next returns the iterator advanced by one row.
func (it Iterator) Next() Iterator {
	return Iterator{qs: it.qs, offset: it.offset + 1}
}

// Prev returns the iterator moved back by one row.
func (it Iterator) Prev() Iterator {
	return Iterator{qs: it.qs, offset: it.offset - 1}
}

// Advance returns the iterator moved by n rows, which may be negative.
func (it Iterator) Advance(n int) Iterator {
	return Iterator{qs: it.qs, offset: it.offset + n}
}

// Offset returns the iterator's position within the window.
func (it Iterator) Offset() int { return it.offset }

// Equal reports whether both iterators point into the same query set
// at the same position.
func (it Iterator) Equal(other Iterator) bool {
	return it.qs == other.qs && it.offset == other.offset
}

// Scan materializes the row under the iterator into target.
func (it Iterator) Scan(ctx context.Context, target interface{}) error {
	return it.qs.At(ctx, it.offset, target)
}
