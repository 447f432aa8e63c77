package grade

import "github.com/google/uuid"

// Row is an entry of Rows, keyed by a stable synthetic ID.
type Row[T any] struct {
	ID    string
	Value T
}

// Rows is an ordered list of form rows (assignments, courses) that can be added,
// edited and removed by ID without disturbing the order of the others.
// It is not safe for concurrent use.
type Rows[T any] struct {
	rows []Row[T]
}

// Add appends v and returns its ID.
func (r *Rows[T]) Add(v T) string {
	id := uuid.New().String()
	r.rows = append(r.rows, Row[T]{ID: id, Value: v})
	return id
}

// Remove drops the row with the given ID. It reports whether a row was removed.
func (r *Rows[T]) Remove(id string) bool {
	for i, row := range r.rows {
		if row.ID == id {
			r.rows = append(r.rows[:i:i], r.rows[i+1:]...)
			return true
		}
	}
	return false
}

// Update applies fn to the value of the row with the given ID.
func (r *Rows[T]) Update(id string, fn func(*T)) bool {
	for i := range r.rows {
		if r.rows[i].ID == id {
			fn(&r.rows[i].Value)
			return true
		}
	}
	return false
}

func (r *Rows[T]) Len() int { return len(r.rows) }

// Rows returns a copy of the rows in order.
func (r *Rows[T]) Rows() []Row[T] {
	res := make([]Row[T], len(r.rows))
	copy(res, r.rows)
	return res
}

// Values returns the row values in order.
func (r *Rows[T]) Values() []T {
	res := make([]T, 0, len(r.rows))
	for _, row := range r.rows {
		res = append(res, row.Value)
	}
	return res
}
