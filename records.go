package focus

import "time"

// ExistingRecord is the identity of a stored row. The store owns the id and
// both timestamps; callers only ever read them.
type ExistingRecord[T ~string] struct {
	ID        T
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewExistingRecord stamps a freshly inserted row with the current time.
func NewExistingRecord[T ~string](id string) ExistingRecord[T] {
	now := time.Now()
	return ExistingRecord[T]{
		ID:        T(id),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
