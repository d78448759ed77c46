package tenant

// Snapshot is a freshly listed collection together with the revision observed
// before the list query ran. A client must never replace a snapshot with one
// carrying a lower revision.
type Snapshot[T any] struct {
	Collection string `json:"collection"`
	Revision   int64  `json:"revision"`
	Items      []T    `json:"items"`
}
