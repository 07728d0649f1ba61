package repository

import "time"

// Revision is one saved value of a key.
type Revision struct {
	ID      int64     `json:"id"`
	Key     string    `json:"key"`
	Value   string    `json:"value"`
	SavedAt time.Time `json:"saved_at"`
}
