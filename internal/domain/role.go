package domain

import "time"

// Role is an entry of the role catalogue. User role lists are not bound to it.
type Role struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}
