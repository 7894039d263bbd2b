package domain

import "time"

// Branch models a rental branch office.
type Branch struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
