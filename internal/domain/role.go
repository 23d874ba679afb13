package domain

import "time"

// Role is a named authorization group.
type Role struct {
	ID             string
	Name           string
	NormalizedName string
	CreatedAt      time.Time
}
