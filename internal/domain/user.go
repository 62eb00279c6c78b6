package domain

import "time"

// User is an anonymous identity: a handle chosen at registration plus
// a credential digest. Handles are unique per surface and immutable.
type User struct {
	ID         uint    `gorm:"primaryKey"`
	Surface    Surface `gorm:"type:text;not null;uniqueIndex:idx_users_surface_handle,priority:1"`
	Handle     string  `gorm:"type:text;not null;uniqueIndex:idx_users_surface_handle,priority:2"`
	Credential string  `gorm:"type:text;not null"`
	CreatedAt  time.Time
}
