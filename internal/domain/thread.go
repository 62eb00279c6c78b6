package domain

import "time"

// Thread is a board-only container for messages. Threads never expire.
type Thread struct {
	ID        uint64 `gorm:"primaryKey"`
	Title     string `gorm:"type:text;not null"`
	CreatedAt time.Time
}
