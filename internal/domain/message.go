package domain

import "time"

// Message is one append-only log record. For the chat and pairing
// surfaces Recipient is the partner's handle; on the board it is the
// thread id in decimal. Rows are never updated after creation, and log
// order is CreatedAt ascending with ID as the tiebreaker.
type Message struct {
	ID        uint64    `gorm:"primaryKey"`
	Surface   Surface   `gorm:"type:text;not null;index:idx_messages_surface_pair,priority:1"`
	Sender    string    `gorm:"type:text;not null;index:idx_messages_surface_pair,priority:2"`
	Recipient string    `gorm:"type:text;not null;index:idx_messages_surface_pair,priority:3"`
	Body      string    `gorm:"type:text;not null"`
	// Theme is set only on the first themed message of a conversation;
	// every later message inherits the theme by lookup, not by copy.
	Theme     *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null;index"`
}
