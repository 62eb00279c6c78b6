package domain

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
)

// FriendRequest is unique per ordered (surface, from, to). A row with
// either status blocks any resend; there is no decline transition.
type FriendRequest struct {
	ID         uint          `gorm:"primaryKey"`
	Surface    Surface       `gorm:"type:text;not null;uniqueIndex:idx_friend_requests_pair,priority:1"`
	FromHandle string        `gorm:"type:text;not null;uniqueIndex:idx_friend_requests_pair,priority:2"`
	ToHandle   string        `gorm:"type:text;not null;uniqueIndex:idx_friend_requests_pair,priority:3"`
	Status     RequestStatus `gorm:"type:text;not null;default:pending"`
	CreatedAt  time.Time
}

// Friend is one directed edge. Mutual friendship is always two rows,
// inserted together when a request is approved.
type Friend struct {
	ID           uint    `gorm:"primaryKey"`
	Surface      Surface `gorm:"type:text;not null;uniqueIndex:idx_friends_pair,priority:1"`
	UserHandle   string  `gorm:"type:text;not null;uniqueIndex:idx_friends_pair,priority:2"`
	FriendHandle string  `gorm:"type:text;not null;uniqueIndex:idx_friends_pair,priority:3"`
	CreatedAt    time.Time
}
