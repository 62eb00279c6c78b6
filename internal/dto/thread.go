package dto

import "time"

type CreateThreadRequest struct {
	Title string `json:"title"`
}

type ThreadView struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

type PostRequest struct {
	Body string `json:"body"`
}
