package dto

import "time"

type SendMessageRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type MessageView struct {
	ID     uint64    `json:"id"`
	Sender string    `json:"sender"`
	Body   string    `json:"body"`
	Theme  string    `json:"theme,omitempty"`
	SentAt time.Time `json:"sentAt"`
}

type ConversationResponse struct {
	Messages []MessageView `json:"messages"`
}
