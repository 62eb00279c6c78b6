package http

import (
	"encoding/json"
	"net/http"

	"tsunagari/internal/domain"
	"tsunagari/internal/dto"
	"tsunagari/internal/observability/metrics"
	"tsunagari/internal/service"
)

func (h *Handler) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	actor, _ := service.IdentityFrom(r.Context())
	partner := r.URL.Query().Get("partner")
	if partner == "" {
		http.Error(w, "missing partner", http.StatusBadRequest)
		return
	}
	msgs, err := h.convos.Conversation(r.Context(), domain.SurfaceChat, actor.Handle, partner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ConversationResponse{Messages: messageViews(msgs)})
}

func (h *Handler) handleChatSend(w http.ResponseWriter, r *http.Request) {
	actor, _ := service.IdentityFrom(r.Context())
	var req dto.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	msg, err := h.convos.Append(r.Context(), service.AppendInput{
		Surface:   domain.SurfaceChat,
		Sender:    actor.Handle,
		Recipient: req.To,
		Body:      req.Body,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.MessagesAppendedTotal.WithLabelValues(string(domain.SurfaceChat)).Inc()
	writeJSON(w, http.StatusCreated, messageView(msg))
}

func (h *Handler) handleChatFriends(w http.ResponseWriter, r *http.Request) {
	actor, _ := service.IdentityFrom(r.Context())
	friends, err := h.friends.Friends(r.Context(), domain.SurfaceChat, actor.Handle)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FriendsResponse{Friends: friends})
}

// handleChatAddFriend is the chat surface's direct add: one-way, no
// threshold, no approval round-trip.
func (h *Handler) handleChatAddFriend(w http.ResponseWriter, r *http.Request) {
	actor, _ := service.IdentityFrom(r.Context())
	var req dto.AddFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := h.friends.AddFriend(r.Context(), domain.SurfaceChat, actor.Handle, req.Friend); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}
