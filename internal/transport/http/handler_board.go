package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tsunagari/internal/domain"
	"tsunagari/internal/dto"
	"tsunagari/internal/observability/metrics"
	"tsunagari/internal/service"

	"github.com/go-chi/chi/v5"
)

func idParam(r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (h *Handler) handleListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.board.Threads(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]dto.ThreadView, 0, len(threads))
	for _, t := range threads {
		out = append(out, dto.ThreadView{ID: t.ID, Title: t.Title, CreatedAt: t.CreatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleCreateThread(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	th, err := h.board.CreateThread(r.Context(), req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.ThreadView{ID: th.ID, Title: th.Title, CreatedAt: th.CreatedAt})
}

func (h *Handler) handleThreadMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "invalid thread id", http.StatusBadRequest)
		return
	}
	msgs, err := h.board.Messages(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageViews(msgs))
}

func (h *Handler) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "invalid thread id", http.StatusBadRequest)
		return
	}
	actor, _ := service.IdentityFrom(r.Context())
	var req dto.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	msg, err := h.board.Post(r.Context(), actor.Handle, id, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.MessagesAppendedTotal.WithLabelValues(string(domain.SurfaceBoard)).Inc()
	writeJSON(w, http.StatusCreated, messageView(msg))
}

func (h *Handler) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "invalid message id", http.StatusBadRequest)
		return
	}
	actor, _ := service.IdentityFrom(r.Context())
	if err := h.board.DeleteMessage(r.Context(), actor.Handle, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handlePurgeThread(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "invalid thread id", http.StatusBadRequest)
		return
	}
	actor, _ := service.IdentityFrom(r.Context())
	if err := h.board.PurgeThread(r.Context(), actor.Handle, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	actor, _ := service.IdentityFrom(r.Context())
	if !h.board.IsAdmin(actor.Handle) {
		writeError(w, domain.ErrForbidden)
		return
	}
	handles, err := h.identity.ListHandles(r.Context(), domain.SurfaceBoard)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, handles)
}

func messageView(m domain.Message) dto.MessageView {
	v := dto.MessageView{ID: m.ID, Sender: m.Sender, Body: m.Body, SentAt: m.CreatedAt}
	if m.Theme != nil {
		v.Theme = *m.Theme
	}
	return v
}

func messageViews(msgs []domain.Message) []dto.MessageView {
	out := make([]dto.MessageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageView(m))
	}
	return out
}
