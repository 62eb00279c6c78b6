package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"tsunagari/internal/domain"
	"tsunagari/internal/dto"
	"tsunagari/internal/observability/metrics"
	"tsunagari/internal/service"
)

// pairingSession resolves the caller's session and checks it belongs
// to the authenticated handle.
func (h *Handler) pairingSession(r *http.Request) (string, bool) {
	actor, _ := service.IdentityFrom(r.Context())
	sid := r.Header.Get("X-Session-ID")
	st, ok := h.sessions.Get(sid)
	if !ok || st.Handle != actor.Handle || st.Surface != domain.SurfacePairing {
		return "", false
	}
	return sid, true
}

func pairStateResponse(ps service.PairState) dto.PairStateResponse {
	return dto.PairStateResponse{
		Partner:      ps.Partner,
		Theme:        ps.Theme,
		ThemeChoices: ps.ThemeChoices,
		Prompt:       ps.Prompt,
		Messages:     messageViews(ps.Messages),
		CanRequest:   ps.CanRequest,
	}
}

func (h *Handler) handleSetPartner(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.pairingSession(r)
	if !ok {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}
	var req dto.SetPartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	ps, err := h.pairing.SetPartner(r.Context(), sid, req.Partner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pairStateResponse(ps))
}

// handlePairState backs the client's periodic refresh: everything in
// the response is re-derived from durable state on each poll.
func (h *Handler) handlePairState(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.pairingSession(r)
	if !ok {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}
	ps, err := h.pairing.State(r.Context(), sid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pairStateResponse(ps))
}

func (h *Handler) handleChooseTheme(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.pairingSession(r)
	if !ok {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}
	var req dto.ChooseThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := h.pairing.ChooseTheme(sid, req.Theme); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleNextPrompt(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.pairingSession(r)
	if !ok {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}
	prompt, err := h.pairing.NextPrompt(r.Context(), sid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.PromptResponse{Prompt: prompt})
}

func (h *Handler) handlePairingSend(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.pairingSession(r)
	if !ok {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}
	var req dto.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	msg, err := h.pairing.Send(r.Context(), sid, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.MessagesAppendedTotal.WithLabelValues(string(domain.SurfacePairing)).Inc()
	writeJSON(w, http.StatusCreated, messageView(msg))
}

func (h *Handler) handleRequestFriend(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.pairingSession(r)
	if !ok {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}
	if err := h.pairing.RequestFriend(r.Context(), sid); err != nil {
		metrics.FriendRequestsTotal.WithLabelValues("failure").Inc()
		writeError(w, err)
		return
	}
	metrics.FriendRequestsTotal.WithLabelValues("success").Inc()
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleIncomingRequests(w http.ResponseWriter, r *http.Request) {
	actor, _ := service.IdentityFrom(r.Context())
	from, err := h.friends.Incoming(r.Context(), domain.SurfacePairing, actor.Handle)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.IncomingRequestsResponse{From: from})
}

func (h *Handler) handleApproveRequest(w http.ResponseWriter, r *http.Request) {
	actor, _ := service.IdentityFrom(r.Context())
	var req dto.ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := h.friends.Approve(r.Context(), domain.SurfacePairing, actor.Handle, req.From); err != nil {
		writeError(w, err)
		return
	}
	metrics.FriendApprovalsTotal.Inc()
	slog.Info("friend request approved", "surface", domain.SurfacePairing)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handlePairingFriends(w http.ResponseWriter, r *http.Request) {
	actor, _ := service.IdentityFrom(r.Context())
	friends, err := h.friends.Friends(r.Context(), domain.SurfacePairing, actor.Handle)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FriendsResponse{Friends: friends})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sid, ok := h.pairingSession(r); ok {
		h.sessions.End(sid)
	}
	w.WriteHeader(http.StatusNoContent)
}
