package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"tsunagari/internal/domain"
	"tsunagari/internal/dto"
	"tsunagari/internal/observability/metrics"
	"tsunagari/internal/service"

	"github.com/go-chi/chi/v5"
)

func surfaceParam(r *http.Request) domain.Surface {
	return domain.Surface(chi.URLParam(r, "surface"))
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	surface := surfaceParam(r)
	if !surface.Valid() {
		http.Error(w, "unknown surface", http.StatusNotFound)
		return
	}
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := h.identity.Register(r.Context(), surface, req.Handle, req.Password); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(string(surface), "failure").Inc()
		writeError(w, err)
		return
	}
	metrics.RegistrationsTotal.WithLabelValues(string(surface), "success").Inc()
	slog.Info("identity registered", "surface", surface)
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	surface := surfaceParam(r)
	if !surface.Valid() {
		http.Error(w, "unknown surface", http.StatusNotFound)
		return
	}
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := h.identity.Authenticate(r.Context(), surface, req.Handle, req.Password); err != nil {
		metrics.LoginsTotal.WithLabelValues(string(surface), "failure").Inc()
		// Always the same message; never hint whether the handle exists.
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	handle := service.PolicyFor(surface).NormalizeHandle(req.Handle)
	token, err := h.tokens.Issue(surface, handle)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := dto.LoginResponse{Token: token, Handle: handle}
	if surface == domain.SurfacePairing {
		// Pairing keeps per-login scratch state (theme selection, card
		// index); a new session always starts clean.
		resp.SessionID = h.sessions.Start(surface, handle).ID
	}
	if surface == domain.SurfaceBoard {
		resp.Admin = h.board.IsAdmin(handle)
	}
	metrics.LoginsTotal.WithLabelValues(string(surface), "success").Inc()
	slog.Info("login", "surface", surface)
	writeJSON(w, http.StatusOK, resp)
}
