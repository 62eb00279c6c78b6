package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"tsunagari/internal/domain"
	"tsunagari/internal/observability/middleware"
	"tsunagari/internal/service"
	"tsunagari/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	identity *service.IdentityService
	tokens   *service.TokenService
	convos   *service.ConversationService
	friends  *service.FriendshipService
	board    *service.BoardService
	pairing  *service.PairingService
	sessions *session.Manager
}

func NewHandler(
	identity *service.IdentityService,
	tokens *service.TokenService,
	convos *service.ConversationService,
	friends *service.FriendshipService,
	board *service.BoardService,
	pairing *service.PairingService,
	sessions *session.Manager,
) *Handler {
	return &Handler{
		identity: identity,
		tokens:   tokens,
		convos:   convos,
		friends:  friends,
		board:    board,
		pairing:  pairing,
		sessions: sessions,
	}
}

func NewRouter(h *Handler, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(httprate.LimitByIP(100, 1*time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Session-ID", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.WithMetrics)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/{surface}/register", h.handleRegister)
		r.Post("/{surface}/login", h.handleLogin)

		r.Route("/board", func(r chi.Router) {
			r.Use(h.requireAuth(domain.SurfaceBoard))
			r.Get("/threads", h.handleListThreads)
			r.Post("/threads", h.handleCreateThread)
			r.Get("/threads/{id}/messages", h.handleThreadMessages)
			r.Post("/threads/{id}/messages", h.handlePostMessage)
			r.Delete("/threads/{id}/messages", h.handlePurgeThread)
			r.Delete("/messages/{id}", h.handleDeleteMessage)
			r.Get("/users", h.handleListUsers)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Use(h.requireAuth(domain.SurfaceChat))
			r.Get("/messages", h.handleChatHistory)
			r.Post("/messages", h.handleChatSend)
			r.Get("/friends", h.handleChatFriends)
			r.Post("/friends", h.handleChatAddFriend)
		})

		r.Route("/pairing", func(r chi.Router) {
			r.Use(h.requireAuth(domain.SurfacePairing))
			r.Post("/partner", h.handleSetPartner)
			r.Get("/state", h.handlePairState)
			r.Post("/theme", h.handleChooseTheme)
			r.Post("/theme/next", h.handleNextPrompt)
			r.Post("/messages", h.handlePairingSend)
			r.Post("/friend-request", h.handleRequestFriend)
			r.Get("/requests", h.handleIncomingRequests)
			r.Post("/requests/approve", h.handleApproveRequest)
			r.Get("/friends", h.handlePairingFriends)
			r.Post("/logout", h.handleLogout)
		})
	})

	return r
}

// requireAuth validates the bearer token and pins it to one surface so
// a token minted for chat cannot act on the board.
func (h *Handler) requireAuth(surface domain.Surface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			id, err := h.tokens.Validate(strings.TrimSpace(raw[len("Bearer "):]))
			if err != nil || id.Surface != surface {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(service.ContextWithIdentity(r.Context(), id)))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps service and domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrUnknownTheme):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrThreadNotFound), errors.Is(err, domain.ErrRequestNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrHandleTaken),
		errors.Is(err, domain.ErrAlreadyRequested),
		errors.Is(err, domain.ErrAlreadyFriends),
		errors.Is(err, domain.ErrThresholdNotMet):
		status = http.StatusConflict
	}
	http.Error(w, err.Error(), status)
}
