package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tsunagari/internal/config"
	"tsunagari/internal/observability/logging"
	"tsunagari/internal/observability/metrics"
	"tsunagari/internal/service"
	"tsunagari/internal/session"
	"tsunagari/internal/store"
	httptransport "tsunagari/internal/transport/http"
	"tsunagari/pkg/db"
)

func main() {
	cfg := config.Load()

	logger := logging.NewLogger(logging.Config{
		ServiceName: "tsunagari",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(logger)

	metrics.MustRegister("tsunagari")

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		log.Fatalf("gorm open: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx, gdb); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	st := store.New(gdb)
	hasher := service.NewBcryptHasher()
	identity := service.NewIdentityService(st, hasher)
	tokens := service.NewTokenService(cfg.SigningKey, cfg.Issuer, cfg.SessionTTL)
	convos := service.NewConversationService(st)
	friends := service.NewFriendshipService(st)
	board := service.NewBoardService(st, convos, cfg.AdminHandle)
	sessions := session.NewManager()
	pairing := service.NewPairingService(sessions, convos, friends)

	if err := identity.EnsureAdmin(ctx, cfg.AdminHandle, cfg.AdminPassword); err != nil {
		log.Fatalf("ensure admin: %v", err)
	}

	handler := httptransport.NewHandler(identity, tokens, convos, friends, board, pairing, sessions)
	router := httptransport.NewRouter(handler, corsOrigins(cfg.CORSOrigin))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("tsunagari listening", "addr", cfg.Addr)
	log.Fatal(srv.ListenAndServe())
}

func corsOrigins(raw string) []string {
	out := []string{}
	for _, o := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(o); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
