package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/roomcraft/roomcraft/backend-go/internal/auth"
	"github.com/roomcraft/roomcraft/backend-go/internal/collab"
	"github.com/roomcraft/roomcraft/backend-go/internal/config"
	"github.com/roomcraft/roomcraft/backend-go/internal/design"
	"github.com/roomcraft/roomcraft/backend-go/internal/document"
	mw "github.com/roomcraft/roomcraft/backend-go/internal/middleware"
	"github.com/roomcraft/roomcraft/backend-go/internal/store"
)

// playgroundDesignID is the shared design anyone may edit without an account.
// It lives only in memory.
const playgroundDesignID = "design_playground"

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	authService := auth.NewService(st, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	designService := design.NewService(st, design.Options{
		Engine:      cfg.EngineOptions(),
		WallHeight:  cfg.WallHeight,
		PreviewSize: cfg.PreviewSize,
	})
	designHandler := design.NewHandler(designService)

	// The hub calls these from its own goroutine, outside any request.
	docLoader := func(designID string) (*document.Design, error) {
		if designID == playgroundDesignID {
			return document.NewSampleDesign(designID), nil
		}
		return designService.LoadDocument(context.Background(), designID)
	}
	docSaver := func(designID string, doc *document.Design) error {
		if designID == playgroundDesignID {
			return nil
		}
		doc.ID = designID
		if err := designService.StoreDocument(context.Background(), doc); err != nil {
			return fmt.Errorf("store document: %w", err)
		}
		return nil
	}

	hub := collab.NewHub(docLoader, docSaver,
		collab.WithSaveInterval(cfg.SaveInterval),
		collab.WithMinWallLength(cfg.MinWallLength),
	)
	go hub.Run()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	designHandler.Routes(api)

	// WebSocket endpoint
	r.HandleFunc("/ws/design/{designId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, designService, cfg.OriginHosts())
	})

	// Preflight for every route; the CORS middleware answers it.
	r.PathPrefix("/").Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first to save all dirty designs
		slog.Info("saving all designs...")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "database", storeKind(cfg.DatabaseURL))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// storeKind names the database scheme without leaking credentials to the log.
func storeKind(url string) string {
	kind, _, _ := strings.Cut(url, "://")
	return kind
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, authSvc *auth.Service, designSvc *design.Service, origins []string) {
	designID := mux.Vars(r)["designId"]

	var userID string
	var displayName string

	if designID == playgroundDesignID {
		userID = "anon-" + uuid.New().String()[:8]
		displayName = "Anonymous"
	} else {
		// Browsers cannot set headers on a websocket upgrade.
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		var err error
		userID, err = authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		if err := designSvc.CheckAccess(r.Context(), designID, userID); err != nil {
			if errors.Is(err, design.ErrNotMember) {
				http.Error(w, "not a design member", http.StatusForbidden)
				return
			}
			slog.Error("check design access", "error", err, "design", designID)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		user, err := authSvc.GetUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "user not found", http.StatusInternalServerError)
			return
		}
		displayName = user.DisplayName
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := collab.NewClient(hub, conn, userID, displayName, designID, clientID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
