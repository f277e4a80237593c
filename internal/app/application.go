package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"tutorboard/internal/api"
	"tutorboard/internal/completion"
	"tutorboard/internal/config"
	"tutorboard/internal/directory"
	"tutorboard/internal/dispatch"
	"tutorboard/internal/points"
	"tutorboard/internal/prompt"
	"tutorboard/internal/room"
	"tutorboard/internal/session"
	"tutorboard/internal/websocket"
	pkgdatabase "tutorboard/pkg/database"
)

// Application coordinates all relay components with an owned lifecycle. All
// external clients (directory, completion service, session verification) are
// constructed here and injected; nothing reaches for ambient globals.
type Application struct {
	config     *config.Config
	directory  *directory.Store
	registry   *websocket.Registry
	rooms      *room.Manager
	dispatcher *dispatch.Dispatcher
	apiServer  *api.Server
	httpServer *http.Server
}

// New builds an application from configuration. Initialization follows
// dependency order: directory, registry and rooms, completion pipeline,
// dispatcher, handlers, HTTP server.
func New(cfg *config.Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	dbCfg := pkgdatabase.DefaultConfig()
	dbCfg.Path = cfg.DirectoryPath

	dir, err := directory.NewStore(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize user directory: %w", err)
	}

	registry := websocket.NewRegistry()
	rooms := room.NewManager()
	topics := prompt.NewResolver(dir)
	ledger := points.NewLedger(dir)

	completer := completion.NewClient(completion.ClientConfig{
		BaseURL:   cfg.CompletionBaseURL,
		APIKey:    cfg.CompletionAPIKey,
		Model:     cfg.CompletionModel,
		MaxTokens: cfg.CompletionMaxTokens,
		Timeout:   cfg.CompletionTimeout,
		Scored:    cfg.Scored,
	})

	dispatcher := dispatch.NewDispatcher(registry, topics, completer, ledger, cfg.Scored, cfg.CompletionTimeout)

	sessions := session.NewTokenStore(cfg.SessionSecret)

	wsHandler := websocket.NewHandler(registry, rooms, dir, sessions, topics, dispatcher, websocket.Options{
		PingInterval: cfg.PingInterval,
		ReadTimeout:  cfg.WSReadTimeout,
		BufferSize:   cfg.WSBufferSize,
	})

	apiServer := api.NewServer(dir, registry, rooms)

	mux := http.NewServeMux()
	mux.Handle("/health", apiServer)
	mux.Handle("/stats", apiServer)
	mux.HandleFunc("/ws", wsHandler.HandleWebSocket)

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Application{
		config:     cfg,
		directory:  dir,
		registry:   registry,
		rooms:      rooms,
		dispatcher: dispatcher,
		apiServer:  apiServer,
		httpServer: httpServer,
	}, nil
}

// Start begins serving. Returns after the listener is confirmed up or the
// startup failed.
func (app *Application) Start(ctx context.Context) error {
	log.Printf("Starting tutorboard on %s (scored mode: %v)", app.httpServer.Addr, app.config.Scored)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := app.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case err := <-serverErrCh:
		return err
	case <-time.After(100 * time.Millisecond):
		log.Printf("tutorboard started")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop shuts down in reverse dependency order: HTTP first so no new
// connections arrive, then the directory.
func (app *Application) Stop(ctx context.Context) error {
	log.Printf("Shutting down tutorboard")

	if err := app.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if err := app.directory.Close(); err != nil {
		log.Printf("Directory shutdown error: %v", err)
	}

	log.Printf("tutorboard shutdown complete")
	return nil
}

// Addr returns the server address for external connections.
func (app *Application) Addr() string {
	return app.httpServer.Addr
}
