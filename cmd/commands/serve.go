package commands

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	pbhttp "github.com/idavillc/prompt-builder/internal/adapter/http"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	handlers := &pbhttp.Handlers{
		Tree:     a.tree,
		Prompts:  a.prompts,
		Settings: a.settings,
	}

	r := chi.NewRouter()
	r.Use(pbhttp.CORS(a.cfg.Server.CORSOrigin))
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(pbhttp.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/health", healthHandler(a))

	pbhttp.MountRoutes(r, handlers)

	addr := ":" + a.cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		a.log.Info("starting server", "addr", addr, "database", a.cfg.SQLite.Path)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("server failed", "error", err)
		}
	}()

	<-done
	a.log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// healthHandler reports service health including database reachability.
func healthHandler(a *app) http.HandlerFunc {
	type healthStatus struct {
		Status   string `json:"status"`
		Database string `json:"database"`
		Ready    bool   `json:"ready"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		status := healthStatus{
			Status:   "ok",
			Database: "ok",
			Ready:    a.tree.Ready() && a.prompts.Ready(),
		}
		if err := a.db.PingContext(r.Context()); err != nil {
			status.Status = "degraded"
			status.Database = err.Error()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(status)
	}
}
