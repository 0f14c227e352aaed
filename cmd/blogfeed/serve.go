package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/blogfeed/pkg/feed"
	"github.com/Sternrassler/blogfeed/pkg/logging"
	"github.com/Sternrassler/blogfeed/pkg/metrics"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve feeds over HTTP",
		Long: `Serve the feed controller over HTTP.

  GET /feed?q=<token>          refresh the feed if stale and return it
  GET /feed?q=<token>&more=1   load the next page and return the feed
  GET /health, /ready, /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := loadApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireViewer(); err != nil {
				return err
			}
			return serve(ctx, ":"+a.cfg.Port, newMux(a.feed, a.redis), a.logger)
		},
	}
}

func newMux(ctrl *feed.Controller, rdb *redis.Client) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", readyHandler(rdb))
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/feed", feedHandler(ctrl, logging.NewLogger("server")))
	return mux
}

func serve(ctx context.Context, addr string, handler http.Handler, logger zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("Starting feed server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down feed server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// readyHandler reports whether the response cache is reachable. Without
// Redis the server is always ready.
func readyHandler(rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rdb == nil {
			fmt.Fprint(w, "OK (no cache)")
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := rdb.Ping(ctx).Err(); err != nil {
			http.Error(w, "redis unavailable: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "OK")
	}
}

type feedResponse struct {
	feed.View
	Footer  feed.Footer `json:"footer"`
	Fetched bool        `json:"fetched"`
}

func feedHandler(ctrl *feed.Controller, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		q := r.URL.Query()
		token := q.Get("q")

		var done <-chan struct{}
		if q.Get("more") == "1" {
			done = ctrl.LoadMoreDone(token)
		} else {
			done = ctrl.EnsureFreshDone(token)
		}
		fetched := done != nil
		if fetched && q.Get("async") != "1" {
			select {
			case <-done:
			case <-r.Context().Done():
				return
			}
		}

		v := ctrl.View(token)
		logger.Debug().
			Str("key", string(v.Key)).
			Bool("fetched", fetched).
			Int("posts", len(v.Posts)).
			Msg("Feed served")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(feedResponse{View: v, Footer: v.Footer(), Fetched: fetched}); err != nil {
			logger.Warn().Err(err).Msg("Failed to write feed response")
		}
	}
}
