package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/blogfeed/internal/config"
	"github.com/Sternrassler/blogfeed/pkg/blogapi"
	"github.com/Sternrassler/blogfeed/pkg/feed"
	"github.com/Sternrassler/blogfeed/pkg/logging"
)

// app holds the clients every command works with.
type app struct {
	cfg    *config.Config
	redis  *redis.Client
	client *blogapi.Client
	feed   *feed.Controller
	logger zerolog.Logger
}

func loadApp(ctx context.Context, flags *rootFlags) (*app, error) {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logging.Setup(cfg.LogSettings())

	a, err := newApp(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if flags.email != "" {
		if err := a.signIn(ctx, flags.email, flags.password); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{
		cfg:    cfg,
		logger: logging.NewLogger("cli"),
	}

	clientCfg := cfg.ClientSettings()
	if cfg.RedisURL != "" {
		rdb, err := connectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.logger.Info().Str("redis", cfg.RedisURL).Msg("Connected to Redis")
		a.redis = rdb
		clientCfg.Redis = rdb
	}

	client, err := blogapi.New(clientCfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating blog API client: %w", err)
	}
	a.client = client

	ctrl, err := feed.New(ctx, client, cfg.FeedSettings())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating feed controller: %w", err)
	}
	a.feed = ctrl

	return a, nil
}

// connectRedis accepts a bare host:port or a redis:// URL.
func connectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	opts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func (a *app) signIn(ctx context.Context, email, password string) error {
	session, err := a.client.SignIn(ctx, blogapi.Credentials{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("signing in: %w", err)
	}
	a.feed.SeedOwnPosts(session)
	return nil
}

// requireViewer fails early when the feed endpoint cannot be addressed.
func (a *app) requireViewer() error {
	if a.client.Viewer() == "" {
		return fmt.Errorf("%w: set %s or sign in with --email", blogapi.ErrNoViewer, config.EnvViewerID)
	}
	return nil
}

func (a *app) Close() {
	if a.feed != nil {
		a.feed.Wait()
	}
	var errs []error
	if a.client != nil {
		errs = append(errs, a.client.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn().Err(err).Msg("Shutdown incomplete")
	}
}
