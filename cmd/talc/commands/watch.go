package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/talc/internal/build"
	ferrors "git.home.luguber.info/inful/talc/internal/foundation/errors"
	"git.home.luguber.info/inful/talc/internal/logfields"
	"git.home.luguber.info/inful/talc/internal/metrics"
	"git.home.luguber.info/inful/talc/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce    time.Duration `help:"Quiet period after the last change before rebuilding" default:"300ms"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address, e.g. :9090"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var reg *prom.Registry
	if w.MetricsAddr != "" {
		reg = prom.NewRegistry()
	}
	runner, err := newBuildRunner(cfg, "", reg)
	if err != nil {
		return err
	}

	if reg != nil {
		srv := &http.Server{
			Addr:              w.MetricsAddr,
			Handler:           metricsMux(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server failed", logfields.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		slog.Info("Serving metrics", slog.String("addr", w.MetricsAddr))
	}

	dirs := []string{cfg.Path(cfg.Published), cfg.TemplatesDir()}
	if cfg.Assets != "" {
		dirs = append(dirs, cfg.AssetsDir())
	}
	watcher, err := watch.New(watch.Config{
		Dirs:     dirs,
		Ignore:   []string{cfg.Path(cfg.Built)},
		Debounce: w.Debounce,
		Build: func(ctx context.Context) error {
			_, err := runner.run(ctx, build.BuildRequest{})
			return err
		},
	})
	if err != nil {
		return err
	}
	if err := watcher.Run(ctx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "watch failed").Build()
	}
	return nil
}

func metricsMux(reg *prom.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	return mux
}
