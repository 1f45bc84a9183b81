package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/talc/internal/build"
	"git.home.luguber.info/inful/talc/internal/config"
	"git.home.luguber.info/inful/talc/internal/logfields"
	"git.home.luguber.info/inful/talc/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	DryRun          bool   `name:"dry-run" help:"Render without writing output or copying assets"`
	MetricsTextfile string `name:"metrics-textfile" help:"Write build metrics in the Prometheus text format (overrides metrics.textfile)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner, err := newBuildRunner(cfg, b.MetricsTextfile, nil)
	if err != nil {
		return err
	}
	result, err := runner.run(ctx, build.BuildRequest{DryRun: b.DryRun})
	if err != nil {
		return err
	}
	fmt.Printf("Built %d documents into %s (%d files, %d assets)\n",
		result.Documents, cfg.Path(cfg.Built), len(result.Files), len(result.Assets))
	return nil
}

// buildRunner runs builds and exports metrics after each one.
type buildRunner struct {
	svc      *build.DefaultBuildService
	recorder *metrics.PrometheusRecorder
	textfile string
}

// newBuildRunner wires a build service with a Prometheus recorder when a
// metrics textfile is configured or reg is given.
func newBuildRunner(cfg *config.Config, textfile string, reg *prom.Registry) (*buildRunner, error) {
	if textfile == "" && cfg.Metrics != nil {
		textfile = cfg.Metrics.Textfile
	}
	if textfile != "" {
		textfile = cfg.Path(textfile)
	}

	r := &buildRunner{textfile: textfile}
	var opts []build.Option
	if textfile != "" || reg != nil {
		r.recorder = metrics.NewPrometheusRecorder(reg)
		opts = append(opts, build.WithRecorder(r.recorder))
	}

	svc, err := build.NewBuildService(cfg, opts...)
	if err != nil {
		return nil, err
	}
	r.svc = svc
	return r, nil
}

func (r *buildRunner) run(ctx context.Context, req build.BuildRequest) (*build.BuildResult, error) {
	result, err := r.svc.Run(ctx, req)
	if r.recorder != nil && r.textfile != "" {
		if werr := r.recorder.WriteTextfile(r.textfile); werr != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(r.textfile), logfields.Error(werr))
		}
	}
	return result, err
}
