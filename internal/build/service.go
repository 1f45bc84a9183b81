package build

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"time"

	"git.home.luguber.info/inful/talc/internal/config"
	"git.home.luguber.info/inful/talc/internal/dates"
	"git.home.luguber.info/inful/talc/internal/foundation/errors"
	"git.home.luguber.info/inful/talc/internal/logfields"
	"git.home.luguber.info/inful/talc/internal/markdown"
	"git.home.luguber.info/inful/talc/internal/metrics"
	"git.home.luguber.info/inful/talc/internal/templates"
)

// Stage names reported to logs and metrics.
const (
	StageDocuments = "documents"
	StageListings  = "listings"
	StageFeeds     = "feeds"
	StageAssets    = "assets"
	StageWrite     = "write"
)

// BuildService is the interface every entry point (CLI, watcher, tests) runs builds through.
type BuildService interface {
	Run(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BuildRequest holds per-run options.
type BuildRequest struct {
	// DryRun renders everything but writes and copies nothing.
	DryRun bool
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	BuildStatusSuccess   BuildStatus = "success"
	BuildStatusFailed    BuildStatus = "failed"
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsSuccess returns true if the build completed successfully.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess
}

// BuildResult contains the outcome of a build execution.
type BuildResult struct {
	Status BuildStatus

	// Documents is the number of published documents processed.
	Documents int
	// Written is the number of files written to the output directory.
	Written int

	// Files are the rendered outputs after de-duplication.
	Files []RenderedFile
	// Assets are the collected asset paths in first-seen order.
	Assets []string

	Duration  time.Duration
	StartTime time.Time
	EndTime   time.Time
}

// RenderedFile is one output of a build, named relative to the output directory.
type RenderedFile struct {
	Filename string
	Contents string
	Metadata templates.Metadata
}

// Option configures a DefaultBuildService.
type Option func(*DefaultBuildService)

// WithRecorder reports stage and build metrics to recorder.
func WithRecorder(recorder metrics.Recorder) Option {
	return func(s *DefaultBuildService) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// WithDates replaces the date collaborator, typically to fix the clock in tests.
func WithDates(d *dates.Dates) Option {
	return func(s *DefaultBuildService) {
		s.dates = d
	}
}

// WithTransformers replaces the transformer registry.
func WithTransformers(registry *TransformerRegistry) Option {
	return func(s *DefaultBuildService) {
		s.transformers = registry
	}
}

// DefaultBuildService is the standard BuildService.
type DefaultBuildService struct {
	cfg          *config.Config
	dates        *dates.Dates
	converter    *markdown.Converter
	transformers *TransformerRegistry
	recorder     metrics.Recorder

	posts    []config.TemplateConfig
	listings []listingTemplate
}

// NewBuildService partitions the configured templates by role and resolves
// every listing transformer. Unknown transformers are configuration errors.
func NewBuildService(cfg *config.Config, opts ...Option) (*DefaultBuildService, error) {
	if cfg == nil {
		return nil, errors.ConfigError("config required").Build()
	}

	s := &DefaultBuildService{
		cfg:          cfg,
		converter:    markdown.NewConverter(),
		transformers: DefaultTransformers(),
		recorder:     metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.dates == nil {
		d, err := dates.New(cfg.DateFormat)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "invalid date_format").Build()
		}
		s.dates = d
	}

	for _, t := range cfg.Pages.Templates {
		switch t.Role() {
		case config.RolePost:
			s.posts = append(s.posts, t)
		case config.RoleListing:
			transformer, err := s.transformers.New(t.Transformer, TransformerSpec{Filename: t.Filename})
			if err != nil {
				return nil, errors.WrapError(err, errors.CategoryConfig, "invalid listing transformer").
					WithContext("template", t.Template).
					Build()
			}
			s.listings = append(s.listings, listingTemplate{TemplateConfig: t, transformer: transformer})
		case config.RoleUnclassified:
			slog.Debug("Skipping unclassified template", logfields.Template(t.Template))
		}
	}

	return s, nil
}

// run is the state of a single build.
type run struct {
	cfg       *config.Config
	dates     *dates.Dates
	converter *markdown.Converter
	parser    *templates.Parser
	renderer  *templates.Renderer
	assets    *templates.AssetSet
	recorder  metrics.Recorder

	posts    []config.TemplateConfig
	listings []listingTemplate

	docs   []Document
	files  []RenderedFile
	copies []assetCopy
}

func (s *DefaultBuildService) newRun() *run {
	assets := templates.NewAssetSet()
	return &run{
		cfg:       s.cfg,
		dates:     s.dates,
		converter: s.converter,
		parser:    templates.NewParser(os.DirFS(s.cfg.TemplatesDir()), templates.NewCache()),
		renderer:  templates.NewRenderer(assets),
		assets:    assets,
		recorder:  s.recorder,
		posts:     s.posts,
		listings:  s.listings,
	}
}

// Run executes every stage in order and stops at the first error.
// Cancellation is observed between stages and between documents.
func (s *DefaultBuildService) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	startTime := time.Now()
	result := &BuildResult{StartTime: startTime}
	r := s.newRun()

	stages := []struct {
		name string
		fn   func(context.Context) error
	}{
		{StageDocuments, r.processDocuments},
		{StageListings, r.compileListings},
		{StageFeeds, r.generateFeed},
		{StageAssets, r.collectAssets},
		{StageWrite, func(ctx context.Context) error {
			if req.DryRun {
				slog.Info("Dry run, skipping write", logfields.Count(len(r.files)))
				return nil
			}
			written, err := r.write(ctx)
			result.Written = written
			return err
		}},
	}

	for _, st := range stages {
		if err := s.runStage(ctx, st.name, st.fn); err != nil {
			result.Documents = len(r.docs)
			return s.finish(result, err)
		}
	}

	result.Documents = len(r.docs)
	result.Files = r.files
	result.Assets = r.assets.Paths()
	return s.finish(result, nil)
}

func (s *DefaultBuildService) runStage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		s.recorder.IncStageResult(name, metrics.ResultCanceled)
		return err
	}

	stageStart := time.Now()
	slog.Debug("Starting stage", logfields.Stage(name))
	err := fn(ctx)
	elapsed := time.Since(stageStart)
	s.recorder.ObserveStageDuration(name, elapsed)

	switch {
	case err == nil:
		s.recorder.IncStageResult(name, metrics.ResultSuccess)
		slog.Debug("Stage completed",
			logfields.Stage(name),
			logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	case isCancellation(err):
		s.recorder.IncStageResult(name, metrics.ResultCanceled)
		slog.Warn("Stage canceled", logfields.Stage(name))
	default:
		s.recorder.IncStageResult(name, metrics.ResultFatal)
		slog.Error("Stage failed", logfields.Stage(name), logfields.Error(err))
	}
	return err
}

func (s *DefaultBuildService) finish(result *BuildResult, err error) (*BuildResult, error) {
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	s.recorder.ObserveBuildDuration(result.Duration)

	switch {
	case err == nil:
		result.Status = BuildStatusSuccess
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
		slog.Info("Build completed",
			logfields.Count(len(result.Files)),
			slog.Int("documents", result.Documents),
			slog.Int("assets", len(result.Assets)),
			logfields.DurationMS(float64(result.Duration.Microseconds())/1000))
	case isCancellation(err):
		result.Status = BuildStatusCancelled
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeCanceled)
	default:
		result.Status = BuildStatusFailed
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
	}
	return result, err
}

func isCancellation(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}
