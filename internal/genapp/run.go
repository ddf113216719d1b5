package genapp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"airtable-graphql/internal/airtable"
	"airtable-graphql/internal/logging"
	"airtable-graphql/internal/observability"
	"airtable-graphql/internal/source"
)

const (
	baseSuffix      = ".json"
	sdlSuffix       = ".graphql"
	resolversSuffix = "_resolvers.go"
)

// Result describes a finished run.
type Result struct {
	RunID     string
	Files     []string
	Artifacts *Artifacts
	Duration  time.Duration
}

// Run loads the configured base, generates every artifact and writes them to
// the output directory. Nothing is written when generation fails.
func (a *App) Run(ctx context.Context) (*Result, error) {
	if err := a.Init(ctx); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := a.logger.WithRunID(runID)
	ctx = logging.WithLogger(logging.WithRunIDContext(ctx, runID), logger)

	ctx, span := a.tracer.Start(ctx, "generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("run_id", runID),
		attribute.String("source.path", a.cfg.Source.Path),
	)

	start := time.Now()
	artifacts, files, err := a.run(ctx)
	duration := time.Since(start)

	outcome := "success"
	var stats observability.GenerationStats
	if artifacts != nil {
		stats = artifacts.Stats
	}
	if err != nil {
		outcome = "failure"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	a.metrics.RecordRun(ctx, outcome, duration, stats)
	if path := a.cfg.Observability.MetricsTextfile; path != "" {
		if werr := a.meterProvider.WriteTextfile(path); werr != nil {
			logger.Warn("failed to write metrics textfile",
				slog.String("path", path),
				slog.String("error", werr.Error()),
			)
		}
	}
	if err != nil {
		logger.Error("generation failed", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("generation complete",
		slog.Int("tables", stats.Tables),
		slog.Int("types", stats.Types),
		slog.Int("fields", stats.Fields),
		slog.Int("dangling_refs", stats.DanglingRefs),
		slog.Duration("duration", duration),
		slog.Any("files", files),
	)
	return &Result{
		RunID:     runID,
		Files:     files,
		Artifacts: artifacts,
		Duration:  duration,
	}, nil
}

func (a *App) run(ctx context.Context) (*Artifacts, []string, error) {
	base, err := a.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	artifacts, err := a.Generate(ctx, base)
	if err != nil {
		return nil, nil, err
	}

	files, err := a.write(ctx, artifacts)
	if err != nil {
		return artifacts, nil, err
	}
	return artifacts, files, nil
}

func (a *App) load(ctx context.Context) (airtable.Base, error) {
	var base airtable.Base
	err := a.phase(ctx, "load", func(context.Context) error {
		format, err := source.ParseFormat(a.cfg.Source.Format)
		if err != nil {
			return err
		}
		base, err = source.Load(a.cfg.Source.Path, format)
		if err != nil {
			return fmt.Errorf("load base schema: %w", err)
		}
		logging.FromContextOr(ctx, a.logger).Debug("base schema loaded",
			slog.String("base_id", base.ID),
			slog.Int("tables", len(base.Tables)),
		)
		return nil
	})
	return base, err
}

// output is one artifact and its destination.
type output struct {
	path string
	data []byte
}

// write stores the artifacts under the output directory and returns their paths.
// Every artifact is staged next to its destination before any is renamed into
// place, so a failed staging leaves existing files untouched.
func (a *App) write(ctx context.Context, artifacts *Artifacts) ([]string, error) {
	var files []string
	err := a.phase(ctx, "write", func(context.Context) error {
		dir := a.cfg.Output.Dir
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}

		name := a.cfg.Output.Name
		outputs := []output{
			{filepath.Join(dir, name+baseSuffix), artifacts.Base},
			{filepath.Join(dir, name+sdlSuffix), artifacts.SDL},
			{filepath.Join(dir, name+resolversSuffix), artifacts.Resolvers},
		}
		if err := writeAll(outputs); err != nil {
			return err
		}
		for _, out := range outputs {
			files = append(files, out.path)
		}
		return nil
	})
	return files, err
}

func writeAll(outputs []output) error {
	staged := make([]string, 0, len(outputs))
	defer func() {
		for _, tmp := range staged {
			if tmp != "" {
				_ = os.Remove(tmp)
			}
		}
	}()

	for _, out := range outputs {
		if info, err := os.Stat(out.path); err == nil && info.IsDir() {
			return fmt.Errorf("write %s: destination is a directory", out.path)
		}
		tmp, err := stage(out)
		if err != nil {
			return fmt.Errorf("write %s: %w", out.path, err)
		}
		staged = append(staged, tmp)
	}
	for i, out := range outputs {
		if err := os.Rename(staged[i], out.path); err != nil {
			return fmt.Errorf("write %s: %w", out.path, err)
		}
		staged[i] = ""
	}
	return nil
}

// stage writes out to a temporary file in the destination directory.
func stage(out output) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(out.path), "."+filepath.Base(out.path)+".tmp-*")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(out.data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
