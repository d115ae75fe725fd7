package importer

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/veckert/daybook/internal/checksum"
	"github.com/veckert/daybook/internal/taskservice"
)

// appliedDir is the subdirectory processed batch files are archived into.
const appliedDir = "applied"

// Watch ingests *.json batch files dropped into dir until ctx is cancelled.
// Files already present at startup are processed first. Each successfully
// applied file is moved into the applied/ subdirectory; a checksum guard
// skips any file whose content was already applied during this run.
func Watch(ctx context.Context, svc *taskservice.Service, dir string, logger *slog.Logger) error {
	if err := os.MkdirAll(filepath.Join(dir, appliedDir), 0o755); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("importer: watching", slog.String("dir", dir))

	seen := make(map[string]struct{})

	// Drain anything that was waiting before the process started.
	sweep(ctx, svc, dir, seen, logger)

	for {
		select {
		case <-ctx.Done():
			logger.Info("importer: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			ingest(ctx, svc, ev.Name, seen, logger)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("importer: watch error", slog.String("error", err.Error()))
		}
	}
}

// sweep processes every batch file already sitting in dir.
func sweep(ctx context.Context, svc *taskservice.Service, dir string, seen map[string]struct{}, logger *slog.Logger) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("importer: initial scan failed", slog.String("error", err.Error()))
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ingest(ctx, svc, filepath.Join(dir, e.Name()), seen, logger)
	}
}

// ingest applies a single batch file and archives it.
func ingest(ctx context.Context, svc *taskservice.Service, path string, seen map[string]struct{}, logger *slog.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("importer: read failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	sum := checksum.Sum(data)
	if _, dup := seen[sum]; dup {
		logger.Debug("importer: already applied", slog.String("path", path))
		return
	}

	batch, err := DecodeBatch(bytes.NewReader(data))
	if err != nil {
		logger.Warn("importer: bad batch file", slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	n, err := Apply(ctx, svc, batch, logger)
	if err != nil {
		logger.Warn("importer: apply failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	seen[sum] = struct{}{}

	archived := filepath.Join(filepath.Dir(path), appliedDir, filepath.Base(path))
	if err := os.Rename(path, archived); err != nil {
		logger.Warn("importer: archive failed", slog.String("path", path), slog.String("error", err.Error()))
	}

	logger.Info("importer: batch applied",
		slog.String("path", path),
		slog.Int("created", n))
}
