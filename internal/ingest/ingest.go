// Package ingest validates submitted video URLs, extracts canonical video
// identifiers, and enqueues new jobs while ignoring duplicates.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"searchtube/internal/logging"
	"searchtube/internal/queue"
	"searchtube/internal/services"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{4,64}$`)

// Result summarizes one ingestion call.
type Result struct {
	Accepted  int
	Duplicate int
	Malformed int
	IDs       []string
}

// Gate normalizes submissions and inserts new queue jobs.
type Gate struct {
	store  *queue.Store
	logger *slog.Logger
}

// NewGate constructs an ingestion gate backed by the queue store.
func NewGate(store *queue.Store, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Gate{store: store, logger: logging.NewComponentLogger(logger, "ingest")}
}

// Ingest extracts video ids from the submitted URLs and enqueues any not yet
// tracked. Malformed entries never become jobs and are dropped rather than
// failing the batch; garbage input must not poison the pipeline.
func (g *Gate) Ingest(ctx context.Context, urls []string) (Result, error) {
	var result Result
	ids := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, raw := range urls {
		id, err := ExtractVideoID(raw)
		if err != nil {
			result.Malformed++
			g.logger.DebugContext(ctx, "dropping malformed submission",
				logging.String("submission", raw),
				logging.Error(err),
			)
			continue
		}
		if _, dup := seen[id]; dup {
			result.Duplicate++
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return result, nil
	}

	inserted, err := g.store.InsertNew(ctx, ids)
	if err != nil {
		return result, services.Wrap(services.ErrTransient, "ingest", "enqueue", "persist new jobs", err)
	}

	result.Accepted = int(inserted)
	result.Duplicate += len(ids) - int(inserted)
	result.IDs = ids
	g.logger.InfoContext(ctx, "ingested submissions",
		logging.Int("accepted", result.Accepted),
		logging.Int("duplicate", result.Duplicate),
		logging.Int("malformed", result.Malformed),
	)
	return result, nil
}

// ExtractVideoID derives the canonical video id from a submitted URL or bare
// id. Watch pages carry the id in the v query parameter; short-form and live
// URLs carry it as the trailing path segment. Extra parameters such as start
// offsets are discarded.
func ExtractVideoID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", services.Wrap(services.ErrValidation, "ingest", "parse", "empty submission", nil)
	}

	if !strings.Contains(trimmed, "/") && !strings.Contains(trimmed, "?") {
		if videoIDPattern.MatchString(trimmed) {
			return trimmed, nil
		}
		return "", invalidSubmission(trimmed)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "ingest", "parse", fmt.Sprintf("unparseable url %q", trimmed), err)
	}

	if id := parsed.Query().Get("v"); id != "" {
		if videoIDPattern.MatchString(id) {
			return id, nil
		}
		return "", invalidSubmission(trimmed)
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) > 0 {
		last := segments[len(segments)-1]
		switch {
		case len(segments) >= 2 && (segments[len(segments)-2] == "shorts" || segments[len(segments)-2] == "live" || segments[len(segments)-2] == "embed"):
			if videoIDPattern.MatchString(last) {
				return last, nil
			}
		case len(segments) == 1 && last != "" && last != "watch":
			// Short-link hosts put the id directly in the path.
			if videoIDPattern.MatchString(last) {
				return last, nil
			}
		}
	}

	return "", invalidSubmission(trimmed)
}

func invalidSubmission(raw string) error {
	return services.Wrap(services.ErrValidation, "ingest", "parse", fmt.Sprintf("no video id in %q", raw), nil)
}
