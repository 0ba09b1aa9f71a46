// Package queueaccess gives the CLI one queue interface whether a daemon is
// running (HTTP-backed) or not (direct store access).
package queueaccess

import (
	"context"

	"searchtube/internal/api"
	"searchtube/internal/ingest"
	"searchtube/internal/queue"
)

// Access provides queue operations regardless of HTTP or direct store backing.
type Access interface {
	Ingest(ctx context.Context, urls []string) (api.IngestResponse, error)
	Stats(ctx context.Context) (map[string]int, error)
	List(ctx context.Context, states []string) ([]api.QueueJob, error)
	Describe(ctx context.Context, id string) (*api.QueueJob, error)
	ClearTerminal(ctx context.Context) (int64, error)
}

// NewHTTPAccess returns an Access backed by a running daemon's API.
func NewHTTPAccess(client *api.Client) Access {
	return &httpAccess{client: client}
}

// NewStoreAccess returns an Access backed by direct DB access.
func NewStoreAccess(store *queue.Store, gate Ingestor) Access {
	return &storeAccess{store: store, gate: gate, service: api.NewQueueService(store)}
}

// Ingestor is satisfied by ingest.Gate.
type Ingestor interface {
	Ingest(ctx context.Context, urls []string) (ingest.Result, error)
}

type httpAccess struct {
	client *api.Client
}

func (a *httpAccess) Ingest(ctx context.Context, urls []string) (api.IngestResponse, error) {
	return a.client.Ingest(ctx, urls)
}

func (a *httpAccess) Stats(ctx context.Context) (map[string]int, error) {
	status, err := a.client.Status(ctx)
	if err != nil {
		return nil, err
	}
	return status.Workflow.QueueStats, nil
}

func (a *httpAccess) List(ctx context.Context, states []string) ([]api.QueueJob, error) {
	return a.client.QueueList(ctx, states)
}

func (a *httpAccess) Describe(ctx context.Context, id string) (*api.QueueJob, error) {
	jobs, err := a.client.QueueList(ctx, nil)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		if jobs[i].ID == id {
			return &jobs[i], nil
		}
	}
	return nil, nil
}

func (a *httpAccess) ClearTerminal(ctx context.Context) (int64, error) {
	return a.client.QueueClear(ctx)
}

type storeAccess struct {
	store   *queue.Store
	gate    Ingestor
	service *api.QueueService
}

func (a *storeAccess) Ingest(ctx context.Context, urls []string) (api.IngestResponse, error) {
	result, err := a.gate.Ingest(ctx, urls)
	if err != nil {
		return api.IngestResponse{}, err
	}
	return api.IngestResponse{
		Accepted:  result.Accepted,
		Duplicate: result.Duplicate,
		Malformed: result.Malformed,
	}, nil
}

func (a *storeAccess) Stats(ctx context.Context) (map[string]int, error) {
	return a.service.Stats(ctx)
}

func (a *storeAccess) List(ctx context.Context, states []string) ([]api.QueueJob, error) {
	var filters []queue.State
	for _, s := range states {
		if parsed, ok := queue.ParseState(s); ok {
			filters = append(filters, parsed)
		}
	}
	return a.service.List(ctx, filters...)
}

func (a *storeAccess) Describe(ctx context.Context, id string) (*api.QueueJob, error) {
	return a.service.Describe(ctx, id)
}

func (a *storeAccess) ClearTerminal(ctx context.Context) (int64, error) {
	return a.store.ClearTerminal(ctx)
}
