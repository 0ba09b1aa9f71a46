package daemon_test

import (
	"context"
	"testing"
	"time"

	"searchtube/internal/daemon"
	"searchtube/internal/logging"
	"searchtube/internal/queue"
	"searchtube/internal/stage"
	"searchtube/internal/testsupport"
	"searchtube/internal/workflow"
)

type noopStage struct{}

func (noopStage) Prepare(context.Context, *queue.Job) error { return nil }
func (noopStage) Execute(context.Context, *queue.Job) error { return nil }
func (noopStage) HealthCheck(context.Context) stage.Health {
	return stage.Healthy("noop")
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	mgr := workflow.NewManager(cfg, store, logger, workflow.StageSet{Metadata: noopStage{}})

	d, err := daemon.New(cfg, store, logger, mgr)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { d.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if d.APIAddr() == "" {
		t.Fatal("expected api server bound")
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	time.Sleep(50 * time.Millisecond)
	status = d.Status(ctx)
	if status.Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestDaemonServesIngestAndQueue(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	mgr := workflow.NewManager(cfg, store, logger, workflow.StageSet{Metadata: noopStage{}})

	d, err := daemon.New(cfg, store, logger, mgr)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { d.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	client := newTestClient(t, d)
	resp, err := client.Ingest(ctx, []string{"https://www.youtube.com/watch?v=abc123", "garbage"})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if resp.Accepted != 1 || resp.Malformed != 1 {
		t.Fatalf("unexpected ingest response: %#v", resp)
	}

	jobs, err := client.QueueList(ctx, nil)
	if err != nil {
		t.Fatalf("QueueList failed: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != "abc123" {
		t.Fatalf("unexpected queue listing: %#v", jobs)
	}

	daemonStatus, err := client.Status(ctx)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !daemonStatus.Running {
		t.Fatal("expected running status over http")
	}
}
