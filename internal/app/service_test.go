package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shoppingmall/internal/config"
)

type fakeService struct {
	name     string
	startErr error
	stopErr  error
	block    bool
	started  atomic.Bool
	stopped  atomic.Bool
}

func (f *fakeService) Name() string { return f.name }

func (f *fakeService) Start(ctx context.Context) error {
	f.started.Store(true)
	if f.block {
		<-ctx.Done()
		return nil
	}
	return f.startErr
}

func (f *fakeService) Stop(_ context.Context) error {
	f.stopped.Store(true)
	return f.stopErr
}

func TestRunnerStopsAllServicesOnFailure(t *testing.T) {
	boom := errors.New("boom")
	failing := &fakeService{name: "worker", startErr: boom}
	blocking := &fakeService{name: "api", block: true}

	err := NewRunner(blocking, failing).Run(context.Background(), time.Second, nil)
	if !errors.Is(err, boom) || err.Error() != "worker: boom" {
		t.Fatalf("run error want worker: boom got %v", err)
	}
	if !failing.stopped.Load() || !blocking.stopped.Load() {
		t.Fatalf("every service should be stopped, failing=%v blocking=%v", failing.stopped.Load(), blocking.stopped.Load())
	}
}

func TestRunnerReturnsNilOnCancel(t *testing.T) {
	blocking := &fakeService{name: "blocking", block: true}
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	if err := NewRunner(blocking).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancelled run should return nil, got %v", err)
	}
	if !blocking.stopped.Load() {
		t.Fatalf("service should be stopped after cancel")
	}
}

func TestRunnerReportsStopFailure(t *testing.T) {
	stuck := errors.New("shutdown timeout")
	api := &fakeService{name: "api", block: true, stopErr: stuck}
	scheduler := &fakeService{name: "scheduler", block: true}
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	err := NewRunner(api, scheduler).Run(ctx, time.Second, nil)
	if !errors.Is(err, stuck) {
		t.Fatalf("stop failure should surface, got %v", err)
	}
	if !scheduler.stopped.Load() {
		t.Fatalf("later services should still be stopped after a stop failure")
	}
}

func TestRunnerRejectsBadServiceSet(t *testing.T) {
	first := &fakeService{name: "worker", block: true}
	second := &fakeService{name: "worker", block: true}
	if err := NewRunner(first, second).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("duplicate service names should be rejected")
	}
	if first.started.Load() || second.started.Load() {
		t.Fatalf("no service should start when the set is invalid")
	}
	if err := NewRunner(first, nil).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("nil service should be rejected")
	}
}

func TestRunnerNames(t *testing.T) {
	runner := NewRunner(NewHTTPService(":0", nil), &fakeService{name: "scheduler"})
	names := runner.Names()
	if len(names) != 2 || names[0] != ModeAPI || names[1] != "scheduler" {
		t.Fatalf("names want [api scheduler] got %v", names)
	}
}

func TestRunnerWithoutServices(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("empty runner should fail")
	}
}

func TestBuildRunnerRejectsBadMode(t *testing.T) {
	cfg := config.Defaults()
	if _, err := BuildRunner(cfg, "cron"); err == nil {
		t.Fatalf("unknown mode should be rejected")
	}
	cfg.Queue.Enabled = false
	if _, err := BuildRunner(cfg, ModeWorker); err == nil {
		t.Fatalf("worker mode without queue should be rejected")
	}
	if _, err := BuildRunner(nil, ModeAll); err == nil {
		t.Fatalf("nil config should be rejected")
	}
}

func TestNormalizeOptions(t *testing.T) {
	opts := normalizeOptions(Options{})
	if opts.Mode != ModeAll {
		t.Fatalf("mode want %s got %s", ModeAll, opts.Mode)
	}
	if opts.ShutdownTimeout != 10*time.Second {
		t.Fatalf("shutdown timeout want 10s got %s", opts.ShutdownTimeout)
	}
	if opts.Logger == nil {
		t.Fatalf("logger should default to the global sugared logger")
	}
}
