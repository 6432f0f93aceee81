package platform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"

	"github.com/notterhq/notter/pkg/core"
)

// Pinger is a remote store that can be probed cheaply. The PostgREST store
// implements it; injected mocks usually don't, in which case the probe falls
// back to FetchAll.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeWorker periodically probes the remote store and feeds connectivity
// transitions into the engine, which resyncs on reconnect.
type ProbeWorker struct {
	*worker.BaseWorker
	engine   *core.Engine
	remote   core.RemoteStore
	interval time.Duration
	logger   *slog.Logger
	cancel   context.CancelFunc
}

// NewProbeWorker builds a probe over remote with the given period.
func NewProbeWorker(engine *core.Engine, remote core.RemoteStore, interval time.Duration, logger *slog.Logger) *ProbeWorker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ProbeWorker{
		BaseWorker: worker.NewBaseWorker("connectivity-probe"),
		engine:     engine,
		remote:     remote,
		interval:   interval,
		logger:     logger,
	}
}

func (w *ProbeWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("probe already started (status: %s)", status)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *ProbeWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *ProbeWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

func (w *ProbeWorker) run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.probe(ctx)
		}
	}
}

func (w *ProbeWorker) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	online := w.check(probeCtx) == nil
	if online != w.engine.Online() {
		w.logger.Info("connectivity changed", "online", online)
	}
	if err := w.engine.SetOnlineStatus(ctx, online); err != nil {
		w.logger.Warn("resync after reconnect failed", "error", err)
	}
}

func (w *ProbeWorker) check(ctx context.Context) error {
	if p, ok := w.remote.(Pinger); ok {
		return p.Ping(ctx)
	}
	_, err := w.remote.FetchAll(ctx)
	return err
}
