package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/gofrs/flock"

	"convertx/internal/artifacts"
	"convertx/internal/config"
	"convertx/internal/deps"
	"convertx/internal/dispatch"
	"convertx/internal/jobs"
	"convertx/internal/logging"
	"convertx/internal/registry"
)

// Daemon coordinates the API server and enforces single-instance execution.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *jobs.Store
	manager    *jobs.Manager
	resolver   *artifacts.Resolver
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	server  *apiServer
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	JobDBPath    string
	LockFilePath string
	Dependencies []deps.Status
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *jobs.Store, reg *registry.Registry, dispatcher *dispatch.Dispatcher, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || reg == nil || dispatcher == nil {
		return nil, errors.New("daemon requires config, store, registry, and dispatcher")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := cfg.LockFilePath()
	d := &Daemon{
		cfg:        cfg,
		logger:     logging.WithComponent(logger, "daemon"),
		store:      store,
		manager:    jobs.NewManager(cfg, store, dispatcher, logger),
		resolver:   artifacts.NewResolver(cfg.JobsRoot(), store),
		registry:   reg,
		dispatcher: dispatcher,
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}
	d.server = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock, reports preflight results, and launches
// the API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another convertxd instance holds %s", d.lockPath)
	}

	for _, status := range d.checkDependencies() {
		if status.Available {
			d.logger.Debug("dependency available", logging.String("name", status.Name))
			continue
		}
		d.logger.Warn("dependency unavailable",
			logging.String("name", status.Name),
			logging.String("detail", status.Detail),
		)
	}

	// Jobs interrupted by a crash stay pending forever; report them so
	// operators know those batches must be resubmitted.
	if stale, err := d.store.PendingJobs(ctx); err != nil {
		d.logger.Warn("pending job scan failed", logging.Error(err))
	} else if len(stale) > 0 {
		d.logger.Warn("jobs stuck in pending from a previous run",
			logging.Int("count", len(stale)),
		)
	}

	if err := d.server.start(ctx); err != nil {
		_ = d.lock.Unlock()
		return err
	}

	d.running.Store(true)
	d.logger.Info("daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts the API server down and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Swap(false) {
		return
	}
	d.server.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release lock", logging.Error(err))
	}
	d.logger.Info("daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Status reports daemon runtime information.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		JobDBPath:    d.store.Path(),
		LockFilePath: d.lockPath,
		Dependencies: d.checkDependencies(),
	}
}

func (d *Daemon) checkDependencies() []deps.Status {
	statuses := deps.CheckBinaries(deps.Requirements(d.cfg))
	statuses = append(statuses, deps.CheckWorkspace(d.cfg.Paths.DataDir, d.cfg.Conversion.MinFreeGiB))
	return statuses
}
