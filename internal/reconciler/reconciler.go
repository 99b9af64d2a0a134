// Package reconciler implements the core logic for making a remote DNS
// address record match the IP a dynamic-DNS client reported: look up the
// current record, compare, and either do nothing, update it, or create it.
package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gitlab.bluewillows.net/root/ddnsd/internal/metrics"
	"gitlab.bluewillows.net/root/ddnsd/pkg/provider"
)

// DefaultUpdateTimeout bounds one reconciliation call, covering the lookup
// and the at-most-one write that follows it.
const DefaultUpdateTimeout = 30 * time.Second

// Outcome labels for the updates_total metric.
const (
	outcomeNoop    = "noop"
	outcomeUpdated = "updated"
	outcomeCreated = "created"
	outcomeError   = "error"
)

// Reconciler dispatches update requests to the matching backend and runs
// the lookup-compare-write sequence against it.
//
// A Reconciler holds no mutable state; concurrent Update calls are
// independent and share only the read-only registry.
type Reconciler struct {
	registry *provider.Registry
	timeout  time.Duration
	logger   *slog.Logger
}

// Option is a functional option for configuring the Reconciler.
type Option func(*Reconciler)

// WithLogger sets a custom logger for the reconciler.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTimeout sets the per-call timeout. Zero disables the bound and
// leaves only the transport's own timeouts.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Reconciler) {
		r.timeout = timeout
	}
}

// New creates a new Reconciler that dispatches through the given registry.
func New(registry *provider.Registry, opts ...Option) *Reconciler {
	r := &Reconciler{
		registry: registry,
		timeout:  DefaultUpdateTimeout,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Update reconciles the backend's address record for host against ip.
//
// The caller is responsible for validating host and ip and for checking the
// request's shared secret; Update assumes both already happened.
//
// At most one write is issued per call: none when the existing record
// already holds ip, an update when it holds something else, a create when
// no record exists. Backend errors propagate unchanged.
func (r *Reconciler) Update(ctx context.Context, settings provider.Settings, host, ip string) (*provider.UpdateResult, error) {
	start := time.Now()

	store, err := r.registry.Open(settings)
	if err != nil {
		r.observe(settings.Name, outcomeError, start)
		return nil, err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	existing, err := store.FindRecord(ctx, host)
	if err != nil {
		r.observe(settings.Name, outcomeError, start)
		return nil, err
	}

	if existing == nil {
		return r.create(ctx, store, settings, host, ip, start)
	}

	if existing.Content == ip {
		r.logger.Info("record already up to date",
			slog.String("provider", settings.Name),
			slog.String("host", host),
			slog.String("ip", ip),
			slog.String("record_id", existing.ID),
		)
		r.observe(settings.Name, outcomeNoop, start)
		return &provider.UpdateResult{
			Success:  true,
			Message:  fmt.Sprintf("Record already up to date with IP %s", ip),
			RecordID: existing.ID,
		}, nil
	}

	return r.update(ctx, store, settings, existing, host, ip, start)
}

func (r *Reconciler) update(ctx context.Context, store provider.RecordStore, settings provider.Settings, existing *provider.Record, host, ip string, start time.Time) (*provider.UpdateResult, error) {
	r.logger.Info("updating existing record",
		slog.String("provider", settings.Name),
		slog.String("host", host),
		slog.String("old_ip", existing.Content),
		slog.String("new_ip", ip),
		slog.String("record_id", existing.ID),
	)

	record, err := store.UpdateRecord(ctx, existing.ID, host, ip)
	if err != nil {
		r.observe(settings.Name, outcomeError, start)
		return nil, err
	}

	r.observe(settings.Name, outcomeUpdated, start)
	return &provider.UpdateResult{
		Success:  true,
		Message:  fmt.Sprintf("Updated record %s to IP %s", host, ip),
		RecordID: record.ID,
	}, nil
}

func (r *Reconciler) create(ctx context.Context, store provider.RecordStore, settings provider.Settings, host, ip string, start time.Time) (*provider.UpdateResult, error) {
	r.logger.Info("creating new record",
		slog.String("provider", settings.Name),
		slog.String("host", host),
		slog.String("ip", ip),
	)

	record, err := store.CreateRecord(ctx, host, ip)
	if err != nil {
		r.observe(settings.Name, outcomeError, start)
		return nil, err
	}

	r.observe(settings.Name, outcomeCreated, start)
	return &provider.UpdateResult{
		Success:  true,
		Message:  fmt.Sprintf("Created new record %s with IP %s", host, ip),
		RecordID: record.ID,
	}, nil
}

func (r *Reconciler) observe(providerName, outcome string, start time.Time) {
	metrics.UpdatesTotal.WithLabelValues(providerName, outcome).Inc()
	metrics.UpdateDuration.Observe(time.Since(start).Seconds())
}
