package cloudflare

import (
	"context"
	"fmt"
	"log/slog"

	"gitlab.bluewillows.net/root/ddnsd/pkg/provider"
)

// Store implements provider.RecordStore for one configured Cloudflare zone.
type Store struct {
	name   string
	zoneID string
	client *Client
	logger *slog.Logger
}

// StoreOption is a functional option for configuring the Store.
type StoreOption func(*Store)

// WithStoreLogger sets a custom logger for the store and its API client.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStoreClient sets a custom API client (useful for testing).
func WithStoreClient(client *Client) StoreOption {
	return func(s *Store) {
		s.client = client
	}
}

// New creates a new Cloudflare record store.
func New(name string, config *Config, opts ...StoreOption) (*Store, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Store{
		name:   name,
		zoneID: config.ZoneID,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		s.client = NewClient(config.APIKey, WithLogger(s.logger))
	}

	return s, nil
}

// Name returns the configured backend instance name.
func (s *Store) Name() string {
	return s.name
}

// Type returns "cloudflare".
func (s *Store) Type() string {
	return "cloudflare"
}

// FindRecord returns the zone's A record for host, or nil if none exists.
func (s *Store) FindRecord(ctx context.Context, host string) (*provider.Record, error) {
	record, err := s.client.FindRecord(ctx, s.zoneID, host)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return toProviderRecord(record), nil
}

// CreateRecord creates an A record pointing host at ip.
func (s *Store) CreateRecord(ctx context.Context, host, ip string) (*provider.Record, error) {
	record, err := s.client.CreateRecord(ctx, s.zoneID, host, ip)
	if err != nil {
		return nil, err
	}
	return toProviderRecord(record), nil
}

// UpdateRecord rewrites the record identified by id to point host at ip.
func (s *Store) UpdateRecord(ctx context.Context, id, host, ip string) (*provider.Record, error) {
	record, err := s.client.UpdateRecord(ctx, s.zoneID, id, host, ip)
	if err != nil {
		return nil, err
	}
	return toProviderRecord(record), nil
}

func toProviderRecord(r *dnsRecord) *provider.Record {
	return &provider.Record{
		ID:      r.ID,
		Type:    r.Type,
		Name:    r.Name,
		Content: r.Content,
	}
}

// Factory returns a provider.Factory for use with the provider registry.
func Factory(opts ...StoreOption) provider.Factory {
	return func(settings provider.Settings) (provider.RecordStore, error) {
		cfg := &Config{
			APIKey: settings.APIKey,
			ZoneID: settings.ZoneID,
		}
		return New(settings.Name, cfg, opts...)
	}
}

// Ensure Store implements provider.RecordStore at compile time.
var _ provider.RecordStore = (*Store)(nil)
