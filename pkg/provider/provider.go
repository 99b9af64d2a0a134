// Package provider defines the capability interface that all DNS backends
// must implement, plus the shared types for reconciliation results.
package provider

import "context"

// RecordTypeA is the only record type ddnsd manages: an address record
// mapping a hostname to an IPv4 address.
const RecordTypeA = "A"

// Record represents a DNS record as seen by the remote provider.
// Records are owned by the provider; ddnsd never retains a copy
// between update calls.
type Record struct {
	ID      string
	Type    string
	Name    string
	Content string
}

// UpdateResult is the outcome of one reconciliation attempt.
type UpdateResult struct {
	Success  bool
	Message  string
	RecordID string
}

// Settings carries the identity and credentials of one configured backend.
// It is built once from static configuration and shared read-only across
// concurrent update calls.
type Settings struct {
	// Name is the unique dispatch key callers use to select this backend.
	Name string

	// Type selects which RecordStore implementation handles the update.
	Type string

	// APIKey is the backend API token (Bearer authentication).
	APIKey string

	// ZoneID scopes which records the credentials may operate on.
	ZoneID string
}

// RecordStore is the capability interface a DNS backend implements.
// Each backend (Cloudflare today, others later) exposes exactly the three
// operations the reconciliation engine needs.
//
// Hostname and address arguments are assumed validated by the caller;
// implementations must not re-validate them.
type RecordStore interface {
	// FindRecord returns the address record matching host exactly,
	// or nil if the backend has no such record. A missing record is
	// not an error.
	FindRecord(ctx context.Context, host string) (*Record, error)

	// CreateRecord creates a new address record pointing host at ip
	// and returns the created record.
	CreateRecord(ctx context.Context, host, ip string) (*Record, error)

	// UpdateRecord rewrites the record identified by id so that host
	// points at ip, preserving the record's type and name.
	UpdateRecord(ctx context.Context, id, host, ip string) (*Record, error)
}
