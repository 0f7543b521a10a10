// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/sbuxpartner/sbuxpartners/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for partner roster and distribution history
// storage. This abstraction allows swapping storage backends (SQLite,
// PostgreSQL, etc.) without changing the service layer.
type Store interface {
	// CreatePartner adds a partner to the roster.
	// The partner.ID and partner.CreatedAt fields are populated by the store.
	CreatePartner(ctx context.Context, partner *models.Partner) error

	// GetPartner retrieves a roster partner by ID.
	// Returns an error wrapping ErrNotFound if the partner does not exist.
	GetPartner(ctx context.Context, partnerID string) (*models.Partner, error)

	// ListPartners returns the roster ordered by name.
	ListPartners(ctx context.Context) ([]*models.Partner, error)

	// CreateDistribution saves a computed distribution to the history.
	// The distribution.ID and distribution.CreatedAt fields are populated by the store.
	CreateDistribution(ctx context.Context, distribution *models.Distribution) error

	// GetDistribution retrieves a saved distribution with its payouts.
	// Returns an error wrapping ErrNotFound if the distribution does not exist.
	GetDistribution(ctx context.Context, distributionID string) (*models.Distribution, error)

	// ListDistributions returns the history, newest first.
	ListDistributions(ctx context.Context) ([]*models.Distribution, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
