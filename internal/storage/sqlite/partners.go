package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sbuxpartner/sbuxpartners/internal/models"
	"github.com/sbuxpartner/sbuxpartners/internal/storage"
)

// CreatePartner adds a partner to the roster.
func (s *SQLiteStore) CreatePartner(ctx context.Context, partner *models.Partner) error {
	if partner.ID == "" {
		partner.ID = uuid.New().String()
	}
	if partner.CreatedAt == 0 {
		partner.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO partners (id, name, created_at) VALUES (?, ?, ?)",
		partner.ID, partner.Name, partner.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert partner: %w", err)
	}

	return nil
}

// GetPartner retrieves a roster partner by ID.
func (s *SQLiteStore) GetPartner(ctx context.Context, partnerID string) (*models.Partner, error) {
	partner := &models.Partner{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM partners WHERE id = ?",
		partnerID,
	).Scan(&partner.ID, &partner.Name, &partner.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("partner %s: %w", partnerID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}

	return partner, nil
}

// ListPartners returns the roster ordered by name.
func (s *SQLiteStore) ListPartners(ctx context.Context) ([]*models.Partner, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM partners ORDER BY name COLLATE NOCASE, created_at",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	defer rows.Close()

	partners := []*models.Partner{}
	for rows.Next() {
		partner := &models.Partner{}
		if err := rows.Scan(&partner.ID, &partner.Name, &partner.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan partner: %w", err)
		}
		partners = append(partners, partner)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate partners: %w", err)
	}

	return partners, nil
}
