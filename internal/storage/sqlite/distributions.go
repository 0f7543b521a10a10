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

// CreateDistribution saves a distribution with its payouts and bill breakdowns.
func (s *SQLiteStore) CreateDistribution(ctx context.Context, d *models.Distribution) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt == 0 {
		d.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO distributions (id, total_amount, total_hours, hourly_rate, created_at) VALUES (?, ?, ?, ?, ?)",
		d.ID, d.TotalAmount, d.TotalHours, d.HourlyRate, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert distribution: %w", err)
	}

	for i, p := range d.PartnerPayouts {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO distribution_payouts (distribution_id, position, name, hours, payout, rounded) VALUES (?, ?, ?, ?, ?, ?)",
			d.ID, i, p.Name, p.Hours, p.Payout, p.Rounded,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payout: %w", err)
		}

		for _, b := range p.BillBreakdown {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO payout_bills (distribution_id, position, denomination, quantity) VALUES (?, ?, ?, ?)",
				d.ID, i, b.Denomination, b.Quantity,
			)
			if err != nil {
				return fmt.Errorf("failed to insert bill breakdown: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetDistribution retrieves a distribution by ID, including payouts and bills.
func (s *SQLiteStore) GetDistribution(ctx context.Context, distributionID string) (*models.Distribution, error) {
	d := &models.Distribution{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, total_amount, total_hours, hourly_rate, created_at FROM distributions WHERE id = ?",
		distributionID,
	).Scan(&d.ID, &d.TotalAmount, &d.TotalHours, &d.HourlyRate, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("distribution %s: %w", distributionID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get distribution: %w", err)
	}

	if err := s.loadPayouts(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

// ListDistributions returns the history, newest first.
func (s *SQLiteStore) ListDistributions(ctx context.Context) ([]*models.Distribution, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, total_amount, total_hours, hourly_rate, created_at FROM distributions ORDER BY created_at DESC, rowid DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list distributions: %w", err)
	}
	defer rows.Close()

	distributions := []*models.Distribution{}
	for rows.Next() {
		d := &models.Distribution{}
		if err := rows.Scan(&d.ID, &d.TotalAmount, &d.TotalHours, &d.HourlyRate, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan distribution: %w", err)
		}
		distributions = append(distributions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate distributions: %w", err)
	}
	rows.Close()

	for _, d := range distributions {
		if err := s.loadPayouts(ctx, d); err != nil {
			return nil, err
		}
	}

	return distributions, nil
}

// loadPayouts fills d.PartnerPayouts in their saved order.
func (s *SQLiteStore) loadPayouts(ctx context.Context, d *models.Distribution) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, hours, payout, rounded FROM distribution_payouts WHERE distribution_id = ? ORDER BY position",
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get payouts: %w", err)
	}
	defer rows.Close()

	d.PartnerPayouts = []models.PartnerPayout{}
	for rows.Next() {
		p := models.PartnerPayout{BillBreakdown: []models.BillBreakdownEntry{}}
		if err := rows.Scan(&p.Name, &p.Hours, &p.Payout, &p.Rounded); err != nil {
			return fmt.Errorf("failed to scan payout: %w", err)
		}
		d.PartnerPayouts = append(d.PartnerPayouts, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate payouts: %w", err)
	}
	rows.Close()

	billRows, err := s.db.QueryContext(ctx,
		"SELECT position, denomination, quantity FROM payout_bills WHERE distribution_id = ? ORDER BY position, denomination DESC",
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get bill breakdowns: %w", err)
	}
	defer billRows.Close()

	for billRows.Next() {
		var position int
		var b models.BillBreakdownEntry
		if err := billRows.Scan(&position, &b.Denomination, &b.Quantity); err != nil {
			return fmt.Errorf("failed to scan bill breakdown: %w", err)
		}
		if position < 0 || position >= len(d.PartnerPayouts) {
			return fmt.Errorf("bill breakdown for unknown payout %d in distribution %s", position, d.ID)
		}
		d.PartnerPayouts[position].BillBreakdown = append(d.PartnerPayouts[position].BillBreakdown, b)
	}
	if err := billRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate bill breakdowns: %w", err)
	}

	return nil
}
