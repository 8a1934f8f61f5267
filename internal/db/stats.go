package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CountCompaniesByOwner counts the companies a recruiter created.
func (db *DB) CountCompaniesByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM companies WHERE created_by = $1`, ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count companies: %w", err)
	}
	return n, nil
}

// CountJobsByOwner counts jobs across a recruiter's companies.
func (db *DB) CountJobsByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM jobs j JOIN companies c ON c.id = j.company_id WHERE c.created_by = $1`,
		ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return n, nil
}

// CountApplicationsByOwner counts applications across a recruiter's companies.
func (db *DB) CountApplicationsByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 JOIN companies c ON c.id = j.company_id
		 WHERE c.created_by = $1`,
		ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return n, nil
}
