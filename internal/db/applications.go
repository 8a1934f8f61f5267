package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/careerpage/internal/types"
)

// -----------------------------------------------------------------------------
// Application Methods
// -----------------------------------------------------------------------------

const applicationColumns = `id, job_id, candidate_id, status, created_at, updated_at`

func applicationDest(a *Application) []any {
	return []any{&a.ID, &a.JobID, &a.CandidateID, &a.Status, &a.CreatedAt, &a.UpdatedAt}
}

// CreateApplication records a candidate's application. A second application
// to the same job returns ErrDuplicate.
func (db *DB) CreateApplication(ctx context.Context, jobID, candidateID uuid.UUID) (*Application, error) {
	var a Application
	err := db.pool.QueryRow(ctx,
		`INSERT INTO applications (job_id, candidate_id)
		 VALUES ($1, $2)
		 RETURNING `+applicationColumns,
		jobID, candidateID,
	).Scan(applicationDest(&a)...)
	if err != nil {
		return nil, wrapWriteErr("create application", err)
	}
	return &a, nil
}

// GetApplication returns the candidate's application to a job, or nil.
func (db *DB) GetApplication(ctx context.Context, jobID, candidateID uuid.UUID) (*Application, error) {
	var a Application
	err := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 AND candidate_id = $2`,
		jobID, candidateID,
	).Scan(applicationDest(&a)...)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &a, nil
}

// GetApplicationByID retrieves an application, or nil.
func (db *DB) GetApplicationByID(ctx context.Context, id uuid.UUID) (*Application, error) {
	var a Application
	err := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id,
	).Scan(applicationDest(&a)...)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &a, nil
}

// UpdateApplicationStatus sets an application's status and returns it, or nil
// if it does not exist.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status types.ApplicationStatus) (*Application, error) {
	var a Application
	err := db.pool.QueryRow(ctx,
		`UPDATE applications SET status = $1, updated_at = NOW()
		 WHERE id = $2
		 RETURNING `+applicationColumns,
		status, id,
	).Scan(applicationDest(&a)...)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	return &a, nil
}

// ListApplicationsByCandidate lists a candidate's applications, newest first.
func (db *DB) ListApplicationsByCandidate(ctx context.Context, candidateID uuid.UUID) ([]CandidateApplication, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT a.id, a.job_id, a.candidate_id, a.status, a.created_at, a.updated_at,
		        j.title, j.slug, c.name, c.slug
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 JOIN companies c ON c.id = j.company_id
		 WHERE a.candidate_id = $1
		 ORDER BY a.created_at DESC`,
		candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []CandidateApplication{}
	for rows.Next() {
		var a CandidateApplication
		dest := append(applicationDest(&a.Application), &a.JobTitle, &a.JobSlug, &a.CompanyName, &a.CompanySlug)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// ListAppliedJobIDs returns the IDs of every job the candidate applied to.
func (db *DB) ListAppliedJobIDs(ctx context.Context, candidateID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT job_id FROM applications WHERE candidate_id = $1 ORDER BY created_at DESC`,
		candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applied job ids: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan job id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListApplicationsByCompany lists applications to any of a company's jobs,
// newest first, with candidate and job details.
func (db *DB) ListApplicationsByCompany(ctx context.Context, companyID uuid.UUID) ([]CompanyApplication, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT a.id, a.job_id, a.candidate_id, a.status, a.created_at, a.updated_at,
		        j.title, u.name, u.email
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 JOIN users u ON u.id = a.candidate_id
		 WHERE j.company_id = $1
		 ORDER BY a.created_at DESC`,
		companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list company applications: %w", err)
	}
	defer rows.Close()

	apps := []CompanyApplication{}
	for rows.Next() {
		var a CompanyApplication
		dest := append(applicationDest(&a.Application), &a.JobTitle, &a.CandidateName, &a.CandidateEmail)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// CountApplicationsByCompany counts applications across a company's jobs.
func (db *DB) CountApplicationsByCompany(ctx context.Context, companyID uuid.UUID) (int, error) {
	var n int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM applications a JOIN jobs j ON j.id = a.job_id WHERE j.company_id = $1`,
		companyID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return n, nil
}
