package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Job Methods
// -----------------------------------------------------------------------------

const jobColumns = `id, company_id, title, location, department, employment_type, experience,
	job_type, salary_range, slug, work_policy, posted_days_ago, created_at, updated_at`

func jobDest(j *Job) []any {
	return []any{&j.ID, &j.CompanyID, &j.Title, &j.Location, &j.Department, &j.EmploymentType,
		&j.Experience, &j.JobType, &j.SalaryRange, &j.Slug, &j.WorkPolicy, &j.PostedDaysAgo,
		&j.CreatedAt, &j.UpdatedAt}
}

func scanJob(row rowScanner) (*Job, error) {
	var j Job
	if err := row.Scan(jobDest(&j)...); err != nil {
		return nil, err
	}
	return &j, nil
}

// CreateJob inserts a job. A slug already used by the same company returns
// ErrDuplicate.
func (db *DB) CreateJob(ctx context.Context, j *Job) (*Job, error) {
	created, err := scanJob(db.pool.QueryRow(ctx,
		`INSERT INTO jobs (company_id, title, location, department, employment_type, experience,
		                   job_type, salary_range, slug, work_policy, posted_days_ago)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING `+jobColumns,
		j.CompanyID, j.Title, j.Location, j.Department, j.EmploymentType, j.Experience,
		j.JobType, j.SalaryRange, j.Slug, j.WorkPolicy, j.PostedDaysAgo,
	))
	if err != nil {
		return nil, wrapWriteErr("create job", err)
	}
	return created, nil
}

// GetJobByID retrieves a job, or nil if there is none.
func (db *DB) GetJobByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	j, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// UpdateJob applies a partial update and returns the stored job, or nil if the
// job does not exist.
func (db *DB) UpdateJob(ctx context.Context, id uuid.UUID, u JobUpdate) (*Job, error) {
	query := `UPDATE jobs SET updated_at = NOW()`
	args := []any{}
	argNum := 1

	set := func(column string, value any) {
		query += fmt.Sprintf(", %s = $%d", column, argNum)
		args = append(args, value)
		argNum++
	}

	if u.Title != nil {
		set("title", *u.Title)
	}
	if u.Location != nil {
		set("location", *u.Location)
	}
	if u.Department != nil {
		set("department", *u.Department)
	}
	if u.EmploymentType != nil {
		set("employment_type", *u.EmploymentType)
	}
	if u.Experience != nil {
		set("experience", *u.Experience)
	}
	if u.JobType != nil {
		set("job_type", *u.JobType)
	}
	if u.SalaryRange != nil {
		set("salary_range", *u.SalaryRange)
	}
	if u.WorkPolicy != nil {
		set("work_policy", *u.WorkPolicy)
	}
	if u.PostedDaysAgo != nil {
		set("posted_days_ago", *u.PostedDaysAgo)
	}

	query += fmt.Sprintf(" WHERE id = $%d RETURNING %s", argNum, jobColumns)
	args = append(args, id)

	j, err := scanJob(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapWriteErr("update job", err)
	}
	return j, nil
}

// DeleteJob deletes a job and its applications (via cascade). It reports
// whether a job was deleted.
func (db *DB) DeleteJob(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete job: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// ListJobs lists a company's jobs, newest first, with optional filters.
func (db *DB) ListJobs(ctx context.Context, companyID uuid.UUID, filters JobFilters) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE company_id = $1`
	args := []any{companyID}
	argNum := 2

	if filters.Location != "" {
		query += fmt.Sprintf(" AND location = $%d", argNum)
		args = append(args, filters.Location)
		argNum++
	}
	if filters.JobType != "" {
		query += fmt.Sprintf(" AND job_type = $%d", argNum)
		args = append(args, filters.JobType)
		argNum++
	}
	if filters.Department != "" {
		query += fmt.Sprintf(" AND department = $%d", argNum)
		args = append(args, filters.Department)
		argNum++
	}
	if filters.Title != "" {
		query += fmt.Sprintf(" AND title ILIKE $%d", argNum)
		args = append(args, "%"+escapeLike(filters.Title)+"%")
	}

	query += " ORDER BY created_at DESC"

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// SearchJobs finds jobs at published companies whose title, department, or
// location contains q.
func (db *DB) SearchJobs(ctx context.Context, q string, limit int) ([]JobWithCompany, error) {
	pattern := "%" + escapeLike(q) + "%"
	rows, err := db.pool.Query(ctx,
		`SELECT j.id, j.company_id, j.title, j.location, j.department, j.employment_type, j.experience,
		        j.job_type, j.salary_range, j.slug, j.work_policy, j.posted_days_ago, j.created_at, j.updated_at,
		        c.name, c.slug
		 FROM jobs j
		 JOIN companies c ON c.id = j.company_id
		 WHERE c.is_published
		   AND (j.title ILIKE $1 OR j.department ILIKE $1 OR j.location ILIKE $1)
		 ORDER BY j.created_at DESC
		 LIMIT $2`,
		pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}
	defer rows.Close()

	hits := []JobWithCompany{}
	for rows.Next() {
		var h JobWithCompany
		dest := append(jobDest(&h.Job), &h.CompanyName, &h.CompanySlug)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
