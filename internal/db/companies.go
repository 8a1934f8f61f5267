package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/careerpage/internal/sections"
)

// -----------------------------------------------------------------------------
// Company Methods
// -----------------------------------------------------------------------------

const companyColumns = `id, name, slug, logo_url, banner_url, culture_video, primary_color,
	sections, is_published, published_at, created_by, created_at, updated_at`

func scanCompany(row rowScanner) (*Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.LogoURL, &c.BannerURL, &c.CultureVideo,
		&c.PrimaryColor, &c.Sections, &c.IsPublished, &c.PublishedAt, &c.CreatedBy,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if c.Sections == nil {
		c.Sections = sections.List{}
	}
	return &c, nil
}

func scanCompanies(rows interface {
	rowScanner
	Next() bool
	Err() error
}) ([]Company, error) {
	companies := []Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, *c)
	}
	return companies, rows.Err()
}

func marshalSections(l sections.List) ([]byte, error) {
	if l == nil {
		l = sections.List{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sections: %w", err)
	}
	return b, nil
}

// CreateCompany inserts a company. A taken slug returns ErrDuplicate.
func (db *DB) CreateCompany(ctx context.Context, c *Company) (*Company, error) {
	if c.PrimaryColor == "" {
		c.PrimaryColor = DefaultPrimaryColor
	}
	sectionsJSON, err := marshalSections(c.Sections)
	if err != nil {
		return nil, err
	}

	created, err := scanCompany(db.pool.QueryRow(ctx,
		`INSERT INTO companies (name, slug, logo_url, banner_url, culture_video, primary_color, sections, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+companyColumns,
		c.Name, c.Slug, c.LogoURL, c.BannerURL, c.CultureVideo, c.PrimaryColor, sectionsJSON, c.CreatedBy,
	))
	if err != nil {
		return nil, wrapWriteErr("create company", err)
	}
	return created, nil
}

// GetCompanyBySlug retrieves a company by slug, or nil if there is none.
func (db *DB) GetCompanyBySlug(ctx context.Context, slug string) (*Company, error) {
	c, err := scanCompany(db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE slug = $1`, slug))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

// GetCompanyByID retrieves a company by its UUID, or nil if there is none.
func (db *DB) GetCompanyByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	c, err := scanCompany(db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

// UpdateCompany applies a partial update and returns the stored company, or
// nil if the company does not exist. The sections list is written as a whole.
func (db *DB) UpdateCompany(ctx context.Context, id uuid.UUID, u CompanyUpdate) (*Company, error) {
	if u.Empty() {
		return db.GetCompanyByID(ctx, id)
	}

	query := `UPDATE companies SET updated_at = NOW()`
	args := []any{}
	argNum := 1

	set := func(column string, value any) {
		query += fmt.Sprintf(", %s = $%d", column, argNum)
		args = append(args, value)
		argNum++
	}

	if u.Name != nil {
		set("name", *u.Name)
	}
	if u.LogoURL != nil {
		set("logo_url", *u.LogoURL)
	}
	if u.BannerURL != nil {
		set("banner_url", *u.BannerURL)
	}
	if u.CultureVideo != nil {
		set("culture_video", *u.CultureVideo)
	}
	if u.PrimaryColor != nil {
		set("primary_color", *u.PrimaryColor)
	}
	if u.Sections != nil {
		sectionsJSON, err := marshalSections(*u.Sections)
		if err != nil {
			return nil, err
		}
		set("sections", sectionsJSON)
	}

	query += fmt.Sprintf(" WHERE id = $%d RETURNING %s", argNum, companyColumns)
	args = append(args, id)

	c, err := scanCompany(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapWriteErr("update company", err)
	}
	return c, nil
}

// SetCompanyPublished publishes or unpublishes a company. Publishing stamps
// published_at; unpublishing clears it.
func (db *DB) SetCompanyPublished(ctx context.Context, id uuid.UUID, published bool) (*Company, error) {
	c, err := scanCompany(db.pool.QueryRow(ctx,
		`UPDATE companies
		 SET is_published = $1,
		     published_at = CASE WHEN $1 THEN COALESCE(published_at, NOW()) ELSE NULL END,
		     updated_at = NOW()
		 WHERE id = $2
		 RETURNING `+companyColumns,
		published, id,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to set company published: %w", err)
	}
	return c, nil
}

// ListCompaniesByOwner lists the companies a recruiter created, newest first.
func (db *DB) ListCompaniesByOwner(ctx context.Context, ownerID uuid.UUID) ([]Company, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE created_by = $1 ORDER BY created_at DESC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()
	return scanCompanies(rows)
}

// ListPublishedCompanies returns one page of published companies, most
// recently published first, together with the total number published.
func (db *DB) ListPublishedCompanies(ctx context.Context, limit, offset int) ([]Company, int, error) {
	var total int
	if err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM companies WHERE is_published`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count published companies: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+companyColumns+` FROM companies
		 WHERE is_published
		 ORDER BY published_at DESC NULLS LAST, created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list published companies: %w", err)
	}
	defer rows.Close()

	companies, err := scanCompanies(rows)
	if err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

// SearchCompanies finds published companies whose name or slug contains q.
func (db *DB) SearchCompanies(ctx context.Context, q string, limit int) ([]Company, error) {
	pattern := "%" + escapeLike(q) + "%"
	rows, err := db.pool.Query(ctx,
		`SELECT `+companyColumns+` FROM companies
		 WHERE is_published AND (name ILIKE $1 OR slug ILIKE $1)
		 ORDER BY name ASC
		 LIMIT $2`,
		pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search companies: %w", err)
	}
	defer rows.Close()
	return scanCompanies(rows)
}
