package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/careerpage/internal/db"
	"github.com/jonathan/careerpage/internal/types"
)

// Store is the persistence the API needs. *db.DB implements it. Getters
// return nil, nil when the record does not exist.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, name, email, passwordHash string, role types.Role) (*db.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)

	CreateCompany(ctx context.Context, c *db.Company) (*db.Company, error)
	GetCompanyBySlug(ctx context.Context, slug string) (*db.Company, error)
	GetCompanyByID(ctx context.Context, id uuid.UUID) (*db.Company, error)
	UpdateCompany(ctx context.Context, id uuid.UUID, u db.CompanyUpdate) (*db.Company, error)
	SetCompanyPublished(ctx context.Context, id uuid.UUID, published bool) (*db.Company, error)
	ListCompaniesByOwner(ctx context.Context, ownerID uuid.UUID) ([]db.Company, error)
	ListPublishedCompanies(ctx context.Context, limit, offset int) ([]db.Company, int, error)
	SearchCompanies(ctx context.Context, q string, limit int) ([]db.Company, error)

	CreateJob(ctx context.Context, j *db.Job) (*db.Job, error)
	GetJobByID(ctx context.Context, id uuid.UUID) (*db.Job, error)
	UpdateJob(ctx context.Context, id uuid.UUID, u db.JobUpdate) (*db.Job, error)
	DeleteJob(ctx context.Context, id uuid.UUID) (bool, error)
	ListJobs(ctx context.Context, companyID uuid.UUID, filters db.JobFilters) ([]db.Job, error)
	SearchJobs(ctx context.Context, q string, limit int) ([]db.JobWithCompany, error)

	CreateApplication(ctx context.Context, jobID, candidateID uuid.UUID) (*db.Application, error)
	GetApplication(ctx context.Context, jobID, candidateID uuid.UUID) (*db.Application, error)
	GetApplicationByID(ctx context.Context, id uuid.UUID) (*db.Application, error)
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status types.ApplicationStatus) (*db.Application, error)
	ListApplicationsByCandidate(ctx context.Context, candidateID uuid.UUID) ([]db.CandidateApplication, error)
	ListAppliedJobIDs(ctx context.Context, candidateID uuid.UUID) ([]uuid.UUID, error)
	ListApplicationsByCompany(ctx context.Context, companyID uuid.UUID) ([]db.CompanyApplication, error)
	CountApplicationsByCompany(ctx context.Context, companyID uuid.UUID) (int, error)

	CountCompaniesByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
	CountJobsByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
	CountApplicationsByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
}

var _ Store = (*db.DB)(nil)
