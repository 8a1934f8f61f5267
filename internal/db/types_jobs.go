package db

import (
	"time"

	"github.com/google/uuid"
)

// Job is an open position at a company.
type Job struct {
	ID             uuid.UUID `json:"id"`
	CompanyID      uuid.UUID `json:"companyId"`
	Title          string    `json:"title"`
	Location       string    `json:"location"`
	Department     string    `json:"department"`
	EmploymentType string    `json:"employmentType"`
	Experience     string    `json:"experience"`
	JobType        string    `json:"jobType"`
	SalaryRange    string    `json:"salaryRange"`
	Slug           string    `json:"slug"`
	WorkPolicy     string    `json:"workPolicy"`
	PostedDaysAgo  int       `json:"postedDaysAgo"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// JobFilters narrows a company's job list. Location, JobType, and Department
// match exactly; Title is a case-insensitive substring match.
type JobFilters struct {
	Location   string
	JobType    string
	Department string
	Title      string
}

// JobUpdate holds a partial job edit. Nil fields are left untouched.
type JobUpdate struct {
	Title          *string
	Location       *string
	Department     *string
	EmploymentType *string
	Experience     *string
	JobType        *string
	SalaryRange    *string
	WorkPolicy     *string
	PostedDaysAgo  *int
}

// JobWithCompany is a search hit: a job plus the company it belongs to.
type JobWithCompany struct {
	Job
	CompanyName string `json:"companyName"`
	CompanySlug string `json:"companySlug"`
}
