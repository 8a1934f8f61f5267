package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/careerpage/internal/types"
)

// Application is a candidate's application to a job. There is at most one
// per (job, candidate) pair.
type Application struct {
	ID          uuid.UUID               `json:"id"`
	JobID       uuid.UUID               `json:"jobId"`
	CandidateID uuid.UUID               `json:"candidateId"`
	Status      types.ApplicationStatus `json:"status"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

// CandidateApplication is an application as its candidate sees it.
type CandidateApplication struct {
	Application
	JobTitle    string `json:"jobTitle"`
	JobSlug     string `json:"jobSlug"`
	CompanyName string `json:"companyName"`
	CompanySlug string `json:"companySlug"`
}

// CompanyApplication is an application as the hiring company sees it.
type CompanyApplication struct {
	Application
	JobTitle       string `json:"jobTitle"`
	CandidateName  string `json:"candidateName"`
	CandidateEmail string `json:"candidateEmail"`
}

// RecruiterStats are the totals on a recruiter's dashboard.
type RecruiterStats struct {
	TotalCompanies    int `json:"totalCompanies"`
	TotalJobs         int `json:"totalJobs"`
	TotalApplications int `json:"totalApplications"`
}
