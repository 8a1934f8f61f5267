package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/careerpage/internal/db"
	"github.com/jonathan/careerpage/internal/types"
	"go.uber.org/zap"
)

// ownedJob loads the job named by the {id} path value and checks the caller
// owns its company. It returns the company too, for cache invalidation.
func (s *Server) ownedJob(r *http.Request) (*db.Job, *db.Company, error) {
	id, err := identity(r)
	if err != nil {
		return nil, nil, err
	}
	jobID, err := pathUUID(r, "id", "Job")
	if err != nil {
		return nil, nil, err
	}

	job, err := s.store.GetJobByID(r.Context(), jobID)
	if err != nil {
		return nil, nil, err
	}
	if job == nil {
		return nil, nil, &ErrNotFound{Resource: "Job"}
	}
	company, err := s.store.GetCompanyByID(r.Context(), job.CompanyID)
	if err != nil {
		return nil, nil, err
	}
	if company == nil || !company.OwnedBy(id.UserID) {
		return nil, nil, &ErrNotFound{Resource: "Job"}
	}
	return job, company, nil
}

// handleListJobs lists a company's jobs, newest first, with optional filters.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	slug := query.Get("slug")
	if slug == "" {
		s.errorResponse(w, http.StatusBadRequest, "Missing slug")
		return
	}

	company, err := s.companyBySlug(r, slug)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	jobs, err := s.store.ListJobs(r.Context(), company.ID, db.JobFilters{
		Location:   query.Get("location"),
		JobType:    query.Get("jobType"),
		Department: query.Get("department"),
		Title:      query.Get("title"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []db.Job{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"company": company,
		"jobs":    jobs,
	})
}

// handleCreateJob posts a job to a company the caller owns.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req types.CreateJobRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	company, _, err := s.ownedCompany(r, req.CompanySlug)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	job, err := s.store.CreateJob(r.Context(), &db.Job{
		CompanyID:      company.ID,
		Title:          req.Title,
		Location:       req.Location,
		Department:     req.Department,
		EmploymentType: req.EmploymentType,
		Experience:     req.Experience,
		JobType:        req.JobType,
		SalaryRange:    req.SalaryRange,
		Slug:           req.Slug,
		WorkPolicy:     req.WorkPolicy,
		PostedDaysAgo:  req.PostedDaysAgo,
	})
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			err = &ErrConflict{Message: "Job slug already exists"}
		}
		s.fail(w, r, err)
		return
	}

	s.invalidateCareers(r.Context(), company.Slug)
	s.logger.Info("job created", zap.String("company", company.Slug), zap.String("job", job.Slug))
	s.jsonResponse(w, http.StatusCreated, map[string]any{"job": job})
}

// handleUpdateJob applies a partial edit to a job.
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	job, company, err := s.ownedJob(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.UpdateJobRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	updated, err := s.store.UpdateJob(r.Context(), job.ID, db.JobUpdate{
		Title:          req.Title,
		Location:       req.Location,
		Department:     req.Department,
		EmploymentType: req.EmploymentType,
		Experience:     req.Experience,
		JobType:        req.JobType,
		SalaryRange:    req.SalaryRange,
		WorkPolicy:     req.WorkPolicy,
		PostedDaysAgo:  req.PostedDaysAgo,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if updated == nil {
		s.fail(w, r, &ErrNotFound{Resource: "Job"})
		return
	}

	s.invalidateCareers(r.Context(), company.Slug)
	s.jsonResponse(w, http.StatusOK, map[string]any{"job": updated})
}

// handleDeleteJob removes a job and its applications.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	job, company, err := s.ownedJob(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	deleted, err := s.store.DeleteJob(r.Context(), job.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !deleted {
		s.fail(w, r, &ErrNotFound{Resource: "Job"})
		return
	}

	s.invalidateCareers(r.Context(), company.Slug)
	s.logger.Info("job deleted", zap.String("company", company.Slug), zap.Stringer("job", job.ID))
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Job deleted"})
}
