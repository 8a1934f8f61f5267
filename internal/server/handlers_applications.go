package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/careerpage/internal/db"
	"github.com/jonathan/careerpage/internal/metrics"
	"github.com/jonathan/careerpage/internal/types"
	"go.uber.org/zap"
)

const alreadyAppliedMessage = "You have already applied for this job"

// handleApply records the calling candidate's application to a job. Jobs of
// unpublished companies cannot be applied to.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jobID, err := pathUUID(r, "id", "Job")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	job, err := s.store.GetJobByID(r.Context(), jobID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if job == nil {
		s.fail(w, r, &ErrNotFound{Resource: "Job"})
		return
	}
	company, err := s.store.GetCompanyByID(r.Context(), job.CompanyID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if company == nil || !company.IsPublished {
		s.fail(w, r, &ErrNotFound{Resource: "Job"})
		return
	}

	existing, err := s.store.GetApplication(r.Context(), job.ID, id.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if existing != nil {
		s.fail(w, r, &ErrConflict{Message: alreadyAppliedMessage})
		return
	}

	// A concurrent duplicate slips past the check above and trips the
	// unique index instead.
	application, err := s.store.CreateApplication(r.Context(), job.ID, id.UserID)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			err = &ErrConflict{Message: alreadyAppliedMessage}
		}
		s.fail(w, r, err)
		return
	}

	metrics.ApplicationsSubmitted.Inc()
	s.logger.Info("application submitted",
		zap.Stringer("job", job.ID),
		zap.Stringer("candidate", id.UserID))
	s.jsonResponse(w, http.StatusCreated, application)
}

// handleMyApplications lists the calling candidate's applications.
func (s *Server) handleMyApplications(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	applications, err := s.store.ListApplicationsByCandidate(r.Context(), id.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if applications == nil {
		applications = []db.CandidateApplication{}
	}
	s.jsonResponse(w, http.StatusOK, applications)
}

// handleMyJobIDs lists the IDs of jobs the calling candidate applied to.
func (s *Server) handleMyJobIDs(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ids, err := s.store.ListAppliedJobIDs(r.Context(), id.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	s.jsonResponse(w, http.StatusOK, ids)
}

// handleListCompanyApplications lists applications to an owned company's jobs.
func (s *Server) handleListCompanyApplications(w http.ResponseWriter, r *http.Request) {
	company, _, err := s.ownedCompany(r, r.PathValue("slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	applications, err := s.store.ListApplicationsByCompany(r.Context(), company.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if applications == nil {
		applications = []db.CompanyApplication{}
	}
	s.jsonResponse(w, http.StatusOK, applications)
}

// handleUpdateApplicationStatus moves an application through review. Only
// the owner of the job's company may do so.
func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	applicationID, err := pathUUID(r, "id", "Application")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.UpdateApplicationStatusRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	application, err := s.store.GetApplicationByID(r.Context(), applicationID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if application == nil {
		s.fail(w, r, &ErrNotFound{Resource: "Application"})
		return
	}
	if err := s.checkJobOwner(r, application.JobID, id.UserID); err != nil {
		s.fail(w, r, err)
		return
	}

	updated, err := s.store.UpdateApplicationStatus(r.Context(), application.ID, req.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if updated == nil {
		s.fail(w, r, &ErrNotFound{Resource: "Application"})
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// checkJobOwner reports an application as not found unless userID owns the
// company the job belongs to.
func (s *Server) checkJobOwner(r *http.Request, jobID, userID uuid.UUID) error {
	job, err := s.store.GetJobByID(r.Context(), jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return &ErrNotFound{Resource: "Application"}
	}
	company, err := s.store.GetCompanyByID(r.Context(), job.CompanyID)
	if err != nil {
		return err
	}
	if company == nil || !company.OwnedBy(userID) {
		return &ErrNotFound{Resource: "Application"}
	}
	return nil
}
