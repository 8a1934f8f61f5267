package server

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/careerpage/internal/db"
)

const (
	minCompanyQueryLen = 2
	searchLimit        = 50
)

// handleSearchCompanies finds published companies by name or slug.
func (s *Server) handleSearchCompanies(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if utf8.RuneCountInString(q) < minCompanyQueryLen {
		s.errorResponse(w, http.StatusBadRequest, "Query must be at least 2 characters long")
		return
	}

	companies, err := s.store.SearchCompanies(r.Context(), q, searchLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if companies == nil {
		companies = []db.Company{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"companies": companies,
		"total":     len(companies),
		"page":      1,
		"limit":     len(companies),
	})
}

// handleSearchJobs finds jobs at published companies. An empty query matches
// nothing.
func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		s.jsonResponse(w, http.StatusOK, []db.JobWithCompany{})
		return
	}

	jobs, err := s.store.SearchJobs(r.Context(), q, searchLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []db.JobWithCompany{}
	}
	s.jsonResponse(w, http.StatusOK, jobs)
}
