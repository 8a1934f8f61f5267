package server

import (
	"bytes"
	"net/http"

	"github.com/jonathan/careerpage/internal/db"
	"github.com/jonathan/careerpage/internal/metrics"
	"github.com/jonathan/careerpage/internal/rendering"
	"github.com/jonathan/careerpage/internal/server/middleware"
	"go.uber.org/zap"
)

const htmlContentType = "text/html; charset=utf-8"

// htmlResponse writes a rendered page.
func (s *Server) htmlResponse(w http.ResponseWriter, status int, page []byte) {
	w.Header().Set("Content-Type", htmlContentType)
	w.WriteHeader(status)
	if _, err := w.Write(page); err != nil {
		s.logger.Debug("failed to write page", zap.Error(err))
	}
}

// unavailablePage writes the not found or coming soon page.
func (s *Server) unavailablePage(w http.ResponseWriter, r *http.Request, status int, reason rendering.Unavailable, name string) {
	var buf bytes.Buffer
	if err := rendering.RenderUnavailablePage(&buf, reason, name); err != nil {
		s.fail(w, r, err)
		return
	}
	s.htmlResponse(w, status, buf.Bytes())
}

// handleCareersPage serves a company's public careers page. Published pages
// are cached until the company or its jobs change.
func (s *Server) handleCareersPage(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("company")

	page, ok, err := s.pageCache.Get(r.Context(), slug)
	if err != nil {
		s.logger.Warn("careers page cache lookup failed", zap.String("slug", slug), zap.Error(err))
	}
	if ok {
		metrics.CareersCacheLookups.WithLabelValues(metrics.CacheHit).Inc()
		s.htmlResponse(w, http.StatusOK, page)
		return
	}
	metrics.CareersCacheLookups.WithLabelValues(metrics.CacheMiss).Inc()

	company, err := s.store.GetCompanyBySlug(r.Context(), slug)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if company == nil {
		s.unavailablePage(w, r, http.StatusNotFound, rendering.NotFound, "")
		return
	}
	if !company.IsPublished {
		s.unavailablePage(w, r, http.StatusOK, rendering.ComingSoon, company.Name)
		return
	}

	jobs, err := s.store.ListJobs(r.Context(), company.ID, db.JobFilters{})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := rendering.RenderCareersPage(&buf, company, jobs, rendering.PageOptions{BaseURL: s.baseURL}); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.pageCache.Set(r.Context(), slug, buf.Bytes()); err != nil {
		s.logger.Warn("failed to cache careers page", zap.String("slug", slug), zap.Error(err))
	}
	s.htmlResponse(w, http.StatusOK, buf.Bytes())
}

// handlePreviewPage serves the owner's preview, published or not.
func (s *Server) handlePreviewPage(w http.ResponseWriter, r *http.Request) {
	company, err := s.store.GetCompanyBySlug(r.Context(), r.PathValue("company"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, _ := middleware.GetIdentity(r)
	if company == nil || !company.OwnedBy(id.UserID) {
		s.unavailablePage(w, r, http.StatusNotFound, rendering.NotFound, "")
		return
	}

	var buf bytes.Buffer
	if err := rendering.RenderPreviewPage(&buf, company); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	s.htmlResponse(w, http.StatusOK, buf.Bytes())
}
