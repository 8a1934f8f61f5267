package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonathan/careerpage/internal/db"
	"github.com/jonathan/careerpage/internal/sections"
	"github.com/jonathan/careerpage/internal/server/middleware"
	"github.com/jonathan/careerpage/internal/types"
	"go.uber.org/zap"
)

// ownedCompany loads the company named by slug and checks the caller created
// it. Companies owned by someone else are reported as not found.
func (s *Server) ownedCompany(r *http.Request, slug string) (*db.Company, middleware.Identity, error) {
	id, err := identity(r)
	if err != nil {
		return nil, id, err
	}
	company, err := s.store.GetCompanyBySlug(r.Context(), slug)
	if err != nil {
		return nil, id, err
	}
	if company == nil || !company.OwnedBy(id.UserID) {
		return nil, id, &ErrNotFound{Resource: "Company"}
	}
	return company, id, nil
}

// companyBySlug loads a company for the public JSON reads. Reads do not
// depend on publication; only the HTML careers page is gated on it.
func (s *Server) companyBySlug(r *http.Request, slug string) (*db.Company, error) {
	company, err := s.store.GetCompanyBySlug(r.Context(), slug)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, &ErrNotFound{Resource: "Company"}
	}
	return company, nil
}

// checkedSections assigns IDs to sections saved without one and validates the
// list.
func checkedSections(l sections.List) (sections.List, error) {
	if l == nil {
		return sections.List{}, nil
	}
	l = l.EnsureIDs()
	if err := l.Validate(); err != nil {
		return nil, &ErrValidation{Message: err.Error()}
	}
	return l, nil
}

// invalidateCareers drops the cached public page of a company. Failures only
// delay freshness until the entry expires, so they are logged and ignored.
func (s *Server) invalidateCareers(ctx context.Context, slug string) {
	if err := s.pageCache.Invalidate(ctx, slug); err != nil {
		s.logger.Warn("failed to invalidate careers page cache", zap.String("slug", slug), zap.Error(err))
	}
}

// handleGetCompanyByQuery serves GET /api/company?slug=
func (s *Server) handleGetCompanyByQuery(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		s.errorResponse(w, http.StatusBadRequest, "Missing slug")
		return
	}
	s.writeCompany(w, r, slug)
}

// handleGetCompany retrieves a company by slug
func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	s.writeCompany(w, r, r.PathValue("slug"))
}

func (s *Server) writeCompany(w http.ResponseWriter, r *http.Request, slug string) {
	company, err := s.companyBySlug(r, slug)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, company)
}

// handleCreateCompany creates a company owned by the calling recruiter.
func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.CreateCompanyRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	list, err := checkedSections(req.Sections)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	existing, err := s.store.GetCompanyBySlug(r.Context(), req.Slug)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if existing != nil {
		s.fail(w, r, &ErrConflict{Message: "Company slug already exists"})
		return
	}

	company, err := s.store.CreateCompany(r.Context(), &db.Company{
		Name:         req.Name,
		Slug:         req.Slug,
		LogoURL:      req.LogoURL,
		BannerURL:    req.BannerURL,
		CultureVideo: req.CultureVideo,
		PrimaryColor: req.PrimaryColor,
		Sections:     list,
		CreatedBy:    id.UserID,
	})
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			err = &ErrConflict{Message: "Company slug already exists"}
		}
		s.fail(w, r, err)
		return
	}

	s.logger.Info("company created", zap.String("slug", company.Slug), zap.Stringer("owner", id.UserID))
	s.jsonResponse(w, http.StatusCreated, company)
}

// handleUpdateCompany applies a partial update. The slug is immutable; the
// sections list, when present, replaces the stored one as a whole.
func (s *Server) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	company, _, err := s.ownedCompany(r, r.PathValue("slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.UpdateCompanyRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Slug != nil && *req.Slug != company.Slug {
		s.errorResponse(w, http.StatusBadRequest, "Slug cannot be changed")
		return
	}

	update := db.CompanyUpdate{
		Name:         req.Name,
		LogoURL:      req.LogoURL,
		BannerURL:    req.BannerURL,
		CultureVideo: req.CultureVideo,
		PrimaryColor: req.PrimaryColor,
	}
	if req.Sections != nil {
		list, err := checkedSections(*req.Sections)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		update.Sections = &list
	}

	updated, err := s.store.UpdateCompany(r.Context(), company.ID, update)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if updated == nil {
		s.fail(w, r, &ErrNotFound{Resource: "Company"})
		return
	}
	if update.Sections != nil {
		recordSectionOp(sectionOpReplace)
	}

	s.invalidateCareers(r.Context(), company.Slug)
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleEditCompany returns the owner's view of a company for the builder.
func (s *Server) handleEditCompany(w http.ResponseWriter, r *http.Request) {
	company, _, err := s.ownedCompany(r, r.PathValue("slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, company)
}

func (s *Server) handlePublishCompany(w http.ResponseWriter, r *http.Request) {
	s.setPublished(w, r, true)
}

func (s *Server) handleUnpublishCompany(w http.ResponseWriter, r *http.Request) {
	s.setPublished(w, r, false)
}

func (s *Server) setPublished(w http.ResponseWriter, r *http.Request, published bool) {
	company, _, err := s.ownedCompany(r, r.PathValue("slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	updated, err := s.store.SetCompanyPublished(r.Context(), company.ID, published)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if updated == nil {
		s.fail(w, r, &ErrNotFound{Resource: "Company"})
		return
	}

	s.invalidateCareers(r.Context(), company.Slug)
	s.logger.Info("company publication changed", zap.String("slug", company.Slug), zap.Bool("published", published))
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleListCompanies lists a recruiter's own companies, or the published
// companies for everyone else.
func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	var (
		companies []db.Company
		err       error
	)
	if id, ok := middleware.GetIdentity(r); ok && id.Role == types.RoleRecruiter {
		companies, err = s.store.ListCompaniesByOwner(r.Context(), id.UserID)
	} else {
		companies, _, err = s.store.ListPublishedCompanies(r.Context(), 100, 0)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if companies == nil {
		companies = []db.Company{}
	}
	s.jsonResponse(w, http.StatusOK, companies)
}

// handleDiscoverCompanies pages through published companies.
func (s *Server) handleDiscoverCompanies(w http.ResponseWriter, r *http.Request) {
	page := max(parseQueryInt(r, "page", 1, 0), 1)
	limit := max(parseQueryInt(r, "limit", 10, 50), 1)

	companies, total, err := s.store.ListPublishedCompanies(r.Context(), limit, (page-1)*limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if companies == nil {
		companies = []db.Company{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"companies":  companies,
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": (total + limit - 1) / limit,
	})
}

// handleCompanyStats returns the owner's application count.
func (s *Server) handleCompanyStats(w http.ResponseWriter, r *http.Request) {
	company, _, err := s.ownedCompany(r, r.PathValue("slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	count, err := s.store.CountApplicationsByCompany(r.Context(), company.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]int{"applicationCount": count})
}
