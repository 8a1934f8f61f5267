package server

import (
	"context"
	"net/http"

	"github.com/jonathan/careerpage/internal/db"
	"github.com/jonathan/careerpage/internal/metrics"
	"github.com/jonathan/careerpage/internal/rendering"
	"github.com/jonathan/careerpage/internal/sections"
	"github.com/jonathan/careerpage/internal/types"
)

// Section list operations, as recorded in metrics.
const (
	sectionOpAdd     = "add"
	sectionOpUpdate  = "update"
	sectionOpRemove  = "remove"
	sectionOpMove    = "move"
	sectionOpReplace = "replace"
)

func recordSectionOp(op string) {
	metrics.SectionOperations.WithLabelValues(op).Inc()
}

// saveSections persists a company's whole section list.
func (s *Server) saveSections(ctx context.Context, company *db.Company, list sections.List, op string) (*db.Company, error) {
	updated, err := s.store.UpdateCompany(ctx, company.ID, db.CompanyUpdate{Sections: &list})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, &ErrNotFound{Resource: "Company"}
	}
	recordSectionOp(op)
	s.invalidateCareers(ctx, company.Slug)
	return updated, nil
}

// newSection builds the section an add request describes. A bare request
// starts from the type's template and keeps any styling it names.
func newSection(req *types.AddSectionRequest) sections.Section {
	if !req.Bare() {
		return req.Section.Clone()
	}
	sec := sections.Template(req.Type)
	if req.BackgroundColor != "" {
		sec.BackgroundColor = req.BackgroundColor
	}
	if req.TextColor != "" {
		sec.TextColor = req.TextColor
	}
	if req.Alignment != "" {
		sec.Alignment = req.Alignment
	}
	if req.Size != "" {
		sec.Size = req.Size
	}
	return sec
}

// handleAddSection appends a section, optionally moving it to req.Index.
func (s *Server) handleAddSection(w http.ResponseWriter, r *http.Request) {
	company, _, err := s.ownedCompany(r, r.PathValue("slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.AddSectionRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if !req.Type.Valid() {
		s.errorResponse(w, http.StatusBadRequest, "Unknown section type")
		return
	}

	sec := newSection(&req)
	if err := sec.Validate(); err != nil {
		s.fail(w, r, &ErrValidation{Message: err.Error()})
		return
	}

	b := sections.NewBuilder(company.Sections)
	added := b.AddSection(sec)
	if req.Index != nil {
		b.Move(added.ID, *req.Index)
	}

	updated, err := s.saveSections(r.Context(), company, b.Sections(), sectionOpAdd)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"section":  added,
		"sections": updated.Sections,
		"selected": b.Selected(),
	})
}

// handleUpdateSection merges a partial edit into one section.
func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	company, _, err := s.ownedCompany(r, r.PathValue("slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	id := r.PathValue("id")
	current, ok := company.Sections.Find(id)
	if !ok {
		s.fail(w, r, &ErrNotFound{Resource: "Section"})
		return
	}

	var patch sections.Patch
	if !s.decodeJSON(w, r, &patch) {
		return
	}
	if err := current.Apply(patch).Validate(); err != nil {
		s.fail(w, r, &ErrValidation{Message: err.Error()})
		return
	}

	updated, err := s.saveSections(r.Context(), company, company.Sections.Update(id, patch), sectionOpUpdate)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"sections": updated.Sections})
}

// handleRemoveSection deletes one section.
func (s *Server) handleRemoveSection(w http.ResponseWriter, r *http.Request) {
	company, _, err := s.ownedCompany(r, r.PathValue("slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	id := r.PathValue("id")
	if company.Sections.Index(id) < 0 {
		s.fail(w, r, &ErrNotFound{Resource: "Section"})
		return
	}

	updated, err := s.saveSections(r.Context(), company, company.Sections.Remove(id), sectionOpRemove)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"sections": updated.Sections})
}

// handleMoveSection reorders one section. Out-of-range targets clamp.
func (s *Server) handleMoveSection(w http.ResponseWriter, r *http.Request) {
	company, _, err := s.ownedCompany(r, r.PathValue("slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	id := r.PathValue("id")
	if company.Sections.Index(id) < 0 {
		s.fail(w, r, &ErrNotFound{Resource: "Section"})
		return
	}

	var req types.MoveSectionRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	updated, err := s.saveSections(r.Context(), company, company.Sections.Move(id, *req.Index), sectionOpMove)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"sections": updated.Sections})
}

// handleRenderCompany returns the rendered views of a stored careers page.
func (s *Server) handleRenderCompany(w http.ResponseWriter, r *http.Request) {
	company, err := s.companyBySlug(r, r.PathValue("slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"sections": rendering.RenderSections(company.Sections, rendering.BrandingOf(company)),
	})
}

// handleRenderSections renders unsaved builder state for the live preview.
// Nothing is validated or stored.
func (s *Server) handleRenderSections(w http.ResponseWriter, r *http.Request) {
	var req types.RenderRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	var branding *rendering.Branding
	if req.Branding != nil {
		b := rendering.Branding(*req.Branding)
		branding = &b
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"sections": rendering.RenderSections(req.Sections, branding),
	})
}
