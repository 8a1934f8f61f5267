package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/careerpage/internal/db"
	"golang.org/x/sync/errgroup"
)

// recruiterStats runs the dashboard counts concurrently.
func (s *Server) recruiterStats(ctx context.Context, ownerID uuid.UUID) (*db.RecruiterStats, error) {
	var stats db.RecruiterStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.store.CountCompaniesByOwner(ctx, ownerID)
		stats.TotalCompanies = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.CountJobsByOwner(ctx, ownerID)
		stats.TotalJobs = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.CountApplicationsByOwner(ctx, ownerID)
		stats.TotalApplications = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

// handleRecruiterStats returns the calling recruiter's dashboard totals.
func (s *Server) handleRecruiterStats(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	stats, err := s.recruiterStats(r.Context(), id.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}
