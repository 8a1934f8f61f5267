package server

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/careerpage/internal/db"
	"github.com/jonathan/careerpage/internal/types"
)

// memStore is an in-memory Store. Records are copied in and out so handlers
// never share memory with it.
type memStore struct {
	mu           sync.Mutex
	clock        time.Time
	users        map[uuid.UUID]db.User
	companies    map[uuid.UUID]db.Company
	jobs         map[uuid.UUID]db.Job
	applications map[uuid.UUID]db.Application
	pingErr      error
	failWith     error // returned by every call when set
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		clock:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		users:        make(map[uuid.UUID]db.User),
		companies:    make(map[uuid.UUID]db.Company),
		jobs:         make(map[uuid.UUID]db.Job),
		applications: make(map[uuid.UUID]db.Application),
	}
}

// tick returns a strictly increasing timestamp so "newest first" is stable.
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func copyCompany(c db.Company) *db.Company {
	c.Sections = c.Sections.Clone()
	if c.PublishedAt != nil {
		t := *c.PublishedAt
		c.PublishedAt = &t
	}
	return &c
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

func (m *memStore) CreateUser(_ context.Context, name, email, passwordHash string, role types.Role) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, u := range m.users {
		if u.Email == email {
			return nil, fmt.Errorf("create user: %w", db.ErrDuplicate)
		}
	}
	now := m.tick()
	u := db.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: passwordHash, Role: role, CreatedAt: now, UpdatedAt: now}
	m.users[u.ID] = u
	return &u, nil
}

func (m *memStore) GetUserByID(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateCompany(_ context.Context, c *db.Company) (*db.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, existing := range m.companies {
		if existing.Slug == c.Slug {
			return nil, fmt.Errorf("create company: %w", db.ErrDuplicate)
		}
	}
	created := *copyCompany(*c)
	created.ID = uuid.New()
	if created.PrimaryColor == "" {
		created.PrimaryColor = db.DefaultPrimaryColor
	}
	created.CreatedAt = m.tick()
	created.UpdatedAt = created.CreatedAt
	m.companies[created.ID] = created
	return copyCompany(created), nil
}

func (m *memStore) GetCompanyBySlug(_ context.Context, slug string) (*db.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, c := range m.companies {
		if c.Slug == slug {
			return copyCompany(c), nil
		}
	}
	return nil, nil
}

func (m *memStore) GetCompanyByID(_ context.Context, id uuid.UUID) (*db.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	c, ok := m.companies[id]
	if !ok {
		return nil, nil
	}
	return copyCompany(c), nil
}

func (m *memStore) UpdateCompany(_ context.Context, id uuid.UUID, u db.CompanyUpdate) (*db.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	c, ok := m.companies[id]
	if !ok {
		return nil, nil
	}
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.LogoURL != nil {
		c.LogoURL = *u.LogoURL
	}
	if u.BannerURL != nil {
		c.BannerURL = *u.BannerURL
	}
	if u.CultureVideo != nil {
		c.CultureVideo = *u.CultureVideo
	}
	if u.PrimaryColor != nil {
		c.PrimaryColor = *u.PrimaryColor
	}
	if u.Sections != nil {
		c.Sections = u.Sections.Clone()
	}
	c.UpdatedAt = m.tick()
	m.companies[id] = c
	return copyCompany(c), nil
}

func (m *memStore) SetCompanyPublished(_ context.Context, id uuid.UUID, published bool) (*db.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	c, ok := m.companies[id]
	if !ok {
		return nil, nil
	}
	now := m.tick()
	c.IsPublished = published
	switch {
	case !published:
		c.PublishedAt = nil
	case c.PublishedAt == nil:
		c.PublishedAt = &now
	}
	c.UpdatedAt = now
	m.companies[id] = c
	return copyCompany(c), nil
}

func (m *memStore) sortedCompanies(keep func(db.Company) bool) []db.Company {
	out := []db.Company{}
	for _, c := range m.companies {
		if keep(c) {
			out = append(out, *copyCompany(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memStore) ListCompaniesByOwner(_ context.Context, ownerID uuid.UUID) ([]db.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.sortedCompanies(func(c db.Company) bool { return c.CreatedBy == ownerID }), nil
}

func (m *memStore) ListPublishedCompanies(_ context.Context, limit, offset int) ([]db.Company, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, 0, m.failWith
	}
	all := m.sortedCompanies(func(c db.Company) bool { return c.IsPublished })
	total := len(all)
	if offset >= total {
		return []db.Company{}, total, nil
	}
	end := min(offset+limit, total)
	return all[offset:end], total, nil
}

func (m *memStore) SearchCompanies(_ context.Context, q string, limit int) ([]db.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	q = strings.ToLower(q)
	hits := m.sortedCompanies(func(c db.Company) bool {
		return c.IsPublished && (strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(c.Slug, q))
	})
	sort.Slice(hits, func(i, j int) bool { return hits[i].Name < hits[j].Name })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (m *memStore) CreateJob(_ context.Context, j *db.Job) (*db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, existing := range m.jobs {
		if existing.CompanyID == j.CompanyID && existing.Slug == j.Slug {
			return nil, fmt.Errorf("create job: %w", db.ErrDuplicate)
		}
	}
	created := *j
	created.ID = uuid.New()
	created.CreatedAt = m.tick()
	created.UpdatedAt = created.CreatedAt
	m.jobs[created.ID] = created
	return &created, nil
}

func (m *memStore) GetJobByID(_ context.Context, id uuid.UUID) (*db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	j, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	return &j, nil
}

func (m *memStore) UpdateJob(_ context.Context, id uuid.UUID, u db.JobUpdate) (*db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	j, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	for dst, src := range map[*string]*string{
		&j.Title: u.Title, &j.Location: u.Location, &j.Department: u.Department,
		&j.EmploymentType: u.EmploymentType, &j.Experience: u.Experience, &j.JobType: u.JobType,
		&j.SalaryRange: u.SalaryRange, &j.WorkPolicy: u.WorkPolicy,
	} {
		if src != nil {
			*dst = *src
		}
	}
	if u.PostedDaysAgo != nil {
		j.PostedDaysAgo = *u.PostedDaysAgo
	}
	j.UpdatedAt = m.tick()
	m.jobs[id] = j
	return &j, nil
}

func (m *memStore) DeleteJob(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return false, m.failWith
	}
	if _, ok := m.jobs[id]; !ok {
		return false, nil
	}
	delete(m.jobs, id)
	for aid, a := range m.applications {
		if a.JobID == id {
			delete(m.applications, aid)
		}
	}
	return true, nil
}

func (m *memStore) sortedJobs(keep func(db.Job) bool) []db.Job {
	out := []db.Job{}
	for _, j := range m.jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out
}

func (m *memStore) ListJobs(_ context.Context, companyID uuid.UUID, f db.JobFilters) ([]db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.sortedJobs(func(j db.Job) bool {
		return j.CompanyID == companyID &&
			(f.Location == "" || j.Location == f.Location) &&
			(f.JobType == "" || j.JobType == f.JobType) &&
			(f.Department == "" || j.Department == f.Department) &&
			(f.Title == "" || strings.Contains(strings.ToLower(j.Title), strings.ToLower(f.Title)))
	}), nil
}

func (m *memStore) SearchJobs(_ context.Context, q string, limit int) ([]db.JobWithCompany, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	q = strings.ToLower(q)
	hits := []db.JobWithCompany{}
	for _, j := range m.sortedJobs(func(j db.Job) bool {
		return strings.Contains(strings.ToLower(j.Title), q) ||
			strings.Contains(strings.ToLower(j.Department), q) ||
			strings.Contains(strings.ToLower(j.Location), q)
	}) {
		c := m.companies[j.CompanyID]
		if !c.IsPublished {
			continue
		}
		hits = append(hits, db.JobWithCompany{Job: j, CompanyName: c.Name, CompanySlug: c.Slug})
		if len(hits) == limit {
			break
		}
	}
	return hits, nil
}

func (m *memStore) CreateApplication(_ context.Context, jobID, candidateID uuid.UUID) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, a := range m.applications {
		if a.JobID == jobID && a.CandidateID == candidateID {
			return nil, fmt.Errorf("create application: %w", db.ErrDuplicate)
		}
	}
	now := m.tick()
	a := db.Application{ID: uuid.New(), JobID: jobID, CandidateID: candidateID, Status: types.StatusApplied, CreatedAt: now, UpdatedAt: now}
	m.applications[a.ID] = a
	return &a, nil
}

func (m *memStore) GetApplication(_ context.Context, jobID, candidateID uuid.UUID) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, a := range m.applications {
		if a.JobID == jobID && a.CandidateID == candidateID {
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetApplicationByID(_ context.Context, id uuid.UUID) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	a, ok := m.applications[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *memStore) UpdateApplicationStatus(_ context.Context, id uuid.UUID, status types.ApplicationStatus) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	a, ok := m.applications[id]
	if !ok {
		return nil, nil
	}
	a.Status = status
	a.UpdatedAt = m.tick()
	m.applications[id] = a
	return &a, nil
}

func (m *memStore) sortedApplications(keep func(db.Application) bool) []db.Application {
	out := []db.Application{}
	for _, a := range m.applications {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memStore) ListApplicationsByCandidate(_ context.Context, candidateID uuid.UUID) ([]db.CandidateApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []db.CandidateApplication{}
	for _, a := range m.sortedApplications(func(a db.Application) bool { return a.CandidateID == candidateID }) {
		j := m.jobs[a.JobID]
		c := m.companies[j.CompanyID]
		out = append(out, db.CandidateApplication{Application: a, JobTitle: j.Title, JobSlug: j.Slug, CompanyName: c.Name, CompanySlug: c.Slug})
	}
	return out, nil
}

func (m *memStore) ListAppliedJobIDs(_ context.Context, candidateID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	ids := []uuid.UUID{}
	for _, a := range m.sortedApplications(func(a db.Application) bool { return a.CandidateID == candidateID }) {
		ids = append(ids, a.JobID)
	}
	return ids, nil
}

func (m *memStore) ListApplicationsByCompany(_ context.Context, companyID uuid.UUID) ([]db.CompanyApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []db.CompanyApplication{}
	for _, a := range m.sortedApplications(func(a db.Application) bool { return m.jobs[a.JobID].CompanyID == companyID }) {
		u := m.users[a.CandidateID]
		out = append(out, db.CompanyApplication{Application: a, JobTitle: m.jobs[a.JobID].Title, CandidateName: u.Name, CandidateEmail: u.Email})
	}
	return out, nil
}

func (m *memStore) CountApplicationsByCompany(_ context.Context, companyID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	n := 0
	for _, a := range m.applications {
		if m.jobs[a.JobID].CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountCompaniesByOwner(_ context.Context, ownerID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	n := 0
	for _, c := range m.companies {
		if c.CreatedBy == ownerID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountJobsByOwner(_ context.Context, ownerID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	n := 0
	for _, j := range m.jobs {
		if m.companies[j.CompanyID].CreatedBy == ownerID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountApplicationsByOwner(_ context.Context, ownerID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	n := 0
	for _, a := range m.applications {
		if m.companies[m.jobs[a.JobID].CompanyID].CreatedBy == ownerID {
			n++
		}
	}
	return n, nil
}

var errStoreDown = errors.New("connection refused")
