package server

import (
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/careerpage/internal/db"
	"github.com/jonathan/careerpage/internal/metrics"
	"github.com/jonathan/careerpage/internal/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleApply(t *testing.T) {
	e := newTestEnv(t)
	rita := e.recruiter("Rita")
	carl := e.candidate("Carl")
	co := e.company(rita, "acme", true, nil)
	job := e.job(co, "Engineer", "engineer")
	path := "/api/jobs/" + job.ID.String() + "/apply"
	before := testutil.ToFloat64(metrics.ApplicationsSubmitted)

	w := e.do(http.MethodPost, path, nil, &carl)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	application := decode[db.Application](t, w)
	assert.Equal(t, job.ID, application.JobID)
	assert.Equal(t, carl.UserID, application.CandidateID)
	assert.Equal(t, types.StatusApplied, application.Status)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ApplicationsSubmitted))

	w = e.do(http.MethodPost, path, nil, &carl)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "You have already applied for this job", errorOf(t, w))

	w = e.do(http.MethodPost, "/api/jobs/"+uuid.NewString()+"/apply", nil, &carl)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Job not found", errorOf(t, w))
}

func TestHandleApply_UnpublishedCompany(t *testing.T) {
	e := newTestEnv(t)
	rita := e.recruiter("Rita")
	carl := e.candidate("Carl")
	job := e.job(e.company(rita, "draft", false, nil), "Engineer", "engineer")

	w := e.do(http.MethodPost, "/api/jobs/"+job.ID.String()+"/apply", nil, &carl)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleApply_ConcurrentDuplicates(t *testing.T) {
	e := newTestEnv(t)
	rita := e.recruiter("Rita")
	carl := e.candidate("Carl")
	job := e.job(e.company(rita, "acme", true, nil), "Engineer", "engineer")
	path := "/api/jobs/" + job.ID.String() + "/apply"

	const attempts = 10
	codes := make([]int, attempts)
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes[i] = e.do(http.MethodPost, path, nil, &carl).Code
		}()
	}
	wg.Wait()

	created := 0
	for _, code := range codes {
		if code == http.StatusCreated {
			created++
		} else {
			assert.Equal(t, http.StatusConflict, code)
		}
	}
	assert.Equal(t, 1, created)
}

func TestHandleMyApplications(t *testing.T) {
	e := newTestEnv(t)
	rita := e.recruiter("Rita")
	carl := e.candidate("Carl")
	cora := e.candidate("Cora")
	co := e.company(rita, "acme", true, nil)
	first := e.job(co, "Engineer", "engineer")
	second := e.job(co, "Designer", "designer")

	for _, j := range []*db.Job{first, second} {
		require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/api/jobs/"+j.ID.String()+"/apply", nil, &carl).Code)
	}

	w := e.do(http.MethodGet, "/api/applications/my-applications", nil, &carl)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[[]db.CandidateApplication](t, w)
	require.Len(t, mine, 2)
	assert.Equal(t, "Designer", mine[0].JobTitle, "newest first")
	assert.Equal(t, "acme", mine[0].CompanySlug)

	w = e.do(http.MethodGet, "/api/applications/my-job-ids", nil, &carl)
	require.Equal(t, http.StatusOK, w.Code)
	assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, decode[[]uuid.UUID](t, w))

	w = e.do(http.MethodGet, "/api/applications/my-applications", nil, &cora)
	assert.JSONEq(t, "[]", w.Body.String())
	w = e.do(http.MethodGet, "/api/applications/my-job-ids", nil, &cora)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestHandleListCompanyApplications(t *testing.T) {
	e := newTestEnv(t)
	rita := e.recruiter("Rita")
	otto := e.recruiter("Otto")
	carl := e.candidate("Carl")
	co := e.company(rita, "acme", true, nil)
	job := e.job(co, "Engineer", "engineer")
	require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/api/jobs/"+job.ID.String()+"/apply", nil, &carl).Code)

	w := e.do(http.MethodGet, "/api/company/acme/applications", nil, &rita)
	require.Equal(t, http.StatusOK, w.Code)
	apps := decode[[]db.CompanyApplication](t, w)
	require.Len(t, apps, 1)
	assert.Equal(t, "Carl", apps[0].CandidateName)
	assert.Equal(t, "carl@example.com", apps[0].CandidateEmail)
	assert.Equal(t, "Engineer", apps[0].JobTitle)

	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/api/company/acme/applications", nil, &otto).Code)
}

func TestHandleUpdateApplicationStatus(t *testing.T) {
	e := newTestEnv(t)
	rita := e.recruiter("Rita")
	otto := e.recruiter("Otto")
	carl := e.candidate("Carl")
	job := e.job(e.company(rita, "acme", true, nil), "Engineer", "engineer")
	application, err := e.store.CreateApplication(t.Context(), job.ID, carl.UserID)
	require.NoError(t, err)
	path := "/api/applications/" + application.ID.String()

	w := e.do(http.MethodPut, path, map[string]any{"status": "INTERVIEWING"}, &rita)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, types.StatusInterviewing, decode[db.Application](t, w).Status)

	w = e.do(http.MethodPut, path, map[string]any{"status": "HIRED"}, &rita)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status must be one of APPLIED, REVIEWED, INTERVIEWING, OFFERED, REJECTED", errorOf(t, w))

	w = e.do(http.MethodPut, path, map[string]any{"status": "REJECTED"}, &otto)
	assert.Equal(t, http.StatusNotFound, w.Code, "only the owner of the job's company may change status")
	stored, err := e.store.GetApplicationByID(t.Context(), application.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusInterviewing, stored.Status)

	w = e.do(http.MethodPut, "/api/applications/"+uuid.NewString(), map[string]any{"status": "REJECTED"}, &rita)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Application not found", errorOf(t, w))
}
