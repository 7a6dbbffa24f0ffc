package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cadencehq/cadence/internal/dateutil"
	"github.com/cadencehq/cadence/internal/models"
	"github.com/cadencehq/cadence/internal/queue"
	"github.com/cadencehq/cadence/internal/request"
)

type fakeActivityRepo struct {
	days     []models.ActivityDay
	upserted []*models.ActivityDay
}

func (f *fakeActivityRepo) GetWindow(_ context.Context, _ uuid.UUID, _, _ dateutil.LocalDate) ([]models.ActivityDay, error) {
	return f.days, nil
}

func (f *fakeActivityRepo) Upsert(_ context.Context, day *models.ActivityDay) error {
	f.upserted = append(f.upserted, day)
	return nil
}

type fakeQueue struct {
	jobs []*queue.Job
}

func (f *fakeQueue) Enqueue(_ context.Context, job *queue.Job) error {
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeQueue) Consume(_ context.Context, _ int) (<-chan *queue.Message, <-chan error, error) {
	return nil, nil, nil
}

func (f *fakeQueue) Close() error { return nil }

func (f *fakeQueue) HealthCheck(_ context.Context) error { return nil }

func newActivityHandler(repo *fakeActivityRepo, store *fakeStreakStore, jq *fakeQueue) *ActivityHandler {
	h := &ActivityHandler{
		activityRepo: repo,
		streakRepo:   store,
		jobQueue:     jq,
		logger:       zap.NewNop(),
	}
	return h
}

func TestRecordActivityUpsertsAndEnqueues(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New()}
	repo := &fakeActivityRepo{}
	jq := &fakeQueue{}
	h := newActivityHandler(repo, &fakeStreakStore{}, jq)

	body := strings.NewReader(`{"date":"2024-05-10","is_active":true}`)
	req := httptest.NewRequest("POST", "/activity", body)
	req = req.WithContext(request.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	h.RecordActivity(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, repo.upserted, 1)
	assert.Equal(t, "2024-05-10", repo.upserted[0].Date.String())
	assert.True(t, repo.upserted[0].IsActive)

	require.Len(t, jq.jobs, 1)
	job := jq.jobs[0]
	assert.Equal(t, queue.JobTypeStreakRecompute, job.Type)
	assert.Equal(t, user.ID, job.UserID)
	assert.Equal(t, int64(1), job.Seq)
	require.NotNil(t, job.NotBefore)
}

func TestRecordActivityRejectsInvalidDate(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New()}
	repo := &fakeActivityRepo{}
	h := newActivityHandler(repo, &fakeStreakStore{}, &fakeQueue{})

	for _, body := range []string{
		`{"date":"2023-02-29","is_active":true}`,
		`{"date":"05/10/2024","is_active":true}`,
		`{"is_active":true}`,
		`not json`,
	} {
		req := httptest.NewRequest("POST", "/activity", strings.NewReader(body))
		req = req.WithContext(request.WithUser(req.Context(), user))
		rec := httptest.NewRecorder()
		h.RecordActivity(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body=%s", body)
	}
	assert.Empty(t, repo.upserted)
}

func TestGetActivityReturnsWindow(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New()}
	repo := &fakeActivityRepo{days: []models.ActivityDay{
		{UserID: user.ID, Date: dateutil.MustParse("2024-05-08"), IsActive: true},
		{UserID: user.ID, Date: dateutil.MustParse("2024-05-09"), IsActive: false},
	}}
	h := newActivityHandler(repo, &fakeStreakStore{}, &fakeQueue{})

	req := authedRequest(t, "GET", "/activity?from=2024-05-01&to=2024-05-31", user)
	rec := httptest.NewRecorder()
	h.GetActivity(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var days []models.ActivityDay
	decodeData(t, rec, &days)
	require.Len(t, days, 2)
	assert.Equal(t, "2024-05-08", days[0].Date.String())
}

func TestGetActivityRejectsInvertedWindow(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New()}
	h := newActivityHandler(&fakeActivityRepo{}, &fakeStreakStore{}, &fakeQueue{})

	req := authedRequest(t, "GET", "/activity?from=2024-05-31&to=2024-05-01", user)
	rec := httptest.NewRecorder()
	h.GetActivity(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
