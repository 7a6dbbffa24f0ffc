package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cadencehq/cadence/internal/achievement"
	"github.com/cadencehq/cadence/internal/models"
)

func TestListBadgesReturnsCatalog(t *testing.T) {
	t.Parallel()

	h := NewBadgeHandler(achievement.DefaultCatalog(), &fakeStreakStore{}, zap.NewNop())

	req := authedRequest(t, "GET", "/badges", &models.User{ID: uuid.New()})
	rec := httptest.NewRecorder()
	h.ListBadges(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var badges []models.Badge
	decodeData(t, rec, &badges)
	require.Len(t, badges, 6)
	assert.Equal(t, 3, badges[0].ThresholdDays)
	assert.Equal(t, 100, badges[5].ThresholdDays)
}

func TestListEarnedBadgesUsesBest(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New()}
	store := &fakeStreakStore{record: &models.StreakRecord{
		UserID:  user.ID,
		Current: 1, // current run is irrelevant to earned badges
		Best:    15,
	}}
	h := NewBadgeHandler(achievement.DefaultCatalog(), store, zap.NewNop())

	req := authedRequest(t, "GET", "/badges/earned", user)
	rec := httptest.NewRecorder()
	h.ListEarnedBadges(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var earned []models.Badge
	decodeData(t, rec, &earned)
	require.Len(t, earned, 3)
	assert.Equal(t, 14, earned[2].ThresholdDays)
}

func TestListEarnedBadgesEmptyBeforeFirstRecompute(t *testing.T) {
	t.Parallel()

	h := NewBadgeHandler(achievement.DefaultCatalog(), &fakeStreakStore{}, zap.NewNop())

	req := authedRequest(t, "GET", "/badges/earned", &models.User{ID: uuid.New()})
	rec := httptest.NewRecorder()
	h.ListEarnedBadges(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var earned []models.Badge
	decodeData(t, rec, &earned)
	assert.Empty(t, earned)
}
