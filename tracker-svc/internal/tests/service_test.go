package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"sergei-eats/lifecycle"
	"sergei-eats/tracker-svc/internal/domain"
	"sergei-eats/tracker-svc/internal/mocks"
	"sergei-eats/tracker-svc/internal/service"
	"sergei-eats/tracker-svc/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func now() time.Time { return clock.Add(3 * time.Hour) }

func TestTrackerService_RestaurantSummary(t *testing.T) {
	mr := miniredis.RunT(t)
	store := storage.NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour, time.Hour)
	svc := service.NewTrackerService(store, now)
	ctx := context.Background()

	orders := []lifecycle.Order{
		trackedOrder("A", lifecycle.StatusPending, 1),
		trackedOrder("B", lifecycle.StatusReady, 4),
		trackedOrder("C", lifecycle.StatusDelivered, 6),
	}
	for _, o := range orders {
		_, err := store.Apply(ctx, o)
		require.NoError(t, err)
	}

	summary, err := svc.RestaurantSummary(ctx, "uwu-cafe", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", summary.Date)
	assert.Equal(t, int64(3), summary.Placed)
	assert.Equal(t, int64(2), summary.Open)
	assert.Equal(t, 61.5, summary.Revenue)

	other, err := svc.RestaurantSummary(ctx, "uwu-cafe", "2024-04-30")
	require.NoError(t, err)
	assert.Zero(t, other.Placed)
	assert.Equal(t, int64(2), other.Open, "status counts are not per day")

	_, err = svc.RestaurantSummary(ctx, "uwu-cafe", "yesterday")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	got, err := svc.Order(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusReady, got.Status)

	_, err = svc.Order(ctx, "Z")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestTrackerService_TopRestaurants(t *testing.T) {
	tests := []struct {
		name      string
		day       string
		limit     int
		wantDay   string
		wantLimit int
		wantErr   error
	}{
		{name: "defaults_to_today", wantDay: "2024-05-01", wantLimit: 10},
		{name: "all_time", day: "all", limit: 3, wantDay: "", wantLimit: 3},
		{name: "limit_capped", day: "2024-04-01", limit: 1000, wantDay: "2024-04-01", wantLimit: 100},
		{name: "bad_date", day: "04/01/2024", wantErr: domain.ErrInvalidDate},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockStore := mocks.NewStoreInterface(t)
			if testCase.wantErr == nil {
				mockStore.On("TopRestaurants", mock.Anything, testCase.wantDay, testCase.wantLimit).
					Return([]domain.RestaurantRevenue{{RestaurantID: "uwu-cafe", Revenue: 10}}, nil).Once()
			}
			svc := service.NewTrackerService(mockStore, now)

			top, err := svc.TopRestaurants(context.Background(), testCase.day, testCase.limit)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, top, 1)
		})
	}
}

func TestTrackerService_StoreErrors(t *testing.T) {
	mockStore := mocks.NewStoreInterface(t)
	svc := service.NewTrackerService(mockStore, now)

	mockStore.On("StatusCounts", mock.Anything, "uwu-cafe").Return(map[lifecycle.Status]int64{}, nil).Once()
	mockStore.On("Placed", mock.Anything, "2024-05-01", "uwu-cafe").Return(int64(0), errors.New("redis down")).Once()

	_, err := svc.RestaurantSummary(context.Background(), "uwu-cafe", "")
	assert.ErrorContains(t, err, "redis down")
}
