package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hallseat/config"
	"hallseat/infras/otel/mocks"
	maintenanceMocks "hallseat/internal/domains/maintenance/mocks"
	"hallseat/internal/domains/maintenance/model"
	"hallseat/internal/domains/maintenance/model/dto"
	"hallseat/internal/domains/maintenance/service"
	studentMocks "hallseat/internal/domains/student/mocks"
	studentModel "hallseat/internal/domains/student/model"
	"hallseat/internal/events"
	eventMocks "hallseat/internal/events/mocks"
	cacheMocks "hallseat/shared/cache/mocks"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	"hallseat/shared/failure"
)

type fixture struct {
	repo        *maintenanceMocks.MockMaintenance
	studentRepo *studentMocks.MockStudent
	publisher   *eventMocks.MockPublisher
	cache       *cacheMocks.MockRedisCache
	svc         service.Maintenance
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:        maintenanceMocks.NewMockMaintenance(ctrl),
		studentRepo: studentMocks.NewMockStudent(ctrl),
		publisher:   eventMocks.NewMockPublisher(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.New(f.repo, f.studentRepo, f.publisher, &config.Config{}, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func TestMaintenanceService_Create(t *testing.T) {
	t.Run("unknown room", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23503"})

		_, err := f.svc.Create(context.Background(), dto.CreateMaintenanceRequest{RoomID: "room-x", Category: model.CategoryOther})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("returns the joined request", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Request{ID: "mr-1", RoomNumber: "101", BuildingName: "North"}, nil)

		res, err := f.svc.Create(context.Background(), dto.CreateMaintenanceRequest{RoomID: "room-1", Category: model.CategoryElectrical})

		require.NoError(t, err)
		assert.Equal(t, "101", res.RoomNumber)
		assert.Equal(t, "North", res.BuildingName)
	})
}

func TestMaintenanceService_Report(t *testing.T) {
	f := newFixture(t)
	f.studentRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studentModel.Student{ID: "st-1"}, nil)
	f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, request model.Request) error {
			require.NotNil(t, request.StudentID)
			assert.Equal(t, "st-1", *request.StudentID)

			return nil
		})
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Request{ID: "mr-1"}, nil)

	_, err := f.svc.Report(context.Background(), dto.ReportMaintenanceRequest{RoomID: "room-1", Category: model.CategoryPlumbing}, "u-1", "ada@hall.edu")

	require.NoError(t, err)
}

func TestMaintenanceService_Update(t *testing.T) {
	t.Run("completing stamps completed_at and publishes", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Request{ID: "mr-1", Status: model.StatusInProgress}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.StatusCompleted, fields[model.FieldStatus])
				assert.IsType(t, time.Time{}, fields[model.FieldCompletedAt])
				assert.Equal(t, fields[constant.FieldUpdatedAt], fields[model.FieldCompletedAt])

				return nil
			})
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, published ...events.Event) {
				require.Len(t, published, 1)
				assert.Equal(t, events.MaintenanceStatusChanged, published[0].Name)
				assert.Equal(t, "COMPLETED", published[0].Status)
			})

		err := f.svc.Update(context.Background(), dto.UpdateMaintenanceRequest{Status: model.StatusCompleted}, "mr-1")

		require.NoError(t, err)
	})

	t.Run("reopening clears completed_at", func(t *testing.T) {
		f := newFixture(t)
		done := time.Now()
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Request{ID: "mr-1", Status: model.StatusCompleted, CompletedAt: &done}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Contains(t, fields, model.FieldCompletedAt)
				assert.Nil(t, fields[model.FieldCompletedAt])

				return nil
			})
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

		require.NoError(t, f.svc.Update(context.Background(), dto.UpdateMaintenanceRequest{Status: model.StatusInProgress}, "mr-1"))
	})

	t.Run("no status change publishes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Request{ID: "mr-1", Status: model.StatusSubmitted}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.NotContains(t, fields, model.FieldCompletedAt)

				return nil
			})

		require.NoError(t, f.svc.Update(context.Background(), dto.UpdateMaintenanceRequest{Priority: model.PriorityHigh}, "mr-1"))
	})
}

func TestMaintenanceService_LeaveFeedback(t *testing.T) {
	mine := "st-1"

	tests := []struct {
		name    string
		request model.Request
		code    int
	}{
		{"not completed", model.Request{ID: "mr-1", StudentID: &mine, Status: model.StatusInProgress}, http.StatusBadRequest},
		{"someone else's request", model.Request{ID: "mr-1", Status: model.StatusCompleted}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.studentRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studentModel.Student{ID: "st-1"}, nil)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.request, nil)

			err := f.svc.LeaveFeedback(context.Background(), dto.FeedbackRequest{Feedback: "thanks"}, "mr-1", "u-1", "ada@hall.edu")

			assert.Equal(t, tt.code, failure.GetCode(err))
		})
	}

	t.Run("saved", func(t *testing.T) {
		f := newFixture(t)
		f.studentRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studentModel.Student{ID: "st-1"}, nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Request{ID: "mr-1", StudentID: &mine, Status: model.StatusCompleted}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "thanks", fields[model.FieldFeedback])

				return nil
			})

		require.NoError(t, f.svc.LeaveFeedback(context.Background(), dto.FeedbackRequest{Feedback: "thanks"}, "mr-1", "u-1", "ada@hall.edu"))
	})
}

func TestMaintenanceService_Delete_NotFound(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

	err := f.svc.Delete(context.Background(), "missing")

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}
