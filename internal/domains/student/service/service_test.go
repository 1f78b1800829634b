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
	assignmentMocks "hallseat/internal/domains/assignment/mocks"
	studentMocks "hallseat/internal/domains/student/mocks"
	"hallseat/internal/domains/student/model"
	"hallseat/internal/domains/student/model/dto"
	"hallseat/internal/domains/student/service"
	cacheMocks "hallseat/shared/cache/mocks"
	gDto "hallseat/shared/dto"
	"hallseat/shared/failure"
)

type fixture struct {
	repo        *studentMocks.MockStudent
	assignments *assignmentMocks.MockAssignment
	cache       *cacheMocks.MockRedisCache
	cleared     chan string
	svc         service.Student
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:        studentMocks.NewMockStudent(ctrl),
		assignments: assignmentMocks.NewMockAssignment(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
		cleared:     make(chan string, 32),
	}
	f.svc = service.New(f.repo, f.assignments, &config.Config{}, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, pattern string) error {
			f.cleared <- pattern

			return nil
		}).AnyTimes()

	return f
}

// clearedPatterns collects the patterns cleared by the background invalidation.
func (f fixture) clearedPatterns(t *testing.T, want int) []string {
	t.Helper()

	patterns := make([]string, 0, want)
	timeout := time.After(time.Second)

	for len(patterns) < want {
		select {
		case pattern := <-f.cleared:
			patterns = append(patterns, pattern)
		case <-timeout:
			t.Fatalf("expected %d cleared patterns, got %v", want, patterns)
		}
	}

	return patterns
}

func TestStudentService_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Create(context.Background(), dto.CreateStudentRequest{Email: "a@b.c", StudentID: "S-1"})

		require.NoError(t, err)
		assert.Equal(t, "S-1", res.StudentID)
		assert.ElementsMatch(t, []string{"student:gets*", "dashboard*"}, f.clearedPatterns(t, 2))
	})

	t.Run("duplicate student id", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23505"})

		_, err := f.svc.Create(context.Background(), dto.CreateStudentRequest{Email: "a@b.c", StudentID: "S-1"})

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestStudentService_GetAll_CacheHit(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any) error {
			res, ok := value.(*gDto.ListResponse[dto.StudentResponse])
			require.True(t, ok)

			res.TotalData = 7

			return nil
		})

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, dto.StudentFilter{})

	require.NoError(t, err)
	assert.Equal(t, 7, res.TotalData)
}

func TestStudentService_Get_NotFound(t *testing.T) {
	f := newFixture(t)
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Student{}, nil)

	_, err := f.svc.Get(context.Background(), "missing")

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestStudentService_GetMine(t *testing.T) {
	t.Run("links an unclaimed record found by email", func(t *testing.T) {
		f := newFixture(t)
		gomock.InOrder(
			f.repo.EXPECT().Get(gomock.Any(), dto.OwnerFilter("u-1")).Return(model.Student{}, nil),
			f.repo.EXPECT().Get(gomock.Any(), dto.ClaimableFilter("ada@hall.edu")).Return(model.Student{ID: "st-1", Email: "ada@hall.edu"}, nil),
			f.repo.EXPECT().Update(gomock.Any(), map[string]any{model.FieldUserID: "u-1"}, dto.LinkFilter("st-1")).Return(nil),
		)

		res, err := f.svc.GetMine(context.Background(), "u-1", "ada@hall.edu")

		require.NoError(t, err)
		require.NotNil(t, res.UserID)
		assert.Equal(t, "u-1", *res.UserID)
	})

	t.Run("prefers the record linked to the profile", func(t *testing.T) {
		f := newFixture(t)
		userID := "u-1"
		f.repo.EXPECT().Get(gomock.Any(), dto.OwnerFilter("u-1")).Return(model.Student{ID: "st-1", UserID: &userID}, nil)

		res, err := f.svc.GetMine(context.Background(), "u-1", "ada@hall.edu")

		require.NoError(t, err)
		assert.Equal(t, "st-1", res.ID)
	})

	t.Run("record claimed by another profile is forbidden", func(t *testing.T) {
		f := newFixture(t)
		other := "u-2"
		gomock.InOrder(
			f.repo.EXPECT().Get(gomock.Any(), dto.OwnerFilter("u-1")).Return(model.Student{}, nil),
			f.repo.EXPECT().Get(gomock.Any(), dto.ClaimableFilter("ada@hall.edu")).Return(model.Student{ID: "st-1", UserID: &other}, nil),
		)

		_, err := f.svc.GetMine(context.Background(), "u-1", "ada@hall.edu")

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("no record", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Student{}, nil).Times(2)

		_, err := f.svc.GetMine(context.Background(), "u-1", "ada@hall.edu")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("empty email skips the unclaimed lookup", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), dto.OwnerFilter("u-1")).Return(model.Student{}, nil)

		_, err := f.svc.GetMine(context.Background(), "u-1", "")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestStudentService_UpdateMine(t *testing.T) {
	f := newFixture(t)
	userID := "u-1"

	gomock.InOrder(
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Student{ID: "st-1", UserID: &userID}, nil),
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "555-0100", fields[model.FieldPhoneNumber])
				assert.NotContains(t, fields, model.FieldDepartment)

				return nil
			}),
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Student{ID: "st-1", PhoneNumber: "555-0100"}, nil),
	)

	res, err := f.svc.UpdateMine(context.Background(), dto.UpdateMyStudentRequest{PhoneNumber: "555-0100"}, "u-1", "")

	require.NoError(t, err)
	assert.Equal(t, "555-0100", res.PhoneNumber)
}

func TestStudentService_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.assignments.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, f.svc.Delete(context.Background(), "st-1"))
		assert.ElementsMatch(t, []string{
			"student:gets*",
			"student:get:st-1*",
			"dashboard*",
			"application:*",
			"assignment:*",
			"invoice:*",
			"maintenance:*",
		}, f.clearedPatterns(t, 7))
	})

	t.Run("holds an active assignment", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.assignments.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)

		err := f.svc.Delete(context.Background(), "st-1")

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("referenced by invoices", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.assignments.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23503"})

		err := f.svc.Delete(context.Background(), "st-1")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("assignment lookup fails", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.assignments.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("db down"))

		assert.Error(t, f.svc.Delete(context.Background(), "st-1"))
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(f.svc.Delete(context.Background(), "st-1")))
	})
}

func TestStudentService_Update_InvalidatesDashboard(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, f.svc.Update(context.Background(), dto.UpdateStudentRequest{Department: "Physics"}, "st-1"))
	assert.Contains(t, f.clearedPatterns(t, 7), "dashboard*")
}
