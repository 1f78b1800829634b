package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hallseat/config"
	"hallseat/infras/otel/mocks"
	userMocks "hallseat/internal/domains/user/mocks"
	"hallseat/internal/domains/user/model"
	"hallseat/internal/domains/user/model/dto"
	"hallseat/internal/domains/user/service"
	cacheMocks "hallseat/shared/cache/mocks"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	"hallseat/shared/failure"
	"hallseat/shared/password"
)

type fixture struct {
	repo  *userMocks.MockUser
	cache *cacheMocks.MockRedisCache
	svc   service.User
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:  userMocks.NewMockUser(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.New(f.repo, &config.Config{}, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func TestUserService_Create(t *testing.T) {
	f := newFixture(t)

	var inserted model.User
	f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, user model.User) error {
		inserted = user

		return nil
	})

	res, err := f.svc.Create(context.Background(), dto.CreateUserRequest{
		Email:     "  Warden@Hall.edu ",
		Password:  "s3cretpass",
		FirstName: "Ada",
		LastName:  "Warden",
		Role:      constant.RoleHallAdmin,
	})

	require.NoError(t, err)
	assert.Equal(t, "warden@hall.edu", res.Email)
	assert.Equal(t, constant.RoleHallAdmin, res.Role)
	assert.True(t, res.IsActive)
	assert.NotEqual(t, "s3cretpass", inserted.Password)
	assert.NoError(t, password.Verify("s3cretpass", inserted.Password))
}

func TestUserService_Get(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(f fixture)
		wantCode int
	}{
		{
			name: "found",
			setup: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "user:get:u-1", gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u-1", Email: "a@b.c"}, nil)
			},
		},
		{
			name: "not found",
			setup: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "repository failure",
			setup: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			res, err := f.svc.Get(context.Background(), "u-1")
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "u-1", res.ID)
		})
	}
}

func TestUserService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(12, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.User, error) {
			assert.Equal(t, "profiles.created_at", params.SortBy)
			assert.Equal(t, gDto.SortDirDesc, params.SortDir)

			return []model.User{{ID: "u-1"}, {ID: "u-2"}}, nil
		})

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 5, SortBy: "password"}, dto.UserFilter{Search: "ada"})

	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 12, res.TotalData)
	assert.Equal(t, 3, res.TotalPage)
}

func TestUserService_Update(t *testing.T) {
	t.Run("missing user", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := f.svc.Update(context.Background(), dto.UpdateUserRequest{FirstName: "New"}, "u-1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("only set fields are written", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "New", fields[model.FieldFirstName])
				assert.Equal(t, false, fields[model.FieldIsActive])
				assert.NotContains(t, fields, model.FieldLastName)
				assert.Contains(t, fields, constant.FieldUpdatedAt)

				return nil
			})

		inactive := false
		err := f.svc.Update(context.Background(), dto.UpdateUserRequest{FirstName: "New", IsActive: &inactive}, "u-1")
		assert.NoError(t, err)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u-1", FirstName: "Grace"}, nil)

	res, err := f.svc.UpdateProfile(context.Background(), dto.UpdateProfileRequest{FirstName: "Grace"}, "u-1")

	require.NoError(t, err)
	assert.Equal(t, "Grace", res.FirstName)
}

func TestUserService_Delete(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	assert.NoError(t, f.svc.Delete(context.Background(), "u-1"))
}
