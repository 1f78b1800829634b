package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hallseat/config"
	"hallseat/infras/otel/mocks"
	"hallseat/infras/postgres"
	assignmentMocks "hallseat/internal/domains/assignment/mocks"
	"hallseat/internal/domains/assignment/model"
	"hallseat/internal/domains/assignment/model/dto"
	"hallseat/internal/domains/assignment/service"
	roomMocks "hallseat/internal/domains/room/mocks"
	roomModel "hallseat/internal/domains/room/model"
	studentMocks "hallseat/internal/domains/student/mocks"
	cacheMocks "hallseat/shared/cache/mocks"
	gDto "hallseat/shared/dto"
	"hallseat/shared/failure"
)

type fixture struct {
	repo        *assignmentMocks.MockAssignment
	roomRepo    *roomMocks.MockRoom
	studentRepo *studentMocks.MockStudent
	cache       *cacheMocks.MockRedisCache
	db          sqlmock.Sqlmock
	svc         service.Assignment
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	sqlDB, db, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	conn := &postgres.Connection{Write: sqlx.NewDb(sqlDB, "postgres")}

	f := fixture{
		repo:        assignmentMocks.NewMockAssignment(ctrl),
		roomRepo:    roomMocks.NewMockRoom(ctrl),
		studentRepo: studentMocks.NewMockStudent(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
		db:          db,
	}
	f.svc = service.New(f.repo, f.roomRepo, f.studentRepo, conn, &config.Config{}, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func (f fixture) lockRoom(room roomModel.Room) {
	f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(room, nil)
}

func (f fixture) counts(student, room int) {
	gomock.InOrder(
		f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (int, error) {
				_, args := filter.GetWhereClause()
				if _, ok := args["room_assignments_student_id"]; !ok {
					return 0, errors.New("expected the student filter first")
				}

				return student, nil
			}),
		f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room, nil),
	)
}

var req = dto.CreateAssignmentRequest{StudentID: "st-1", RoomID: "r-1"}

func TestAssignmentService_Assign(t *testing.T) {
	t.Run("student missing", func(t *testing.T) {
		f := newFixture(t)
		f.studentRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.svc.Assign(context.Background(), req)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("room missing", func(t *testing.T) {
		f := newFixture(t)
		f.studentRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.db.ExpectBegin()
		f.lockRoom(roomModel.Room{})
		f.db.ExpectRollback()

		_, err := f.svc.Assign(context.Background(), req)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.NoError(t, f.db.ExpectationsWereMet())
	})

	t.Run("room under maintenance", func(t *testing.T) {
		f := newFixture(t)
		f.studentRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.db.ExpectBegin()
		f.lockRoom(roomModel.Room{ID: "r-1", Capacity: 2, Status: roomModel.StatusMaintenance})
		f.db.ExpectRollback()

		_, err := f.svc.Assign(context.Background(), req)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("student already housed", func(t *testing.T) {
		f := newFixture(t)
		f.studentRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.db.ExpectBegin()
		f.lockRoom(roomModel.Room{ID: "r-1", Capacity: 2, Status: roomModel.StatusAvailable})
		f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(1, nil)
		f.db.ExpectRollback()

		_, err := f.svc.Assign(context.Background(), req)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.Equal(t, "student already has an active room assignment", err.Error())
	})

	t.Run("room full", func(t *testing.T) {
		f := newFixture(t)
		f.studentRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.db.ExpectBegin()
		f.lockRoom(roomModel.Room{ID: "r-1", Capacity: 2, Status: roomModel.StatusOccupied})
		f.counts(0, 2)
		f.db.ExpectRollback()

		_, err := f.svc.Assign(context.Background(), req)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.Equal(t, "room is at full capacity", err.Error())
	})

	t.Run("room keeps space", func(t *testing.T) {
		f := newFixture(t)
		f.studentRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.db.ExpectBegin()
		f.lockRoom(roomModel.Room{ID: "r-1", Capacity: 3, Status: roomModel.StatusAvailable})
		f.counts(0, 1)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, assignment model.Assignment) error {
				assert.True(t, assignment.IsActive)
				assert.Equal(t, "r-1", assignment.RoomID)

				return nil
			})
		f.db.ExpectCommit()
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Assignment{ID: "as-1", RoomNumber: "101", IsActive: true}, nil)

		res, err := f.svc.Assign(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "101", res.RoomNumber)
		assert.NoError(t, f.db.ExpectationsWereMet())
	})

	t.Run("last bed marks the room occupied", func(t *testing.T) {
		f := newFixture(t)
		f.studentRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.db.ExpectBegin()
		f.lockRoom(roomModel.Room{ID: "r-1", Capacity: 2, Status: roomModel.StatusAvailable})
		f.counts(0, 1)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.roomRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, roomModel.StatusOccupied, fields[roomModel.FieldStatus])

				return nil
			})
		f.db.ExpectCommit()
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Assignment{ID: "as-1"}, nil)

		_, err := f.svc.Assign(context.Background(), req)

		require.NoError(t, err)
		assert.NoError(t, f.db.ExpectationsWereMet())
	})
}

func TestAssignmentService_CheckOut(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.db.ExpectBegin()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Assignment{}, nil)
		f.db.ExpectRollback()

		err := f.svc.CheckOut(context.Background(), dto.CheckOutRequest{}, "as-x")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("already checked out", func(t *testing.T) {
		f := newFixture(t)
		f.db.ExpectBegin()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Assignment{ID: "as-1"}, nil)
		f.db.ExpectRollback()

		err := f.svc.CheckOut(context.Background(), dto.CheckOutRequest{}, "as-1")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("bad date", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.CheckOut(context.Background(), dto.CheckOutRequest{CheckOutDate: "soon"}, "as-1")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("releases the room", func(t *testing.T) {
		f := newFixture(t)
		f.db.ExpectBegin()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Assignment{ID: "as-1", RoomID: "r-1", IsActive: true}, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, false, fields[model.FieldIsActive])
				checkOut, ok := fields[model.FieldCheckOutDate].(time.Time)
				require.True(t, ok)
				assert.Equal(t, 2024, checkOut.Year())

				return nil
			})
		f.roomRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
				assert.Equal(t, roomModel.StatusAvailable, fields[roomModel.FieldStatus])

				where, args := filter.GetWhereClause()
				assert.Contains(t, where, "rooms.status != :rooms_status")
				assert.Equal(t, "r-1", args["rooms_id"])

				return nil
			})
		f.db.ExpectCommit()

		err := f.svc.CheckOut(context.Background(), dto.CheckOutRequest{CheckOutDate: "2024-12-20"}, "as-1")

		require.NoError(t, err)
		assert.NoError(t, f.db.ExpectationsWereMet())
	})
}

func TestAssignmentService_GetAll(t *testing.T) {
	f := newFixture(t)
	active := true
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Assignment{{ID: "as-1", StudentFirstName: "Ada", StudentLastName: "Lovelace", IsActive: true}}, nil)

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, dto.AssignmentFilter{IsActive: &active})

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Ada Lovelace", res.Items[0].StudentName)
}
