package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hallseat/config"
	"hallseat/infras/otel/mocks"
	"hallseat/infras/postgres"
	s3Mocks "hallseat/infras/s3/mocks"
	appMocks "hallseat/internal/domains/application/mocks"
	"hallseat/internal/domains/application/model"
	"hallseat/internal/domains/application/model/dto"
	"hallseat/internal/domains/application/service"
	studentMocks "hallseat/internal/domains/student/mocks"
	studentModel "hallseat/internal/domains/student/model"
	eventMocks "hallseat/internal/events/mocks"
	cacheMocks "hallseat/shared/cache/mocks"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	"hallseat/shared/failure"
)

type fixture struct {
	repo        *appMocks.MockApplication
	studentRepo *studentMocks.MockStudent
	s3          *s3Mocks.MockS3
	publisher   *eventMocks.MockPublisher
	cache       *cacheMocks.MockRedisCache
	db          sqlmock.Sqlmock
	svc         service.Application
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	sqlDB, db, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	conn := &postgres.Connection{Write: sqlx.NewDb(sqlDB, "postgres")}

	f := fixture{
		repo:        appMocks.NewMockApplication(ctrl),
		studentRepo: studentMocks.NewMockStudent(ctrl),
		s3:          s3Mocks.NewMockS3(ctrl),
		publisher:   eventMocks.NewMockPublisher(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
		db:          db,
	}
	f.svc = service.New(f.repo, f.studentRepo, conn, f.s3, f.publisher, &config.Config{}, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func pdfHeader(name string) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: name,
		Header:   textproto.MIMEHeader{constant.RequestHeaderContentType: {"application/pdf"}},
	}
}

func studentContext(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, "ada@hall.edu")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleStudent)
}

func TestApplicationService_Create(t *testing.T) {
	t.Run("unknown student", func(t *testing.T) {
		f := newFixture(t)
		f.studentRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.svc.Create(context.Background(), dto.CreateApplicationRequest{StudentID: "st-1", PreferredRoomType: "SINGLE"})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("created with joined fields", func(t *testing.T) {
		f := newFixture(t)
		f.studentRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, application model.Application) error {
				assert.Equal(t, model.StatusSubmitted, application.Status)
				assert.NotNil(t, application.Documents)

				return nil
			})
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Application{ID: "app-1", StudentID: "st-1", StudentFirstName: "Ada", StudentLastName: "Lovelace", Status: model.StatusSubmitted}, nil)

		res, err := f.svc.Create(context.Background(), dto.CreateApplicationRequest{StudentID: "st-1", PreferredRoomType: "SINGLE"})

		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", res.StudentName)
		assert.Empty(t, res.Documents)
	})

	t.Run("unknown preferred building", func(t *testing.T) {
		f := newFixture(t)
		f.studentRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23503"})

		_, err := f.svc.Create(context.Background(), dto.CreateApplicationRequest{StudentID: "st-1", PreferredRoomType: "SINGLE"})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestApplicationService_Submit(t *testing.T) {
	t.Run("no linked student", func(t *testing.T) {
		f := newFixture(t)
		f.studentRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studentModel.Student{}, nil).Times(2)

		_, err := f.svc.Submit(context.Background(), dto.SubmitApplicationRequest{PreferredRoomType: "DOUBLE"}, "u-1", "ada@hall.edu")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("application already in progress", func(t *testing.T) {
		f := newFixture(t)
		f.studentRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studentModel.Student{ID: "st-1"}, nil)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
				where, args := filter.GetWhereClause()
				assert.Contains(t, where, "applications.status IN")
				assert.Equal(t, "st-1", args["applications_student_id"])

				return true, nil
			})

		_, err := f.svc.Submit(context.Background(), dto.SubmitApplicationRequest{PreferredRoomType: "DOUBLE"}, "u-1", "ada@hall.edu")

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestApplicationService_GetMine(t *testing.T) {
	f := newFixture(t)
	f.studentRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studentModel.Student{ID: "st-1"}, nil)
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, "st-1", args["applications_student_id"])

			return 1, nil
		})
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Application{{ID: "app-1", StudentID: "st-1"}}, nil)

	res, err := f.svc.GetMine(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, "u-1", "ada@hall.edu")

	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	require.Len(t, res.Items, 1)
}

func TestApplicationService_UpdateStatus(t *testing.T) {
	t.Run("mirrors the status onto the student", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Application{ID: "app-1", StudentID: "st-1"}, nil)
		f.db.ExpectBegin()
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "APPROVED", fields[model.FieldStatus])
				assert.Equal(t, "welcome", fields[model.FieldAdminComments])

				return nil
			})
		f.studentRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
				_, args := filter.GetWhereClause()
				assert.Equal(t, "st-1", args["students_id"])
				assert.Equal(t, "APPROVED", fields[studentModel.FieldApplicationStatus])

				return nil
			})
		f.db.ExpectCommit()
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

		err := f.svc.UpdateStatus(context.Background(), dto.UpdateApplicationStatusRequest{Status: model.StatusApproved, AdminComments: "welcome"}, "app-1")

		require.NoError(t, err)
		assert.NoError(t, f.db.ExpectationsWereMet())
	})

	t.Run("rolls back when the student update fails", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Application{ID: "app-1", StudentID: "st-1"}, nil)
		f.db.ExpectBegin()
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.studentRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("boom"))
		f.db.ExpectRollback()

		err := f.svc.UpdateStatus(context.Background(), dto.UpdateApplicationStatusRequest{Status: model.StatusRejected}, "app-1")

		require.Error(t, err)
		assert.NoError(t, f.db.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Application{}, nil)

		err := f.svc.UpdateStatus(context.Background(), dto.UpdateApplicationStatusRequest{Status: model.StatusApproved}, "missing")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestApplicationService_UploadDocument(t *testing.T) {
	t.Run("appends the uploaded url", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Application{ID: "app-1", Documents: pq.StringArray{"https://cdn/a.pdf"}}, nil)
		f.s3.EXPECT().UploadFile(gomock.Any(), "applications/app-1", gomock.Any(), gomock.Any(), gomock.Any()).Return("https://cdn/b.pdf", nil)
		f.db.ExpectBegin()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), model.FieldID, model.FieldDocuments).
			Return(model.Application{ID: "app-1", Documents: pq.StringArray{"https://cdn/a.pdf"}}, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, pq.StringArray{"https://cdn/a.pdf", "https://cdn/b.pdf"}, fields[model.FieldDocuments])

				return nil
			})
		f.db.ExpectCommit()

		res, err := f.svc.UploadDocument(context.Background(), "app-1", dto.UploadDocumentRequest{File: pdfHeader("Transcript.PDF")})

		require.NoError(t, err)
		assert.Equal(t, "https://cdn/b.pdf", res.URL)
		assert.Len(t, res.Documents, 2)
		assert.NoError(t, f.db.ExpectationsWereMet())
	})

	t.Run("keeps documents added by a concurrent upload", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Application{ID: "app-1", Documents: pq.StringArray{"https://cdn/a.pdf"}}, nil)
		f.s3.EXPECT().UploadFile(gomock.Any(), "applications/app-1", gomock.Any(), gomock.Any(), gomock.Any()).Return("https://cdn/c.pdf", nil)
		f.db.ExpectBegin()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(model.Application{ID: "app-1", Documents: pq.StringArray{"https://cdn/a.pdf", "https://cdn/b.pdf"}}, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, pq.StringArray{"https://cdn/a.pdf", "https://cdn/b.pdf", "https://cdn/c.pdf"}, fields[model.FieldDocuments])

				return nil
			})
		f.db.ExpectCommit()

		res, err := f.svc.UploadDocument(context.Background(), "app-1", dto.UploadDocumentRequest{File: pdfHeader("c.pdf")})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn/a.pdf", "https://cdn/b.pdf", "https://cdn/c.pdf"}, res.Documents)
		assert.NoError(t, f.db.ExpectationsWereMet())
	})

	t.Run("deletes the object when saving fails", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Application{ID: "app-1"}, nil)
		f.s3.EXPECT().UploadFile(gomock.Any(), "applications/app-1", gomock.Any(), gomock.Any(), gomock.Any()).Return("https://cdn/b.pdf", nil)
		f.db.ExpectBegin()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Application{ID: "app-1"}, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("boom"))
		f.db.ExpectRollback()
		f.s3.EXPECT().GetObjectKeyFromURL("https://cdn/b.pdf").Return("applications/app-1/b.pdf")
		f.s3.EXPECT().DeleteFile(gomock.Any(), "applications/app-1/b.pdf").Return(nil)

		_, err := f.svc.UploadDocument(context.Background(), "app-1", dto.UploadDocumentRequest{File: pdfHeader("b.pdf")})

		require.Error(t, err)
		assert.NoError(t, f.db.ExpectationsWereMet())
	})

	t.Run("rejects unsupported types", func(t *testing.T) {
		f := newFixture(t)
		header := &multipart.FileHeader{Filename: "x.exe", Header: textproto.MIMEHeader{constant.RequestHeaderContentType: {"application/octet-stream"}}}

		_, err := f.svc.UploadDocument(context.Background(), "app-1", dto.UploadDocumentRequest{File: header})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("students cannot touch other applications", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Application{ID: "app-1", StudentID: "st-2"}, nil)
		f.studentRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studentModel.Student{ID: "st-1"}, nil)

		_, err := f.svc.UploadDocument(studentContext("u-1"), "app-1", dto.UploadDocumentRequest{File: pdfHeader("a.pdf")})

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestApplicationService_UploadDocumentBase64(t *testing.T) {
	t.Run("decodes and uploads", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Application{ID: "app-1", StudentID: "st-1"}, nil)
		f.studentRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studentModel.Student{ID: "st-1"}, nil)
		f.s3.EXPECT().UploadFileBytes(gomock.Any(), "applications/app-1", gomock.Any(), "application/pdf", []byte("%PDF-")).Return("https://cdn/c.pdf", nil)
		f.db.ExpectBegin()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Application{ID: "app-1", StudentID: "st-1"}, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.db.ExpectCommit()

		res, err := f.svc.UploadDocumentBase64(studentContext("u-1"), "app-1", dto.UploadDocumentBase64Request{
			FileName: "id.pdf",
			File:     "data:application/pdf;base64,JVBERi0=",
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn/c.pdf"}, res.Documents)
	})

	t.Run("invalid data uri", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.UploadDocumentBase64(context.Background(), "app-1", dto.UploadDocumentBase64Request{FileName: "id.pdf", File: "nope"})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestApplicationService_RemoveDocument(t *testing.T) {
	t.Run("removes and deletes the object", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Application{ID: "app-1"}, nil)
		f.db.ExpectBegin()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(model.Application{ID: "app-1", Documents: pq.StringArray{"https://cdn/a.pdf", "https://cdn/b.pdf"}}, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, pq.StringArray{"https://cdn/b.pdf"}, fields[model.FieldDocuments])

				return nil
			})
		f.db.ExpectCommit()
		f.s3.EXPECT().GetObjectKeyFromURL("https://cdn/a.pdf").Return("applications/app-1/a.pdf")
		f.s3.EXPECT().DeleteFile(gomock.Any(), "applications/app-1/a.pdf").Return(nil)

		res, err := f.svc.RemoveDocument(context.Background(), "app-1", dto.RemoveDocumentRequest{URL: "https://cdn/a.pdf"})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn/b.pdf"}, res.Documents)
		assert.NoError(t, f.db.ExpectationsWereMet())
	})

	t.Run("unknown document", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Application{ID: "app-1"}, nil)
		f.db.ExpectBegin()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Application{ID: "app-1"}, nil)
		f.db.ExpectRollback()

		_, err := f.svc.RemoveDocument(context.Background(), "app-1", dto.RemoveDocumentRequest{URL: "https://cdn/z.pdf"})

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.NoError(t, f.db.ExpectationsWereMet())
	})
}

func TestApplicationService_Delete(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Application{ID: "app-1", Documents: pq.StringArray{"https://elsewhere/x.pdf"}}, nil)
	f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
	f.s3.EXPECT().GetObjectKeyFromURL("https://elsewhere/x.pdf").Return("")

	require.NoError(t, f.svc.Delete(context.Background(), "app-1"))
}
