package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"hallseat/infras/otel"
	"hallseat/infras/postgres"
	"hallseat/internal/domains/application/model"
	gDto "hallseat/shared/dto"
	gRepo "hallseat/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Application interface {
	Insert(ctx context.Context, model model.Application) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Application, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Application, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Application, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Application]
}

func New(db *postgres.Connection, otel otel.Otel) Application {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Application](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
