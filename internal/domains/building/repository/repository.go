package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"hallseat/infras/otel"
	"hallseat/infras/postgres"
	"hallseat/internal/domains/building/model"
	gDto "hallseat/shared/dto"
	gRepo "hallseat/shared/repository"
)

type Building interface {
	Insert(ctx context.Context, model model.Building) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Building, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Building, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Building]
}

func New(db *postgres.Connection, otel otel.Otel) Building {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Building](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
