package dto

import (
	"hallseat/shared/constant"
	"hallseat/shared/model"
	"hallseat/shared/timezone"
)

type Metadata struct {
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (m *Metadata) FromModel(model model.Metadata) {
	m.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
	m.UpdatedAt = timezone.Format(model.UpdatedAt, constant.DateFormat)
}

type ListResponse[T any] struct {
	Items     []T `json:"items"`
	TotalPage int `json:"total_page"`
	TotalData int `json:"total_data"`
}
