package dto

import (
	"strings"

	"hallseat/internal/domains/building/model"
	"hallseat/shared"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	gModel "hallseat/shared/model"
	"hallseat/shared/timezone"

	"github.com/google/uuid"
)

var SortableFields = map[string]string{
	"name":         model.TableName + "." + model.FieldName,
	"total_floors": model.TableName + "." + model.FieldTotalFloors,
	"created_at":   model.TableName + "." + constant.FieldCreatedAt,
}

const DefaultSort = model.TableName + "." + model.FieldName

type CreateBuildingRequest struct {
	Name        string `json:"name"         validate:"required,max=150"`
	Address     string `json:"address"      validate:"required,max=255"`
	TotalFloors int    `json:"total_floors" validate:"required,gte=1,lte=200"`
	IsActive    *bool  `json:"is_active"`
}

func (c *CreateBuildingRequest) ToModel() model.Building {
	now := timezone.Now()

	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	return model.Building{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(c.Name),
		Address:     strings.TrimSpace(c.Address),
		TotalFloors: c.TotalFloors,
		IsActive:    isActive,
		Metadata:    gModel.Metadata{CreatedAt: now, UpdatedAt: now},
	}
}

type UpdateBuildingRequest struct {
	Name        string `db:"name"         json:"name"         validate:"omitempty,max=150"`
	Address     string `db:"address"      json:"address"      validate:"omitempty,max=255"`
	TotalFloors int    `db:"total_floors" json:"total_floors" validate:"omitempty,gte=1,lte=200"`
	IsActive    *bool  `db:"is_active"    json:"is_active"`
}

type BuildingFilter struct {
	Search   string
	IsActive *bool
}

func (f BuildingFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	group.Add(shared.FilterBySearch(f.Search, model.TableName, model.FieldName, model.FieldAddress))

	if f.IsActive != nil {
		group.Add(gDto.Filter{Field: model.FieldIsActive, Value: *f.IsActive, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return group
}

type OccupancyResponse struct {
	TotalRooms     int `json:"total_rooms"`
	OccupiedRooms  int `json:"occupied_rooms"`
	AvailableRooms int `json:"available_rooms"`
}

type BuildingResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Address     string             `json:"address"`
	TotalFloors int                `json:"total_floors"`
	IsActive    bool               `json:"is_active"`
	Occupancy   *OccupancyResponse `json:"occupancy,omitempty"`
	gDto.Metadata
}

func (r *BuildingResponse) FromModel(building model.Building) {
	r.ID = building.ID
	r.Name = building.Name
	r.Address = building.Address
	r.TotalFloors = building.TotalFloors
	r.IsActive = building.IsActive
	r.Metadata.FromModel(building.Metadata)
}

func (r *BuildingResponse) WithOccupancy(occupancy model.Occupancy) {
	r.Occupancy = &OccupancyResponse{
		TotalRooms:     occupancy.TotalRooms,
		OccupiedRooms:  occupancy.OccupiedRooms,
		AvailableRooms: occupancy.AvailableRooms,
	}
}

func NewBuildingsResponse(buildings []model.Building, totalData, limit int) gDto.ListResponse[BuildingResponse] {
	res := gDto.ListResponse[BuildingResponse]{
		Items:     make([]BuildingResponse, len(buildings)),
		TotalData: totalData,
		TotalPage: shared.CalculateTotalPage(totalData, limit),
	}

	for i, building := range buildings {
		res.Items[i].FromModel(building)
	}

	return res
}
