package dto

import (
	"strings"

	buildingModel "hallseat/internal/domains/building/model"
	"hallseat/internal/domains/room/model"
	"hallseat/shared"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	gModel "hallseat/shared/model"
	"hallseat/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var SortableFields = map[string]string{
	"room_number":   model.TableName + "." + model.FieldRoomNumber,
	"floor":         model.TableName + "." + model.FieldFloor,
	"capacity":      model.TableName + "." + model.FieldCapacity,
	"monthly_fee":   model.TableName + "." + model.FieldMonthlyFee,
	"status":        model.TableName + "." + model.FieldStatus,
	"building_name": buildingModel.TableName + "." + buildingModel.FieldName,
	"created_at":    model.TableName + "." + constant.FieldCreatedAt,
}

const DefaultSort = model.TableName + "." + model.FieldRoomNumber

type CreateRoomRequest struct {
	BuildingID string       `json:"building_id" validate:"required,uuid"`
	RoomNumber string       `json:"room_number" validate:"required,max=20"`
	Floor      int          `json:"floor"       validate:"gte=0,lte=200"`
	Type       model.Type   `json:"type"        validate:"required,enum"`
	Capacity   int          `json:"capacity"    validate:"required,gte=1,lte=20"`
	Amenities  []string     `json:"amenities"   validate:"omitempty,dive,max=50"`
	MonthlyFee float64      `json:"monthly_fee" validate:"gte=0"`
	Status     model.Status `json:"status"      validate:"omitempty,enum"`
}

func (c *CreateRoomRequest) ToModel() model.Room {
	now := timezone.Now()

	status := c.Status
	if status == "" {
		status = model.StatusAvailable
	}

	amenities := pq.StringArray{}
	if c.Amenities != nil {
		amenities = c.Amenities
	}

	return model.Room{
		ID:         uuid.NewString(),
		BuildingID: c.BuildingID,
		RoomNumber: strings.TrimSpace(c.RoomNumber),
		Floor:      c.Floor,
		Type:       c.Type,
		Capacity:   c.Capacity,
		Amenities:  amenities,
		MonthlyFee: c.MonthlyFee,
		Status:     status,
		Metadata:   gModel.Metadata{CreatedAt: now, UpdatedAt: now},
	}
}

type UpdateRoomRequest struct {
	RoomNumber string         `db:"room_number" json:"room_number" validate:"omitempty,max=20"`
	Floor      *int           `db:"floor"       json:"floor"       validate:"omitempty,gte=0,lte=200"`
	Type       model.Type     `db:"type"        json:"type"        validate:"omitempty,enum"`
	Capacity   int            `db:"capacity"    json:"capacity"    validate:"omitempty,gte=1,lte=20"`
	Amenities  pq.StringArray `db:"amenities"   json:"amenities"   validate:"omitempty,dive,max=50"`
	MonthlyFee *float64       `db:"monthly_fee" json:"monthly_fee" validate:"omitempty,gte=0"`
	Status     model.Status   `db:"status"      json:"status"      validate:"omitempty,enum"`
}

type RoomFilter struct {
	Search     string
	BuildingID string
	Status     string
	Type       string
}

func (f RoomFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	search := shared.FilterBySearch(f.Search, model.TableName, model.FieldRoomNumber)
	search.Add(shared.FilterBySearch(f.Search, buildingModel.TableName, buildingModel.FieldName).Filters...)
	group.Add(search)

	if f.BuildingID != "" {
		group.Add(gDto.Filter{Field: model.FieldBuildingID, Value: f.BuildingID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.Status != "" {
		group.Add(gDto.Filter{Field: model.FieldStatus, Value: f.Status, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.Type != "" {
		group.Add(gDto.Filter{Field: model.FieldType, Value: f.Type, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return group
}

type RoomResponse struct {
	ID           string   `json:"id"`
	BuildingID   string   `json:"building_id"`
	BuildingName string   `json:"building_name"`
	RoomNumber   string   `json:"room_number"`
	Floor        int      `json:"floor"`
	Type         string   `json:"type"`
	Capacity     int      `json:"capacity"`
	Amenities    []string `json:"amenities"`
	MonthlyFee   float64  `json:"monthly_fee"`
	Status       string   `json:"status"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(room model.Room) {
	r.ID = room.ID
	r.BuildingID = room.BuildingID
	r.BuildingName = room.BuildingName
	r.RoomNumber = room.RoomNumber
	r.Floor = room.Floor
	r.Type = string(room.Type)
	r.Capacity = room.Capacity
	r.Amenities = []string(room.Amenities)
	r.MonthlyFee = room.MonthlyFee
	r.Status = string(room.Status)
	r.Metadata.FromModel(room.Metadata)

	if r.Amenities == nil {
		r.Amenities = []string{}
	}
}

func NewRoomsResponse(rooms []model.Room, totalData, limit int) gDto.ListResponse[RoomResponse] {
	res := gDto.ListResponse[RoomResponse]{
		Items:     make([]RoomResponse, len(rooms)),
		TotalData: totalData,
		TotalPage: shared.CalculateTotalPage(totalData, limit),
	}

	for i, room := range rooms {
		res.Items[i].FromModel(room)
	}

	return res
}
