package model

import (
	buildingModel "hallseat/internal/domains/building/model"
	"hallseat/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID           = "id"
	FieldBuildingID   = "building_id"
	FieldRoomNumber   = "room_number"
	FieldFloor        = "floor"
	FieldType         = "type"
	FieldCapacity     = "capacity"
	FieldAmenities    = "amenities"
	FieldMonthlyFee   = "monthly_fee"
	FieldStatus       = "status"
	FieldBuildingName = "building_name"
)

type Type string

const (
	TypeSingle       Type = "SINGLE"
	TypeDouble       Type = "DOUBLE"
	TypeSpecialNeeds Type = "SPECIAL_NEEDS"
)

var Types = []Type{TypeSingle, TypeDouble, TypeSpecialNeeds}

func (t Type) IsValid() bool {
	switch t {
	case TypeSingle, TypeDouble, TypeSpecialNeeds:
		return true
	}

	return false
}

type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusOccupied    Status = "OCCUPIED"
	StatusMaintenance Status = "MAINTENANCE"
	StatusReserved    Status = "RESERVED"
)

var Statuses = []Status{StatusAvailable, StatusOccupied, StatusMaintenance, StatusReserved}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusMaintenance, StatusReserved:
		return true
	}

	return false
}

type Room struct {
	ID           string         `db:"id"`
	BuildingID   string         `db:"building_id"`
	RoomNumber   string         `db:"room_number"`
	Floor        int            `db:"floor"`
	Type         Type           `db:"type"`
	Capacity     int            `db:"capacity"`
	Amenities    pq.StringArray `db:"amenities"`
	MonthlyFee   float64        `db:"monthly_fee"`
	Status       Status         `db:"status"`
	BuildingName string         `db:"building_name" table:"buildings" column:"name"`
	model.Metadata
}

func (Room) GetJoinQuery() string {
	return "JOIN " + buildingModel.TableName + " ON " + buildingModel.TableName + "." + buildingModel.FieldID + " = " + TableName + "." + FieldBuildingID
}
