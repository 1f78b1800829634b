package model

import (
	"hallseat/shared/model"
)

const (
	TableName  = "buildings"
	EntityName = "building"

	FieldID          = "id"
	FieldName        = "name"
	FieldAddress     = "address"
	FieldTotalFloors = "total_floors"
	FieldIsActive    = "is_active"
)

type Building struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Address     string `db:"address"`
	TotalFloors int    `db:"total_floors"`
	IsActive    bool   `db:"is_active"`
	model.Metadata
}

// Occupancy summarises the rooms of one building.
type Occupancy struct {
	TotalRooms     int
	OccupiedRooms  int
	AvailableRooms int
}
