// Package meta holds the static status lookup tables clients use to render badges.
package meta

import (
	"hallseat/shared/constant"

	applicationModel "hallseat/internal/domains/application/model"
	invoiceModel "hallseat/internal/domains/invoice/model"
	maintenanceModel "hallseat/internal/domains/maintenance/model"
	roomModel "hallseat/internal/domains/room/model"
)

type Color string

const (
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"
	ColorIndigo Color = "indigo"
	ColorOrange Color = "orange"
	ColorGray   Color = "gray"
)

// DefaultColor is used for values missing from a table.
const DefaultColor = ColorGray

type Badge struct {
	Value string `json:"value"`
	Color Color  `json:"color"`
}

type StatusesResponse struct {
	RoomStatuses          []Badge `json:"room_statuses"`
	RoomTypes             []Badge `json:"room_types"`
	ApplicationStatuses   []Badge `json:"application_statuses"`
	MaintenanceStatuses   []Badge `json:"maintenance_statuses"`
	MaintenancePriorities []Badge `json:"maintenance_priorities"`
	InvoiceStatuses       []Badge `json:"invoice_statuses"`
}

var (
	roomStatusColors = map[roomModel.Status]Color{
		roomModel.StatusAvailable:   ColorGreen,
		roomModel.StatusOccupied:    ColorBlue,
		roomModel.StatusMaintenance: ColorRed,
		roomModel.StatusReserved:    ColorYellow,
	}
	roomTypeColors = map[roomModel.Type]Color{
		roomModel.TypeSingle:       ColorPurple,
		roomModel.TypeDouble:       ColorIndigo,
		roomModel.TypeSpecialNeeds: ColorOrange,
	}
	applicationStatusColors = map[applicationModel.Status]Color{
		applicationModel.StatusSubmitted:   ColorBlue,
		applicationModel.StatusUnderReview: ColorYellow,
		applicationModel.StatusApproved:    ColorGreen,
		applicationModel.StatusRejected:    ColorRed,
		applicationModel.StatusWaitlisted:  ColorPurple,
	}
	maintenanceStatusColors = map[maintenanceModel.Status]Color{
		maintenanceModel.StatusSubmitted:  ColorBlue,
		maintenanceModel.StatusAssigned:   ColorYellow,
		maintenanceModel.StatusInProgress: ColorPurple,
		maintenanceModel.StatusCompleted:  ColorGreen,
		maintenanceModel.StatusCancelled:  ColorRed,
	}
	maintenancePriorityColors = map[maintenanceModel.Priority]Color{
		maintenanceModel.PriorityLow:    ColorGray,
		maintenanceModel.PriorityMedium: ColorYellow,
		maintenanceModel.PriorityHigh:   ColorOrange,
		maintenanceModel.PriorityUrgent: ColorRed,
	}
	invoiceStatusColors = map[invoiceModel.Status]Color{
		invoiceModel.StatusPaid:    ColorGreen,
		invoiceModel.StatusPending: ColorYellow,
		invoiceModel.StatusOverdue: ColorRed,
	}
)

// badges keeps the declaration order of values and falls back to DefaultColor.
func badges[T ~string](values []T, colors map[T]Color) []Badge {
	res := make([]Badge, len(values))

	for i, value := range values {
		color, ok := colors[value]
		if !ok {
			color = DefaultColor
		}

		res[i] = Badge{Value: string(value), Color: color}
	}

	return res
}

func Statuses() StatusesResponse {
	return StatusesResponse{
		RoomStatuses:          badges(roomModel.Statuses, roomStatusColors),
		RoomTypes:             badges(roomModel.Types, roomTypeColors),
		ApplicationStatuses:   badges(applicationModel.Statuses, applicationStatusColors),
		MaintenanceStatuses:   badges(maintenanceModel.Statuses, maintenanceStatusColors),
		MaintenancePriorities: badges(maintenanceModel.Priorities, maintenancePriorityColors),
		InvoiceStatuses:       badges(invoiceModel.Statuses, invoiceStatusColors),
	}
}

type Section struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var (
	sectionDashboard = Section{ID: "dashboard", Label: "Dashboard"}

	adminSections = []Section{
		sectionDashboard,
		{ID: "students", Label: "Students"},
		{ID: "rooms", Label: "Rooms & Buildings"},
		{ID: "applications", Label: "Applications"},
		{ID: "maintenance", Label: "Maintenance"},
		{ID: "finance", Label: "Finance"},
		{ID: "reports", Label: "Reports"},
		{ID: "settings", Label: "Settings"},
	}

	roleSections = map[string][]Section{
		constant.RoleSuperAdmin: adminSections,
		constant.RoleHallAdmin:  adminSections,
		constant.RoleFinanceOfficer: {
			sectionDashboard,
			{ID: "students", Label: "Students"},
			{ID: "finance", Label: "Finance"},
			{ID: "reports", Label: "Financial Reports"},
		},
		constant.RoleMaintenanceStaff: {
			sectionDashboard,
			{ID: "maintenance", Label: "Maintenance Tasks"},
			{ID: "rooms", Label: "Room Status"},
		},
		constant.RoleStudent: {
			sectionDashboard,
			{ID: "profile", Label: "My Profile"},
			{ID: "application", Label: "Room Application"},
			{ID: "maintenance", Label: "Maintenance Requests"},
			{ID: "invoices", Label: "My Invoices"},
		},
		constant.RoleReportViewer: {
			sectionDashboard,
			{ID: "reports", Label: "Reports"},
		},
	}
)

// Navigation lists the sections a role may open. Unknown roles only get the dashboard.
func Navigation(role string) []Section {
	if sections, ok := roleSections[role]; ok {
		return sections
	}

	return []Section{sectionDashboard}
}
