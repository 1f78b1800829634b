package dto

import (
	"cmp"
	"math"
	"slices"

	applicationModel "hallseat/internal/domains/application/model"
	invoiceModel "hallseat/internal/domains/invoice/model"
	maintenanceModel "hallseat/internal/domains/maintenance/model"
	roomModel "hallseat/internal/domains/room/model"
	studentModel "hallseat/internal/domains/student/model"
	"hallseat/shared/constant"
	"hallseat/shared/timezone"
)

// Narrow projections loaded for aggregation.
var (
	RoomColumns        = []string{roomModel.FieldStatus, roomModel.FieldType}
	ApplicationColumns = []string{applicationModel.FieldStatus}
	MaintenanceColumns = []string{maintenanceModel.FieldStatus, maintenanceModel.FieldCategory}
	InvoiceColumns     = []string{invoiceModel.FieldAmount, invoiceModel.FieldStatus, invoiceModel.FieldPaidAt, invoiceModel.FieldGeneratedAt}
	StudentColumns     = []string{studentModel.FieldDepartment}
)

// Sources is everything the dashboard and the report are computed from.
type Sources struct {
	Rooms        []roomModel.Room
	Applications []applicationModel.Application
	Maintenance  []maintenanceModel.Request
	Invoices     []invoiceModel.Invoice
	Students     []studentModel.Student
}

type StatsResponse struct {
	TotalRooms                int     `json:"total_rooms"`
	OccupiedRooms             int     `json:"occupied_rooms"`
	AvailableRooms            int     `json:"available_rooms"`
	MaintenanceRooms          int     `json:"maintenance_rooms"`
	PendingApplications       int     `json:"pending_applications"`
	ApprovedApplications      int     `json:"approved_applications"`
	ActiveMaintenanceRequests int     `json:"active_maintenance_requests"`
	PendingInvoices           int     `json:"pending_invoices"`
	TotalRevenue              float64 `json:"total_revenue"`
}

type Group struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type MonthlyAmount struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type ReportResponse struct {
	Stats                 StatsResponse   `json:"stats"`
	TotalStudents         int             `json:"total_students"`
	OccupancyRate         int             `json:"occupancy_rate"`
	StudentsByDepartment  []Group         `json:"students_by_department"`
	RoomsByType           []Group         `json:"rooms_by_type"`
	MonthlyRevenue        []MonthlyAmount `json:"monthly_revenue"`
	MaintenanceByCategory []Group         `json:"maintenance_by_category"`
}

func BuildStats(src Sources) StatsResponse {
	res := StatsResponse{TotalRooms: len(src.Rooms)}

	for _, room := range src.Rooms {
		switch room.Status {
		case roomModel.StatusOccupied:
			res.OccupiedRooms++
		case roomModel.StatusAvailable:
			res.AvailableRooms++
		case roomModel.StatusMaintenance:
			res.MaintenanceRooms++
		}
	}

	for _, application := range src.Applications {
		switch application.Status {
		case applicationModel.StatusUnderReview:
			res.PendingApplications++
		case applicationModel.StatusApproved:
			res.ApprovedApplications++
		}
	}

	for _, request := range src.Maintenance {
		if request.Status != maintenanceModel.StatusCompleted {
			res.ActiveMaintenanceRequests++
		}
	}

	for _, invoice := range src.Invoices {
		switch invoice.Status {
		case invoiceModel.StatusPending:
			res.PendingInvoices++
		case invoiceModel.StatusPaid:
			res.TotalRevenue += invoice.Amount
		}
	}

	return res
}

func BuildReport(src Sources) ReportResponse {
	stats := BuildStats(src)

	return ReportResponse{
		Stats:         stats,
		TotalStudents: len(src.Students),
		OccupancyRate: OccupancyRate(stats.OccupiedRooms, stats.TotalRooms),
		StudentsByDepartment: GroupCount(src.Students, func(s studentModel.Student) string {
			return s.Department
		}),
		RoomsByType: GroupCount(src.Rooms, func(r roomModel.Room) string {
			return string(r.Type)
		}),
		MonthlyRevenue: MonthlyRevenue(src.Invoices),
		MaintenanceByCategory: GroupCount(src.Maintenance, func(r maintenanceModel.Request) string {
			return string(r.Category)
		}),
	}
}

// GroupCount counts items per key, ordered by key.
func GroupCount[T any](items []T, key func(T) string) []Group {
	counts := map[string]int{}
	for _, item := range items {
		counts[key(item)]++
	}

	groups := make([]Group, 0, len(counts))
	for k, count := range counts {
		groups = append(groups, Group{Key: k, Count: count})
	}

	slices.SortFunc(groups, func(a, b Group) int {
		return cmp.Compare(a.Key, b.Key)
	})

	return groups
}

// OccupancyRate is occupied over total as a rounded percentage; 0 without rooms.
func OccupancyRate(occupied, total int) int {
	if total == 0 {
		return 0
	}

	return int(math.Round(float64(occupied) / float64(total) * 100))
}

// MonthlyRevenue sums PAID amounts per YYYY-MM of paid_at, falling back to generated_at.
func MonthlyRevenue(invoices []invoiceModel.Invoice) []MonthlyAmount {
	sums := map[string]float64{}

	for _, invoice := range invoices {
		if invoice.Status != invoiceModel.StatusPaid {
			continue
		}

		at := invoice.GeneratedAt
		if invoice.PaidAt != nil {
			at = *invoice.PaidAt
		}

		sums[timezone.Format(at, constant.MonthFormat)] += invoice.Amount
	}

	months := make([]MonthlyAmount, 0, len(sums))
	for month, amount := range sums {
		months = append(months, MonthlyAmount{Month: month, Amount: amount})
	}

	slices.SortFunc(months, func(a, b MonthlyAmount) int {
		return cmp.Compare(a.Month, b.Month)
	})

	return months
}
