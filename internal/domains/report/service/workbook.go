package service

import (
	"bytes"
	"fmt"

	"hallseat/internal/domains/report/model/dto"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary     = "Summary"
	sheetDepartments = "Departments"
	sheetRoomTypes   = "Room Types"
	sheetRevenue     = "Monthly Revenue"
	sheetMaintenance = "Maintenance"
	defaultSheet     = "Sheet1"
)

type sheet struct {
	name   string
	header []string
	rows   [][]any
}

func reportSheets(report dto.ReportResponse) []sheet {
	stats := report.Stats

	return []sheet{
		{
			name:   sheetSummary,
			header: []string{"Metric", "Value"},
			rows: [][]any{
				{"Total Rooms", stats.TotalRooms},
				{"Occupied Rooms", stats.OccupiedRooms},
				{"Available Rooms", stats.AvailableRooms},
				{"Maintenance Rooms", stats.MaintenanceRooms},
				{"Occupancy Rate (%)", report.OccupancyRate},
				{"Total Students", report.TotalStudents},
				{"Pending Applications", stats.PendingApplications},
				{"Approved Applications", stats.ApprovedApplications},
				{"Active Maintenance Requests", stats.ActiveMaintenanceRequests},
				{"Pending Invoices", stats.PendingInvoices},
				{"Total Revenue", stats.TotalRevenue},
			},
		},
		groupSheet(sheetDepartments, "Department", report.StudentsByDepartment),
		groupSheet(sheetRoomTypes, "Room Type", report.RoomsByType),
		revenueSheet(report.MonthlyRevenue),
		groupSheet(sheetMaintenance, "Category", report.MaintenanceByCategory),
	}
}

func groupSheet(name, key string, groups []dto.Group) sheet {
	rows := make([][]any, len(groups))
	for i, group := range groups {
		rows[i] = []any{group.Key, group.Count}
	}

	return sheet{name: name, header: []string{key, "Count"}, rows: rows}
}

func revenueSheet(months []dto.MonthlyAmount) sheet {
	rows := make([][]any, len(months))
	for i, month := range months {
		rows[i] = []any{month.Month, month.Amount}
	}

	return sheet{name: sheetRevenue, header: []string{"Month", "Amount"}, rows: rows}
}

func buildWorkbook(report dto.ReportResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sh := range reportSheets(report) {
		if i == 0 {
			err = f.SetSheetName(defaultSheet, sh.name)
		} else {
			_, err = f.NewSheet(sh.name)
		}

		if err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sh.name, err)
		}

		if err := writeSheet(f, sh, headerStyle); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sh sheet, headerStyle int) error {
	if err := f.SetSheetRow(sh.name, "A1", &sh.header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sh.name, err)
	}

	last, err := excelize.CoordinatesToCellName(len(sh.header), 1)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}

	if err := f.SetCellStyle(sh.name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sh.name, err)
	}

	for i, row := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}

		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sh.name, i+2, err)
		}
	}

	width := 20.0
	if sh.name == sheetSummary {
		width = 30
	}

	if err := f.SetColWidth(sh.name, "A", "B", width); err != nil {
		return fmt.Errorf("failed to size %s columns: %w", sh.name, err)
	}

	return f.SetPanes(sh.name, &excelize.Panes{ //nolint:wrapcheck
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
