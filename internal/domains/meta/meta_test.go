package meta_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hallseat/internal/domains/meta"
	"hallseat/shared/constant"
)

func TestStatuses(t *testing.T) {
	res := meta.Statuses()

	assert.Equal(t, []meta.Badge{
		{Value: "AVAILABLE", Color: meta.ColorGreen},
		{Value: "OCCUPIED", Color: meta.ColorBlue},
		{Value: "MAINTENANCE", Color: meta.ColorRed},
		{Value: "RESERVED", Color: meta.ColorYellow},
	}, res.RoomStatuses)

	assert.Len(t, res.ApplicationStatuses, 5)
	assert.Equal(t, meta.Badge{Value: "URGENT", Color: meta.ColorRed}, res.MaintenancePriorities[3])
}

func TestStatuses_UnmappedFallsBackToGray(t *testing.T) {
	res := meta.Statuses()

	assert.Contains(t, res.InvoiceStatuses, meta.Badge{Value: "CANCELLED", Color: meta.DefaultColor})
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		role string
		ids  []string
	}{
		{constant.RoleHallAdmin, []string{"dashboard", "students", "rooms", "applications", "maintenance", "finance", "reports", "settings"}},
		{constant.RoleFinanceOfficer, []string{"dashboard", "students", "finance", "reports"}},
		{constant.RoleMaintenanceStaff, []string{"dashboard", "maintenance", "rooms"}},
		{constant.RoleStudent, []string{"dashboard", "profile", "application", "maintenance", "invoices"}},
		{constant.RoleReportViewer, []string{"dashboard", "reports"}},
		{"GUEST", []string{"dashboard"}},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			sections := meta.Navigation(tt.role)

			ids := make([]string, len(sections))
			for i, section := range sections {
				ids[i] = section.ID
			}

			assert.Equal(t, tt.ids, ids)
		})
	}
}
