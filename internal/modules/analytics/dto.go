package analytics

import "time"

// businessHours is the denominator of the occupancy ratio: a workspace
// booked 12 hours in a day counts as fully occupied.
const businessHours = 12 * time.Hour

type WorkspaceOccupancy struct {
	WorkspaceID int64     `json:"workspace_id"`
	Name        string    `json:"name"`
	Date        string    `json:"date"`
	BookedHours float64   `json:"booked_hours"`
	Occupancy   float64   `json:"occupancy_pct"`
	ComputedAt  time.Time `json:"computed_at"`
}

type DashboardSummary struct {
	Date             string    `json:"date"`
	ActiveWorkspaces int64     `json:"active_workspaces"`
	BookingsToday    int64     `json:"bookings_today"`
	CancelledToday   int64     `json:"cancelled_today"`
	AvgOccupancy     float64   `json:"avg_occupancy_pct"`
	ComputedAt       time.Time `json:"computed_at"`
}
