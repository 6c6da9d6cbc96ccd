package dto

import "github.com/noah-isme/challenge-schedule/internal/models"

// ScheduleResponse is the month-grouped view of a normalized challenge.
type ScheduleResponse struct {
	ChallengeID string          `json:"challengeId"`
	Status      string          `json:"status"`
	Customer    models.Customer `json:"customer"`
	Months      []ScheduleMonth `json:"months"`
}

// ScheduleMonth is one calendar entry ready for listing.
type ScheduleMonth struct {
	Label     string           `json:"label"`
	MonthName string           `json:"monthName"`
	Month     int              `json:"month"`
	Year      int              `json:"year"`
	Empty     bool             `json:"empty"`
	Actions   []ScheduleAction `json:"actions"`
}

// ScheduleAction decorates an action with display-ready derived fields.
type ScheduleAction struct {
	models.Action
	// ShowDate is false for unscheduled or undated actions.
	ShowDate          bool   `json:"showDate"`
	DayOfMonth        int    `json:"dayOfMonth,omitempty"`
	Weekday           string `json:"weekday,omitempty"`
	ShowArrivalWindow bool   `json:"showArrivalWindow"`
	// Address is the vendor street address, or the customer's street when no
	// vendor is assigned.
	Address string `json:"address,omitempty"`
}

// ScheduleExportRequest selects the export format.
type ScheduleExportRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf"`
}

// ScheduleExport is a rendered export document.
type ScheduleExport struct {
	Filename    string
	ContentType string
	Body        []byte
}
