package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/challenge-schedule/internal/dto"
	"github.com/noah-isme/challenge-schedule/internal/models"
	appErrors "github.com/noah-isme/challenge-schedule/pkg/errors"
	"github.com/noah-isme/challenge-schedule/pkg/export"
	"github.com/noah-isme/challenge-schedule/pkg/middleware/requestid"
)

const (
	noMaintenanceNote   = "No Maintenance Scheduled"
	unassignedVendorTBD = "Schedule date & time TBD"
)

var exportHeaders = []string{"Day", "Weekday", "Task", "Status", "Price", "Vendor", "Phone", "Address", "Arrival"}

type challengeFetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// ScheduleOptions configures the schedule pipeline.
type ScheduleOptions struct {
	ActionOrder ActionOrder
	ExportTitle string
}

// ScheduleService runs the fetch, map and normalize pipeline. It holds no
// schedule state; each call performs exactly one upstream fetch.
type ScheduleService struct {
	fetcher   challengeFetcher
	options   ScheduleOptions
	validator *validator.Validate
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewScheduleService constructs the service.
func NewScheduleService(fetcher challengeFetcher, opts ScheduleOptions, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ActionOrder == "" {
		opts.ActionOrder = ActionOrderDayOfMonth
	}
	return &ScheduleService{
		fetcher:   fetcher,
		options:   opts,
		validator: validate,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		metrics:   metrics,
		logger:    logger,
	}
}

// Fetch loads the challenge and returns its normalized form. Fetch and shape
// errors are returned as-is; no partial model is produced.
func (s *ScheduleService) Fetch(ctx context.Context) (*models.ChallengeData, error) {
	log := s.logger.With(zap.String("request_id", requestid.FromContext(ctx)))

	body, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, s.fail(log, "fetch challenge", err)
	}

	mapped, err := DecodeChallengeData(body)
	if err != nil {
		return nil, s.fail(log, "map challenge", err)
	}

	normalized := NormalizeSchedule(mapped, NormalizeOptions{ActionOrder: s.options.ActionOrder})

	undated := UnparseableDates(normalized)
	for _, u := range undated {
		log.Warn("unparseable scheduled date",
			zap.String("action_id", u.ActionID),
			zap.String("scheduled_date", u.ScheduledDate),
			zap.Int("year", u.Year),
			zap.Int("month", u.Month),
		)
	}
	s.metrics.RecordSchedule(len(normalized.Calendar), len(undated))

	log.Info("challenge schedule loaded",
		zap.String("challenge_id", normalized.ID),
		zap.Int("calendar_entries", len(normalized.Calendar)),
		zap.Int("actions", countActions(normalized)),
	)
	return normalized, nil
}

// Grouped returns the normalized challenge as a month-grouped listing.
func (s *ScheduleService) Grouped(ctx context.Context) (*dto.ScheduleResponse, error) {
	data, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByMonth(data), nil
}

// Export renders the month-grouped listing as CSV or PDF.
func (s *ScheduleService) Export(ctx context.Context, req dto.ScheduleExportRequest) (*dto.ScheduleExport, error) {
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrValidation, err, "format must be one of csv, pdf")
	}

	grouped, err := s.Grouped(ctx)
	if err != nil {
		return nil, err
	}
	doc := exportDocument(s.options.ExportTitle, grouped)

	var (
		body        []byte
		contentType string
	)
	switch req.Format {
	case "pdf":
		body, err = s.pdf.Render(doc)
		contentType = "application/pdf"
	default:
		body, err = s.csv.Render(doc)
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrInternal, err, "failed to render schedule export")
	}

	return &dto.ScheduleExport{
		Filename:    "challenge-schedule." + req.Format,
		ContentType: contentType,
		Body:        body,
	}, nil
}

func (s *ScheduleService) fail(log *zap.Logger, stage string, err error) error {
	appErr := appErrors.FromError(err)
	s.metrics.RecordPipelineFailure(appErr.Code)
	log.Error("challenge schedule failed",
		zap.String("stage", stage),
		zap.String("code", appErr.Code),
		zap.Error(err),
	)
	return err
}

// MonthName returns the English name of a month in 0-11; out-of-range values
// are folded first.
func MonthName(month int) string {
	return time.Month(CanonicalMonth(month) + 1).String()
}

// GroupByMonth builds the listing view of a normalized challenge.
func GroupByMonth(data *models.ChallengeData) *dto.ScheduleResponse {
	if data == nil {
		return nil
	}
	resp := &dto.ScheduleResponse{
		ChallengeID: data.ID,
		Status:      data.Status,
		Customer:    data.Customer,
		Months:      make([]dto.ScheduleMonth, 0, len(data.Calendar)),
	}
	for _, entry := range data.Calendar {
		name := MonthName(entry.Month)
		month := dto.ScheduleMonth{
			Label:     fmt.Sprintf("%s %d", name, entry.Year),
			MonthName: name,
			Month:     entry.Month,
			Year:      entry.Year,
			Empty:     len(entry.Actions) == 0,
			Actions:   make([]dto.ScheduleAction, 0, len(entry.Actions)),
		}
		for _, action := range entry.Actions {
			month.Actions = append(month.Actions, decorateAction(action, data.Customer))
		}
		resp.Months = append(resp.Months, month)
	}
	return resp
}

func decorateAction(action models.Action, customer models.Customer) dto.ScheduleAction {
	out := dto.ScheduleAction{
		Action:            action,
		ShowArrivalWindow: action.ShowsArrivalWindow(),
	}
	if t, ok := ParseScheduledDate(action.ScheduledDate); ok && action.Status != models.ActionStatusUnscheduled {
		out.ShowDate = true
		out.DayOfMonth = t.Day()
		out.Weekday = strings.ToUpper(t.Weekday().String()[:3])
	}
	if action.Vendor != nil {
		out.Address = action.Vendor.StreetAddress
	} else {
		out.Address = customer.Street
	}
	return out
}

func exportDocument(title string, grouped *dto.ScheduleResponse) export.Document {
	doc := export.Document{
		Title:    title,
		Headers:  exportHeaders,
		Sections: make([]export.Section, 0, len(grouped.Months)),
	}
	for _, month := range grouped.Months {
		section := export.Section{Title: month.Label, EmptyNote: noMaintenanceNote}
		for _, action := range month.Actions {
			section.Rows = append(section.Rows, exportRow(action))
		}
		doc.Sections = append(doc.Sections, section)
	}
	return doc
}

func exportRow(action dto.ScheduleAction) map[string]string {
	row := map[string]string{
		"Day":     "TBD",
		"Weekday": action.Weekday,
		"Task":    action.Name,
		"Status":  string(action.Status),
		"Price":   action.Price,
		"Address": action.Address,
		"Arrival": unassignedVendorTBD,
	}
	if action.ShowDate {
		row["Day"] = strconv.Itoa(action.DayOfMonth)
	}
	if action.Vendor != nil {
		row["Vendor"] = action.Vendor.VendorName
		row["Phone"] = action.Vendor.PhoneNumber
		row["Arrival"] = ""
		if action.ShowArrivalWindow && (action.ArrivalStartWindow != "" || action.ArrivalEndWindow != "") {
			row["Arrival"] = action.ArrivalStartWindow + " - " + action.ArrivalEndWindow
		}
	}
	return row
}

func countActions(data *models.ChallengeData) int {
	total := 0
	for _, entry := range data.Calendar {
		total += len(entry.Actions)
	}
	return total
}
