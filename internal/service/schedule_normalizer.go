package service

import (
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/challenge-schedule/internal/models"
)

// ActionOrder selects how actions inside a calendar entry are compared.
type ActionOrder string

const (
	// ActionOrderDayOfMonth compares only the calendar day of scheduledDate.
	ActionOrderDayOfMonth ActionOrder = "day"
	// ActionOrderScheduledDate compares the full scheduled timestamp.
	ActionOrderScheduledDate ActionOrder = "date"
)

// NormalizeOptions tunes NormalizeSchedule.
type NormalizeOptions struct {
	ActionOrder ActionOrder
}

// scheduledDateLayouts are tried in order; the day of month is taken as written.
var scheduledDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseScheduledDate parses an upstream scheduledDate string.
func ParseScheduledDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range scheduledDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeSchedule returns a copy of data with the calendar in chronological
// order, months folded into 0-11 and each month's actions ordered by day.
// Calendar entries are compared on the raw month before folding. Actions whose
// scheduledDate cannot be parsed are placed after the dated ones. The input is
// not modified.
func NormalizeSchedule(data *models.ChallengeData, opts NormalizeOptions) *models.ChallengeData {
	if data == nil {
		return nil
	}

	out := *data
	out.Calendar = make([]models.Calendar, len(data.Calendar))
	copy(out.Calendar, data.Calendar)

	sort.SliceStable(out.Calendar, func(i, j int) bool {
		a, b := out.Calendar[i], out.Calendar[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})

	for i := range out.Calendar {
		out.Calendar[i].Month = CanonicalMonth(out.Calendar[i].Month)
		out.Calendar[i].Actions = sortActions(out.Calendar[i].Actions, opts.ActionOrder)
	}

	return &out
}

// CanonicalMonth folds a raw month into 0-11.
func CanonicalMonth(raw int) int {
	return ((raw % 12) + 12) % 12
}

type actionKey struct {
	dated bool
	day   int
	at    time.Time
}

func sortActions(actions []models.Action, order ActionOrder) []models.Action {
	sorted := make([]models.Action, len(actions))
	copy(sorted, actions)

	keys := make(map[string]actionKey, len(sorted))
	keyFor := func(a models.Action) actionKey {
		if k, ok := keys[a.ScheduledDate]; ok {
			return k
		}
		t, ok := ParseScheduledDate(a.ScheduledDate)
		k := actionKey{dated: ok, day: t.Day(), at: t}
		keys[a.ScheduledDate] = k
		return k
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := keyFor(sorted[i]), keyFor(sorted[j])
		if a.dated != b.dated {
			return a.dated
		}
		if !a.dated {
			return false
		}
		if order == ActionOrderScheduledDate {
			return a.at.Before(b.at)
		}
		return a.day < b.day
	})
	return sorted
}

// UndatedAction identifies an action whose scheduledDate could not be parsed.
type UndatedAction struct {
	Year          int
	Month         int
	ActionID      string
	ScheduledDate string
}

// UnparseableDates lists the actions whose scheduledDate does not parse.
func UnparseableDates(data *models.ChallengeData) []UndatedAction {
	if data == nil {
		return nil
	}
	var out []UndatedAction
	for _, entry := range data.Calendar {
		for _, action := range entry.Actions {
			if _, ok := ParseScheduledDate(action.ScheduledDate); !ok {
				out = append(out, UndatedAction{
					Year:          entry.Year,
					Month:         entry.Month,
					ActionID:      action.ID,
					ScheduledDate: action.ScheduledDate,
				})
			}
		}
	}
	return out
}
