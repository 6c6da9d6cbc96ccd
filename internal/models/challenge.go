package models

// ActionStatus is the upstream status of a scheduled action. Values outside the
// known set are kept verbatim.
type ActionStatus string

const (
	ActionStatusCompleted   ActionStatus = "Completed"
	ActionStatusScheduled   ActionStatus = "Scheduled"
	ActionStatusUnscheduled ActionStatus = "Unscheduled"
)

// IsKnown reports whether the status is one presentation styles specially.
func (s ActionStatus) IsKnown() bool {
	switch s {
	case ActionStatusCompleted, ActionStatusScheduled, ActionStatusUnscheduled:
		return true
	default:
		return false
	}
}

// ChallengeData is a customer's maintenance record as returned by the challenge API.
type ChallengeData struct {
	ID       string     `json:"id" mapstructure:"id"`
	Created  string     `json:"created" mapstructure:"created"`
	Deleted  string     `json:"deleted" mapstructure:"deleted"`
	Status   string     `json:"status" mapstructure:"status"`
	Customer Customer   `json:"customer" mapstructure:"-"`
	Calendar []Calendar `json:"calendar" mapstructure:"-"`
}

// Customer is the contact and address record owning the challenge.
type Customer struct {
	ID          string `json:"id" mapstructure:"id"`
	City        string `json:"city" mapstructure:"city"`
	Email       string `json:"email" mapstructure:"email"`
	FirstName   string `json:"firstName" mapstructure:"firstName"`
	LastName    string `json:"lastName" mapstructure:"lastName"`
	PhoneNumber string `json:"phoneNumber" mapstructure:"phoneNumber"`
	State       string `json:"state" mapstructure:"state"`
	Street      string `json:"street" mapstructure:"street"`
	Zip         string `json:"zip" mapstructure:"zip"`
}

// Calendar is one month's bucket of scheduled actions. Month is the raw
// upstream value until the schedule is normalized.
type Calendar struct {
	Month   int      `json:"month" mapstructure:"month"`
	Year    int      `json:"year" mapstructure:"year"`
	Actions []Action `json:"actions" mapstructure:"-"`
}

// Action is a single scheduled or completed maintenance task.
type Action struct {
	ID                 string       `json:"id" mapstructure:"id"`
	Name               string       `json:"name" mapstructure:"name"`
	Price              string       `json:"price" mapstructure:"price"`
	ScheduledDate      string       `json:"scheduledDate" mapstructure:"scheduledDate"`
	Status             ActionStatus `json:"status" mapstructure:"status"`
	ArrivalStartWindow string       `json:"arrivalStartWindow" mapstructure:"arrivalStartWindow"`
	ArrivalEndWindow   string       `json:"arrivalEndWindow" mapstructure:"arrivalEndWindow"`
	Vendor             *Vendor      `json:"vendor,omitempty" mapstructure:"-"`
}

// ShowsArrivalWindow reports whether the arrival window is meaningful.
func (a Action) ShowsArrivalWindow() bool {
	return a.Status != ActionStatusCompleted
}

// Vendor is the service provider assigned to an action.
type Vendor struct {
	ID            string `json:"id" mapstructure:"id"`
	City          string `json:"city" mapstructure:"city"`
	EmailAddress  string `json:"emailAddress" mapstructure:"emailAddress"`
	FirstName     string `json:"firstName" mapstructure:"firstName"`
	LastName      string `json:"lastName" mapstructure:"lastName"`
	PhoneNumber   string `json:"phoneNumber" mapstructure:"phoneNumber"`
	State         string `json:"state" mapstructure:"state"`
	StreetAddress string `json:"streetAddress,omitempty" mapstructure:"streetAddress"`
	VendorName    string `json:"vendorName" mapstructure:"vendorName"`
	Zip           string `json:"zip" mapstructure:"zip"`
}
