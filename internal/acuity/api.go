package acuity

// Appointment models one booking as returned by GET /appointments.
// Only the fields the normalizer reads are declared.
type Appointment struct {
	ID       int64  `json:"id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	EndTime  string `json:"endTime"`
	Datetime string `json:"datetime"`
	Calendar string `json:"calendar,omitempty"`
	Forms    []Form `json:"forms"`
}

// Form is an intake form attached to an appointment.
type Form struct {
	ID     int64       `json:"id,omitempty"`
	Name   string      `json:"name,omitempty"`
	Values []FormValue `json:"values"`
}

// FormValue is one answered field of a form.
type FormValue struct {
	FieldID int64  `json:"fieldID,omitempty"`
	Name    string `json:"name,omitempty"`
	Value   string `json:"value"`
}
