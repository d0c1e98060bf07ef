package model

import "time"

// partySuffix is appended to a child's name wherever a party is presented.
const partySuffix = "'s Party"

// AcuityDateLayout renders a date the way the scheduling API does, e.g. "March 1, 2025".
const AcuityDateLayout = "January 2, 2006"

// Party is a booking normalized for display. It is never mutated after creation.
type Party struct {
	ID            int64     `json:"id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	EndTime       string    `json:"endTime"`
	EndRoxbyTime  string    `json:"endRoxbyTime"`
	EndGympieTime string    `json:"endGympieTime"`
	Datetime      string    `json:"datetime"`
	Start         time.Time `json:"-"`
	ChildName     string    `json:"childName"` // raw, trimmed; see DisplayName
	Room          string    `json:"room"`
	Casual        bool      `json:"casual,omitempty"`
}

// DisplayName is the single place the "'s Party" suffix is applied.
// Casual play sessions are shown by name alone.
func (p Party) DisplayName() string {
	if p.Casual || p.ChildName == "" {
		return p.ChildName
	}
	return p.ChildName + partySuffix
}
