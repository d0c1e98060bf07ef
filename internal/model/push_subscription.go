package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// Sections limits notifications to those slots; empty means all of them.
type PushSubscription struct {
	Endpoint  string
	P256DH    string
	Auth      string
	Sections  []Section
	CreatedAt time.Time
}

// Watches reports whether the subscription wants changes for the section.
func (s PushSubscription) Watches(section Section) bool {
	if len(s.Sections) == 0 {
		return true
	}
	for _, sec := range s.Sections {
		if sec == section {
			return true
		}
	}
	return false
}
