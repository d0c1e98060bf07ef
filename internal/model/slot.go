package model

import (
	"encoding/json"
	"time"
)

// Section names one of the six fixed display slots.
type Section string

const (
	SectionRoom1  Section = "Room 1"
	SectionRoom2  Section = "Room 2"
	SectionRoom3  Section = "Room 3"
	SectionRoom4  Section = "Room 4"
	SectionRoxby  Section = "Roxby Side"
	SectionGympie Section = "Gympie Side"
)

// NoParty is the label of an empty slot.
const NoParty = "No Party"

// Sections lists every slot in display order.
var Sections = []Section{
	SectionRoom1,
	SectionRoom2,
	SectionRoom3,
	SectionRoom4,
	SectionRoxby,
	SectionGympie,
}

// IsValid reports whether s is one of the six known sections.
func (s Section) IsValid() bool {
	for _, known := range Sections {
		if s == known {
			return true
		}
	}
	return false
}

// SlotState is a section and the party currently occupying it, if any.
type SlotState struct {
	Section Section
	Party   *Party
}

// Occupied reports whether a party holds the slot.
func (s SlotState) Occupied() bool {
	return s.Party != nil
}

// Label is the presentation text for the slot.
func (s SlotState) Label() string {
	if s.Party == nil {
		return NoParty
	}
	return s.Party.DisplayName()
}

// occupantKey identifies the party in a slot; casual sessions share ID 0
// so they are told apart by their start time.
func (s SlotState) occupantKey() string {
	if s.Party == nil {
		return ""
	}
	return s.Party.Start.String() + "|" + s.Party.ChildName
}

// SameOccupant reports whether two states of the same section hold the same party.
func (s SlotState) SameOccupant(other SlotState) bool {
	if s.Party != nil && other.Party != nil && !s.Party.Casual && !other.Party.Casual {
		return s.Party.ID == other.Party.ID
	}
	return s.occupantKey() == other.occupantKey()
}

// MarshalJSON renders the slot with its presentation label.
func (s SlotState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Section Section `json:"section"`
		Label   string  `json:"label"`
		Party   *Party  `json:"party,omitempty"`
	}{
		Section: s.Section,
		Label:   s.Label(),
		Party:   s.Party,
	})
}

// SlotChange describes a section whose occupant changed between two evaluations.
type SlotChange struct {
	Section  Section   `json:"section"`
	Previous SlotState `json:"previous"`
	Current  SlotState `json:"current"`
	At       time.Time `json:"at"`
}

// Message is the human readable text sent to subscribers.
func (c SlotChange) Message() string {
	return string(c.Section) + ": " + c.Current.Label()
}

// Diff returns a change for every section whose occupant differs.
// Both slices are expected in Sections order. An empty prev counts as every
// section being empty.
func Diff(prev, cur []SlotState, at time.Time) []SlotChange {
	if len(prev) == 0 {
		prev = make([]SlotState, len(cur))
		for i := range cur {
			prev[i] = SlotState{Section: cur[i].Section}
		}
	}
	if len(prev) != len(cur) {
		return nil
	}
	var changes []SlotChange
	for i := range cur {
		if prev[i].SameOccupant(cur[i]) {
			continue
		}
		changes = append(changes, SlotChange{
			Section:  cur[i].Section,
			Previous: prev[i],
			Current:  cur[i],
			At:       at,
		})
	}
	return changes
}
