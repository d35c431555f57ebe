package domain

import "strings"

// State identifies a tracked jurisdiction.
type State struct {
	Abbreviation string `json:"Abbreviation"`
	Name         string `json:"Name"`
}

var (
	NewJersey     = State{Abbreviation: "NJ", Name: "New Jersey"}
	Michigan      = State{Abbreviation: "MI", Name: "Michigan"}
	Pennsylvania  = State{Abbreviation: "PA", Name: "Pennsylvania"}
	WestVirginia  = State{Abbreviation: "WV", Name: "West Virginia"}
	trackedStates = []State{NewJersey, Michigan, Pennsylvania, WestVirginia}
)

// TrackedStates returns the jurisdictions the dashboard reports on, in display order.
func TrackedStates() []State {
	out := make([]State, len(trackedStates))
	copy(out, trackedStates)
	return out
}

// LookupState resolves a state code case-insensitively.
func LookupState(code string) (State, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, s := range trackedStates {
		if s.Abbreviation == code {
			return s, true
		}
	}
	return State{}, false
}
