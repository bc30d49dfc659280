package domain

import "time"

// RSVPState is the viewer's relation to an event.
type RSVPState string

const (
	StateNotGoing RSVPState = "not_going"
	StateGoing    RSVPState = "going"

	// StateEnded is display-only; it is never stored.
	StateEnded RSVPState = "ended"
)

// StateFor reports the state shown to a viewer.
func StateFor(e *Event, hasRSVP bool, now time.Time) RSVPState {
	switch {
	case hasRSVP:
		return StateGoing
	case e.IsPast(now):
		return StateEnded
	}
	return StateNotGoing
}

// CanRSVP applies the only transition, NotGoing to Going. A past event is
// rejected whatever the prior state.
func CanRSVP(e *Event, hasRSVP bool, now time.Time) error {
	if e.IsPast(now) {
		return ErrEventEnded
	}
	if hasRSVP {
		return ErrAlreadyRSVPd
	}
	return nil
}
