package domain

// CountAttendees returns the number of RSVPs per event id. Every RSVP counts;
// events with none are simply absent from the map.
func CountAttendees(rsvps []RSVP) map[string]int {
	counts := make(map[string]int)
	for _, r := range rsvps {
		counts[r.EventID]++
	}
	return counts
}

// ApplyAttendeeCounts returns a copy of events with AttendeeCount taken from
// counts. Events missing from counts get zero.
func ApplyAttendeeCounts(events []Event, counts map[string]int) []Event {
	out := make([]Event, len(events))
	for i, e := range events {
		e.AttendeeCount = counts[e.ID]
		out[i] = e
	}
	return out
}
