package registrations

// CanAccept reports whether an event with the given capacity can take one
// more confirmed registration. The comparison is unconditional: an event
// with capacity zero (or negative) never accepts.
func CanAccept(capacity, confirmedCount int) bool {
	return confirmedCount < capacity
}

// AvailableSpots returns how many confirmed registrations the event can
// still take, clamped at zero.
func AvailableSpots(capacity, confirmedCount int) int {
	spots := capacity - confirmedCount
	if spots < 0 {
		return 0
	}
	return spots
}
