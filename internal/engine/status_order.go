package engine

import "slices"

// Allowed match status moves: waiting -> live -> pause -> live, and back to
// waiting on reset from anywhere.
var statusOrder = map[Status][]Status{
	StatusWaiting: {StatusLive},
	StatusLive:    {StatusPause, StatusWaiting},
	StatusPause:   {StatusLive, StatusWaiting},
}

func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	return slices.Contains(statusOrder[from], to)
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusWaiting, StatusLive, StatusPause:
		return st, true
	}
	return "", false
}
