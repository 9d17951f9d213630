// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package operation

// Status tracks an operation through its lifecycle
type Status int

const (
	// StatusUnknown is the unknown status
	StatusUnknown Status = iota
	// StatusBuilt is a freshly built operation, no sponsorship yet
	StatusBuilt
	// StatusSponsored has sponsorship attached, collecting signatures
	StatusSponsored
	// StatusSigned has a full quorum of signatures
	StatusSigned
	// StatusSubmitted has been handed to the relay
	StatusSubmitted
	// StatusConfirmed was included and executed successfully
	StatusConfirmed
	// StatusFailed was included but reverted
	StatusFailed
	// StatusTimedOut got no receipt within the bounded wait; inclusion unknown
	StatusTimedOut
)

func (s Status) String() string {
	switch s {
	case StatusBuilt:
		return "BUILT"
	case StatusSponsored:
		return "SPONSORED"
	case StatusSigned:
		return "SIGNED"
	case StatusSubmitted:
		return "SUBMITTED"
	case StatusConfirmed:
		return "CONFIRMED"
	case StatusFailed:
		return "FAILED"
	case StatusTimedOut:
		return "TIMED_OUT"
	default:
		return "UNKNOWN"
	}
}

// legal transitions; everything else is a programmer error
var transitions = map[Status][]Status{
	StatusBuilt:     {StatusSponsored},
	StatusSponsored: {StatusSigned},
	StatusSigned:    {StatusSubmitted},
	StatusSubmitted: {StatusConfirmed, StatusFailed, StatusTimedOut},
}

func (s Status) canAdvanceTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
