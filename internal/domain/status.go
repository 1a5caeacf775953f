package domain

import "strings"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
)

// Progression is the fixed display order of the status bar. Transitions are
// not enforced against it.
var Progression = []Status{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusDelivered,
}

func ParseStatus(s string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	return status, status.Valid()
}

func (s Status) Valid() bool {
	return s.Rank() >= 0
}

// Rank is the position of s in Progression, or -1 when unknown.
func (s Status) Rank() int {
	for i, step := range Progression {
		if step == s {
			return i
		}
	}
	return -1
}

func (s Status) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

type StepState string

const (
	StepCompleted StepState = "completed"
	StepActive    StepState = "active"
	StepUntouched StepState = "untouched"
)

type ProgressStep struct {
	Status Status
	State  StepState
}

// Progress marks every step before s completed, s itself active and the
// rest untouched. An unknown status leaves every step untouched.
func (s Status) Progress() []ProgressStep {
	rank := s.Rank()
	steps := make([]ProgressStep, len(Progression))
	for i, step := range Progression {
		state := StepUntouched
		switch {
		case rank < 0:
		case i < rank:
			state = StepCompleted
		case i == rank:
			state = StepActive
		}
		steps[i] = ProgressStep{Status: step, State: state}
	}
	return steps
}
