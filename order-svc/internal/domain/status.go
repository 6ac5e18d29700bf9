package domain

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusPreparing Status = "Preparing"
	StatusReady     Status = "Ready"
	StatusCompleted Status = "Completed"
)

var statuses = []Status{StatusPending, StatusPreparing, StatusReady, StatusCompleted}

// next holds the only forward move allowed from each status.
var next = map[Status]Status{
	StatusPending:   StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusCompleted,
}

// ParseStatus accepts the canonical spelling in any letter case.
func ParseStatus(raw string) (Status, error) {
	for _, s := range statuses {
		if strings.EqualFold(raw, string(s)) {
			return s, nil
		}
	}
	return "", &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", raw)}
}

func (s Status) Valid() bool {
	_, ok := next[s]
	return ok || s == StatusCompleted
}

func (s Status) Terminal() bool {
	return s == StatusCompleted
}

type TransitionPolicy string

const (
	// PolicyStrict only allows the forward move out of each status.
	PolicyStrict TransitionPolicy = "strict"
	// PolicyPermissive allows a jump to any known status.
	PolicyPermissive TransitionPolicy = "permissive"
)

func ParseTransitionPolicy(raw string) (TransitionPolicy, error) {
	switch TransitionPolicy(strings.ToLower(raw)) {
	case PolicyStrict, "":
		return PolicyStrict, nil
	case PolicyPermissive:
		return PolicyPermissive, nil
	}
	return "", fmt.Errorf("unknown transition policy %q", raw)
}

// Check returns nil when an order in from may move to to. Re-applying the
// current status is always allowed.
func (p TransitionPolicy) Check(from, to Status) error {
	if !to.Valid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", to)}
	}
	if from == to || p == PolicyPermissive {
		return nil
	}
	if next[from] == to {
		return nil
	}
	return &TransitionError{From: from, To: to}
}
