// Package workflow holds the work lifecycle as an explicit transition table.
//
// The stored status of a work only has four values; the pending-acceptance
// state is derived from an active work that already has an applicant.
package workflow

import (
	"errors"
	"fmt"

	"loklagbe/internal/domain/entity"
)

type State string

const (
	StateActive            State = "active"
	StatePendingAcceptance State = "pending_acceptance"
	StateAccepted          State = "accepted"
	StateCompletedSent     State = "completed_sent"
	StateCompleted         State = "completed"
)

type Action string

const (
	ActionApply             Action = "apply"
	ActionGrant             Action = "grant"
	ActionRejectApplicant   Action = "reject_applicant"
	ActionRecordPayment     Action = "record_payment"
	ActionSubmitCompletion  Action = "submit_completion"
	ActionConfirmCompletion Action = "confirm_completion"
	ActionRejectCompletion  Action = "reject_completion"
	ActionRate              Action = "rate"
)

// Role is the relation of the acting user to the work.
type Role string

const (
	RolePoster Role = "poster"
	RoleWorker Role = "worker"
	RoleOther  Role = "other"
)

var (
	ErrIllegalTransition = errors.New("illegal transition")
	ErrNotPermitted      = errors.New("actor not permitted")
)

type key struct {
	from   State
	action Action
}

type rule struct {
	to    State
	roles []Role
}

var table = map[key]rule{
	{StateActive, ActionApply}:                      {StatePendingAcceptance, []Role{RoleOther}},
	{StatePendingAcceptance, ActionGrant}:           {StateAccepted, []Role{RolePoster}},
	{StatePendingAcceptance, ActionRejectApplicant}: {StateActive, []Role{RolePoster}},
	{StateAccepted, ActionRecordPayment}:            {StateAccepted, []Role{RolePoster, RoleWorker}},
	{StateAccepted, ActionSubmitCompletion}:         {StateCompletedSent, []Role{RoleWorker}},
	{StateCompletedSent, ActionConfirmCompletion}:   {StateCompleted, []Role{RolePoster}},
	{StateCompletedSent, ActionRejectCompletion}:    {StateAccepted, []Role{RolePoster}},
	{StateCompleted, ActionRate}:                    {StateCompleted, []Role{RolePoster}},
}

// StateOf derives the lifecycle state from the stored fields.
func StateOf(w *entity.Work) State {
	switch w.Status {
	case entity.WorkStatusActive:
		if w.HasApplicant() {
			return StatePendingAcceptance
		}
		return StateActive
	case entity.WorkStatusAccepted:
		return StateAccepted
	case entity.WorkStatusCompletedSent:
		return StateCompletedSent
	case entity.WorkStatusCompleted:
		return StateCompleted
	}
	return State(w.Status)
}

// RoleOf classifies uid against the work's poster and worker.
func RoleOf(w *entity.Work, uid string) Role {
	switch {
	case uid == w.UserID:
		return RolePoster
	case w.AcceptedBy != "" && uid == w.AcceptedBy:
		return RoleWorker
	}
	return RoleOther
}

// Transition returns the state reached by applying action from `from` as role.
func Transition(from State, action Action, role Role) (State, error) {
	r, ok := table[key{from, action}]
	if !ok {
		return "", fmt.Errorf("%w: cannot %s a work that is %s", ErrIllegalTransition, action, from)
	}
	for _, allowed := range r.roles {
		if allowed == role {
			return r.to, nil
		}
	}
	return "", fmt.Errorf("%w: %s cannot %s", ErrNotPermitted, role, action)
}

// StoredStatus maps a state to the value written to the status field.
func StoredStatus(s State) entity.WorkStatus {
	if s == StatePendingAcceptance {
		return entity.WorkStatusActive
	}
	return entity.WorkStatus(s)
}

// Allowed lists the actions role may take from state, in lifecycle order.
func Allowed(from State, role Role) []Action {
	var actions []Action
	for _, a := range []Action{
		ActionApply, ActionGrant, ActionRejectApplicant, ActionRecordPayment,
		ActionSubmitCompletion, ActionConfirmCompletion, ActionRejectCompletion, ActionRate,
	} {
		if _, err := Transition(from, a, role); err == nil {
			actions = append(actions, a)
		}
	}
	return actions
}
