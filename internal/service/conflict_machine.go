// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-link-keeper/models"
)

// Action is a user decision on a conflicted item.
type Action string

const (
	ActionLocalDelete Action = "local-delete"
	ActionCloudDelete Action = "cloud-delete"
	ActionUpload      Action = "upload"
	ActionDownload    Action = "download"
	ActionRetry       Action = "retry"
)

// Actions lists every action in the order the panes present them.
var Actions = []Action{ActionLocalDelete, ActionUpload, ActionCloudDelete, ActionDownload, ActionRetry}

func ParseAction(name string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Actions {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Phase is the life cycle stage of a resolution session.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseBusy
	PhaseFinished
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseBusy:
		return "busy"
	case PhaseFinished:
		return "finished"
	case PhaseCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Done reports whether the session reached a terminal phase.
func (p Phase) Done() bool {
	return p == PhaseFinished || p == PhaseCancelled
}

type LocalLabel string

const (
	LocalLabelDeleted    LocalLabel = "deleted"
	LocalLabelUpdated    LocalLabel = "updated"
	LocalLabelNoConflict LocalLabel = "no-conflict"
)

type CloudLabel string

const (
	CloudLabelUpdated    CloudLabel = "updated"
	CloudLabelDuplicated CloudLabel = "duplicated"
	CloudLabelNotFound   CloudLabel = "not-found"
	CloudLabelError      CloudLabel = "error"
)

// LocalPaneState is the local half of a resolution session. For a
// duplicated item it shows the main record holding the same natural key.
type LocalPaneState struct {
	Loaded        bool
	Label         LocalLabel
	ShownID       string
	DeleteEnabled bool
	UploadEnabled bool
}

// CloudPaneState is the remote half of a resolution session.
type CloudPaneState struct {
	Loaded          bool
	Found           bool
	Label           CloudLabel
	Err             error
	DeleteEnabled   bool
	DownloadEnabled bool
	RetryEnabled    bool
}

// ConflictState is the whole state of a resolution session. It is a value:
// Transition returns a new one.
type ConflictState struct {
	ID         string
	Phase      Phase
	Duplicated bool
	// Tombstone is set when the conflicted local record is a deletion.
	Tombstone bool
	Local     LocalPaneState
	Cloud     CloudPaneState
	// Running is the action in flight, or the last one run.
	Running Action
	// Err holds the reason the session was cancelled or the last rejected
	// action.
	Err error
}

// Enabled reports whether action can be invoked now. Nothing is enabled
// while a pane is loading or an action is in flight.
func (s ConflictState) Enabled(action Action) bool {
	if s.Phase != PhaseReady || !s.Local.Loaded || !s.Cloud.Loaded {
		return false
	}
	switch action {
	case ActionLocalDelete:
		return s.Local.DeleteEnabled
	case ActionUpload:
		return s.Local.UploadEnabled
	case ActionCloudDelete:
		return s.Cloud.DeleteEnabled
	case ActionDownload:
		return s.Cloud.DownloadEnabled
	case ActionRetry:
		return s.Cloud.RetryEnabled
	}
	return false
}

// EnabledActions lists the actions that can be invoked now.
func (s ConflictState) EnabledActions() []Action {
	var out []Action
	for _, a := range Actions {
		if s.Enabled(a) {
			out = append(out, a)
		}
	}
	return out
}

// ConflictEvent advances a session.
type ConflictEvent interface {
	conflictEvent()
}

// LocalLoaded reports the local record. Found is false when the record was
// purged. For a duplicated record MainFound tells whether a main record with
// the same natural key exists, and MainID names it.
type LocalLoaded struct {
	Found     bool
	State     models.SyncState
	MainFound bool
	MainID    string
	Err       error
}

// CloudLoaded reports the outcome of the remote download.
type CloudLoaded struct {
	Found bool
}

// CloudError reports a failed remote download.
type CloudError struct {
	Err error
}

// ActionInvoked is a user decision.
type ActionInvoked struct {
	Action Action
}

// ActionCompleted reports the end of an effect started by the machine.
type ActionCompleted struct {
	Err error
}

func (LocalLoaded) conflictEvent()     {}
func (CloudLoaded) conflictEvent()     {}
func (CloudError) conflictEvent()      {}
func (ActionInvoked) conflictEvent()   {}
func (ActionCompleted) conflictEvent() {}

// ConflictEffect is work the driver must carry out for the machine.
type ConflictEffect interface {
	conflictEffect()
}

type (
	// LoadLocal reads the local record, and its main record when duplicated.
	LoadLocal struct{}
	// LoadCloud downloads the remote copy.
	LoadCloud struct{}
	// RefreshCache drops the cached copy of the record.
	RefreshCache struct{}
	// AutoResolveDuplicate stamps a duplicate without a main record SYNCED.
	AutoResolveDuplicate struct{}
	// RunAction carries out a terminal action against both stores.
	RunAction struct{ Action Action }
)

func (LoadLocal) conflictEffect()            {}
func (LoadCloud) conflictEffect()            {}
func (RefreshCache) conflictEffect()         {}
func (AutoResolveDuplicate) conflictEffect() {}
func (RunAction) conflictEffect()            {}

// NewConflictState starts a session on id. Both panes load independently.
func NewConflictState(id string) (ConflictState, []ConflictEffect) {
	return ConflictState{ID: id, Phase: PhaseLoading}, []ConflictEffect{LoadLocal{}, LoadCloud{}}
}

// Transition applies ev to s. It never performs I/O.
func Transition(s ConflictState, ev ConflictEvent) (ConflictState, []ConflictEffect) {
	if s.Phase.Done() {
		return s, nil
	}

	switch ev := ev.(type) {
	case LocalLoaded:
		return onLocalLoaded(s, ev)
	case CloudLoaded:
		if s.Phase == PhaseBusy {
			return s, nil
		}
		s.Cloud = CloudPaneState{Loaded: true, Found: ev.Found}
		return settle(s), nil
	case CloudError:
		if s.Phase == PhaseBusy {
			return s, nil
		}
		s.Cloud = CloudPaneState{Loaded: true, Err: ev.Err}
		return settle(s), nil
	case ActionInvoked:
		return onActionInvoked(s, ev)
	case ActionCompleted:
		return onActionCompleted(s, ev)
	}
	return s, nil
}

func onLocalLoaded(s ConflictState, ev LocalLoaded) (ConflictState, []ConflictEffect) {
	if ev.Err != nil {
		s.Phase = PhaseCancelled
		s.Err = ev.Err
		return s, nil
	}
	if !ev.Found || !ev.State.IsConflicted() {
		// resolved elsewhere
		s.Phase = PhaseFinished
		return s, []ConflictEffect{RefreshCache{}}
	}

	s.Duplicated = ev.State.Duplicated
	s.Tombstone = ev.State.IsTombstone()
	if s.Duplicated && !ev.MainFound {
		s.Phase = PhaseBusy
		return s, []ConflictEffect{AutoResolveDuplicate{}}
	}

	s.Local = LocalPaneState{Loaded: true, ShownID: s.ID}
	switch {
	case s.Duplicated:
		s.Local.Label = LocalLabelNoConflict
		s.Local.ShownID = ev.MainID
	case s.Tombstone:
		s.Local.Label = LocalLabelDeleted
	default:
		s.Local.Label = LocalLabelUpdated
	}
	return settle(s), nil
}

func onActionInvoked(s ConflictState, ev ActionInvoked) (ConflictState, []ConflictEffect) {
	if !s.Enabled(ev.Action) {
		s.Err = fmt.Errorf("%w: %s", ErrActionNotAllowed, ev.Action)
		return s, nil
	}
	s.Err = nil
	s.Running = ev.Action

	if ev.Action == ActionRetry {
		s.Phase = PhaseLoading
		s.Cloud = CloudPaneState{}
		return s, []ConflictEffect{LoadCloud{}}
	}
	s.Phase = PhaseBusy
	return s, []ConflictEffect{RunAction{Action: ev.Action}}
}

func onActionCompleted(s ConflictState, ev ActionCompleted) (ConflictState, []ConflictEffect) {
	if s.Phase != PhaseBusy {
		return s, nil
	}
	switch {
	case ev.Err == nil:
		s.Phase = PhaseFinished
		return s, []ConflictEffect{RefreshCache{}}
	case isNotConflicted(ev.Err):
		s.Phase = PhaseFinished
		return s, []ConflictEffect{RefreshCache{}}
	}
	s.Phase = PhaseCancelled
	s.Err = ev.Err
	return s, nil
}

// settle derives labels and enabled actions once both panes are loaded.
func settle(s ConflictState) ConflictState {
	if !s.Local.Loaded || !s.Cloud.Loaded {
		return s
	}

	cloud := &s.Cloud
	cloud.DeleteEnabled, cloud.DownloadEnabled, cloud.RetryEnabled = false, false, false
	switch {
	case cloud.Err != nil:
		cloud.Label = CloudLabelError
		cloud.RetryEnabled = true
	case !cloud.Found:
		cloud.Label = CloudLabelNotFound
	case s.Duplicated:
		cloud.Label = CloudLabelDuplicated
		cloud.DeleteEnabled = true
	default:
		cloud.Label = CloudLabelUpdated
		cloud.DownloadEnabled = true
	}

	local := &s.Local
	switch local.Label {
	case LocalLabelDeleted:
		local.DeleteEnabled, local.UploadEnabled = true, true
	case LocalLabelUpdated:
		local.DeleteEnabled, local.UploadEnabled = false, true
	case LocalLabelNoConflict:
		local.DeleteEnabled, local.UploadEnabled = true, false
	}
	if cloud.Label == CloudLabelNotFound {
		// nothing left remotely to merge with
		local.DeleteEnabled = true
	}

	s.Phase = PhaseReady
	return s
}
