package entity

import (
	"fmt"
	"time"
)

// RequestStatus is the lifecycle state of a Request.
//
// State machine: pending → in_progress → done | error | cancelled, with
// re-queue from error back to pending permitted (the only non-monotonic
// transition).
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusDone       RequestStatus = "done"
	RequestStatusError      RequestStatus = "error"
	RequestStatusCancelled  RequestStatus = "cancelled"
)

// IsTerminal reports whether status will not transition further on its own.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusDone || s == RequestStatusCancelled
}

// CanTransitionTo reports whether next is a legal transition from s. Error
// is the only state with an outbound edge back to a non-terminal state
// (re-queue).
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	switch s {
	case RequestStatusPending:
		return next == RequestStatusInProgress || next == RequestStatusCancelled
	case RequestStatusInProgress:
		return next == RequestStatusDone || next == RequestStatusError || next == RequestStatusCancelled
	case RequestStatusError:
		return next == RequestStatusPending // re-queue
	case RequestStatusDone, RequestStatusCancelled:
		return false
	default:
		return false
	}
}

// RequestError is the structured error payload attached to a failed Request.
type RequestError struct {
	Class   string `json:"class"` // syntax, unknown_column, type_mismatch, timeout, permission, other
	Message string `json:"message"`
	Attempt int    `json:"attempt,omitempty"`
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Class, e.Message)
}

// Request is a single user utterance and its lifecycle, the unit other
// components observe for progress.
type Request struct {
	ID string `json:"id"`

	SessionID      string `json:"session_id"`
	SequenceNumber int64  `json:"sequence_number"`

	UserText string `json:"user_text"`

	Status RequestStatus `json:"status"`

	// QueryID references the QueryMetadata produced for this request, once
	// the repair loop reaches PERSISTING.
	QueryID string `json:"query_id,omitempty"`

	Error *RequestError `json:"error,omitempty"`

	Attempts int `json:"attempts,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DoneAt    *time.Time `json:"done_at,omitempty"`
}

// MarkInProgress transitions the request to in_progress if legal.
func (r *Request) MarkInProgress() error {
	if !r.Status.CanTransitionTo(RequestStatusInProgress) {
		return fmt.Errorf("invalid transition %s -> %s", r.Status, RequestStatusInProgress)
	}
	r.Status = RequestStatusInProgress
	r.UpdatedAt = time.Now()
	return nil
}

// MarkDone transitions the request to done and links the produced query.
func (r *Request) MarkDone(queryID string) error {
	if !r.Status.CanTransitionTo(RequestStatusDone) {
		return fmt.Errorf("invalid transition %s -> %s", r.Status, RequestStatusDone)
	}
	r.Status = RequestStatusDone
	r.QueryID = queryID
	now := time.Now()
	r.UpdatedAt = now
	r.DoneAt = &now
	return nil
}

// MarkError transitions the request to error with the given diagnostic.
func (r *Request) MarkError(reErr *RequestError) error {
	if !r.Status.CanTransitionTo(RequestStatusError) {
		return fmt.Errorf("invalid transition %s -> %s", r.Status, RequestStatusError)
	}
	r.Status = RequestStatusError
	r.Error = reErr
	r.UpdatedAt = time.Now()
	return nil
}

// MarkCancelled transitions the request to cancelled from pending or
// in_progress; from any other status it returns an error. The request's
// other fields are left unchanged.
func (r *Request) MarkCancelled() error {
	if !r.Status.CanTransitionTo(RequestStatusCancelled) {
		return fmt.Errorf("invalid transition %s -> %s", r.Status, RequestStatusCancelled)
	}
	r.Status = RequestStatusCancelled
	r.UpdatedAt = time.Now()
	return nil
}

// Requeue resets an errored request back to pending for another attempt.
func (r *Request) Requeue() error {
	if !r.Status.CanTransitionTo(RequestStatusPending) {
		return fmt.Errorf("invalid transition %s -> %s", r.Status, RequestStatusPending)
	}
	r.Status = RequestStatusPending
	r.Error = nil
	r.UpdatedAt = time.Now()
	return nil
}
