package models

import (
	"errors"
	"fmt"

	"locationsguard/constants"
)

// ReservationState defines the transitions allowed from one reservation status.
type ReservationState interface {
	Confirm(r *Reservation) error
	Cancel(r *Reservation) error
	Complete(r *Reservation) error
}

// ErrInvalidTransition is wrapped by every refused transition.
var ErrInvalidTransition = errors.New("invalid reservation transition")

func refuse(r *Reservation, to constants.ReservationStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, to)
}

type PendingState struct{}

func (s *PendingState) Confirm(r *Reservation) error {
	r.Status = constants.ReservationStatusConfirmed
	return nil
}

func (s *PendingState) Cancel(r *Reservation) error {
	r.Status = constants.ReservationStatusCancelled
	return nil
}

func (s *PendingState) Complete(r *Reservation) error {
	return refuse(r, constants.ReservationStatusCompleted)
}

type ConfirmedState struct{}

func (s *ConfirmedState) Confirm(r *Reservation) error {
	return refuse(r, constants.ReservationStatusConfirmed)
}

func (s *ConfirmedState) Cancel(r *Reservation) error {
	r.Status = constants.ReservationStatusCancelled
	return nil
}

func (s *ConfirmedState) Complete(r *Reservation) error {
	r.Status = constants.ReservationStatusCompleted
	return nil
}

// CompletedState is terminal.
type CompletedState struct{}

func (s *CompletedState) Confirm(r *Reservation) error {
	return refuse(r, constants.ReservationStatusConfirmed)
}

func (s *CompletedState) Cancel(r *Reservation) error {
	return refuse(r, constants.ReservationStatusCancelled)
}

func (s *CompletedState) Complete(r *Reservation) error {
	return refuse(r, constants.ReservationStatusCompleted)
}

// CancelledState is terminal.
type CancelledState struct{}

func (s *CancelledState) Confirm(r *Reservation) error {
	return refuse(r, constants.ReservationStatusConfirmed)
}

func (s *CancelledState) Cancel(r *Reservation) error {
	return refuse(r, constants.ReservationStatusCancelled)
}

func (s *CancelledState) Complete(r *Reservation) error {
	return refuse(r, constants.ReservationStatusCompleted)
}

// GetReservationState returns the state matching status. Unknown statuses get a
// state that refuses every transition.
func GetReservationState(status constants.ReservationStatus) ReservationState {
	switch status {
	case constants.ReservationStatusPending:
		return &PendingState{}
	case constants.ReservationStatusConfirmed:
		return &ConfirmedState{}
	case constants.ReservationStatusCompleted:
		return &CompletedState{}
	default:
		return &CancelledState{}
	}
}

// Transition applies the transition leading to status `to`.
func (r *Reservation) Transition(to constants.ReservationStatus) error {
	state := GetReservationState(r.Status)
	switch to {
	case constants.ReservationStatusConfirmed:
		return state.Confirm(r)
	case constants.ReservationStatusCancelled:
		return state.Cancel(r)
	case constants.ReservationStatusCompleted:
		return state.Complete(r)
	default:
		return refuse(r, to)
	}
}
