package booking

import (
	"errors"
	"time"
)

// Booking lifecycle states. CONFIRMED is the only state with outgoing
// transitions; CANCELLED and ATTENDED are terminal.
const (
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusAttended  = "ATTENDED"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionFull      = errors.New("session is full")
	ErrAlreadyBooked    = errors.New("member already booked this session")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNotOwner         = errors.New("booking belongs to another member")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrAlreadyAttended  = errors.New("booking is already attended")
)

type Booking struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"member_id"`
	SessionID string    `json:"session_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (b Booking) IsConfirmed() bool { return b.Status == StatusConfirmed }
func (b Booking) IsCancelled() bool { return b.Status == StatusCancelled }
func (b Booking) IsAttended() bool  { return b.Status == StatusAttended }
