package booking

import (
	"context"
	"errors"
	"log"

	"backend-gymflow/internal/db"
	"backend-gymflow/internal/events"
	"backend-gymflow/internal/metrics"
	"backend-gymflow/internal/stream"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PointsAwarder is the slice of the progress engine the booking engine
// needs: one XP grant per genuine attendance transition.
type PointsAwarder interface {
	AwardPointsForCategory(ctx context.Context, memberID, classType string) (bool, error)
}

type Service struct {
	db        db.Querier
	progress  PointsAwarder
	hub       *stream.Hub
	publisher events.Publisher
	locks     sessionLocks
}

// NewService wires the booking engine. hub and publisher may be nil; seat
// broadcasts and lifecycle events are then skipped.
func NewService(querier db.Querier, progress PointsAwarder, hub *stream.Hub, publisher events.Publisher) *Service {
	return &Service{db: querier, progress: progress, hub: hub, publisher: publisher}
}

// BookClass reserves a seat for the member in the session. The whole
// check-and-decrement runs under the session's lock so two concurrent calls
// against the last seat cannot both succeed.
func (s *Service) BookClass(ctx context.Context, memberID, sessionID string) (Booking, error) {
	mu := s.locks.forSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	var remaining int
	err := s.db.QueryRow(ctx, `
		SELECT remaining_seats FROM class_sessions WHERE id=$1
	`, sessionID).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			metrics.RecordBookingRejected("session_not_found")
			return Booking{}, ErrSessionNotFound
		}
		return Booking{}, err
	}
	if remaining <= 0 {
		metrics.RecordBookingRejected("session_full")
		return Booking{}, ErrSessionFull
	}

	booked, err := s.HasConfirmedBooking(ctx, memberID, sessionID)
	if err != nil {
		return Booking{}, err
	}
	if booked {
		metrics.RecordBookingRejected("already_booked")
		return Booking{}, ErrAlreadyBooked
	}

	b := Booking{
		ID:        uuid.NewString(),
		MemberID:  memberID,
		SessionID: sessionID,
		Status:    StatusConfirmed,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO bookings (id, member_id, session_id, status)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, b.ID, b.MemberID, b.SessionID, b.Status)
	if err := row.Scan(&b.CreatedAt); err != nil {
		return Booking{}, err
	}

	// The booking row is the primary effect. A failed decrement leaves the
	// stores inconsistent and must be reported, not rolled back.
	tag, err := s.db.Exec(ctx, `
		UPDATE class_sessions
		SET remaining_seats = remaining_seats - 1
		WHERE id=$1 AND remaining_seats > 0
	`, sessionID)
	if err != nil || tag.RowsAffected() != 1 {
		log.Printf("warning: booking %s created but seats not decremented for session %s: %v", b.ID, sessionID, err)
	} else {
		remaining--
	}

	s.notifyAvailability(sessionID, remaining)
	metrics.RecordBookingCreated()
	if s.publisher != nil {
		if err := s.publisher.PublishBookingCreated(b.ID, memberID, sessionID); err != nil {
			log.Printf("warning: booking.created event not published for %s: %v", b.ID, err)
		}
	}
	return b, nil
}

// CancelBooking transitions a CONFIRMED booking to CANCELLED and releases
// its seat. Only the owning member may cancel.
func (s *Service) CancelBooking(ctx context.Context, bookingID, memberID string) error {
	b, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.MemberID != memberID {
		return ErrNotOwner
	}
	if b.IsCancelled() {
		return ErrAlreadyCancelled
	}
	if b.IsAttended() {
		return ErrAlreadyAttended
	}

	mu := s.locks.forSession(b.SessionID)
	mu.Lock()
	defer mu.Unlock()

	// The status guard is repeated in SQL so two concurrent cancels cannot
	// both succeed and release the seat twice.
	tag, err := s.db.Exec(ctx, `
		UPDATE bookings SET status=$2 WHERE id=$1 AND status=$3
	`, b.ID, StatusCancelled, StatusConfirmed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		current, err := s.GetBooking(ctx, b.ID)
		if err != nil {
			return err
		}
		if current.IsAttended() {
			return ErrAlreadyAttended
		}
		return ErrAlreadyCancelled
	}

	// Seat release is best-effort: the session may have been deleted since.
	var remaining int
	err = s.db.QueryRow(ctx, `
		UPDATE class_sessions
		SET remaining_seats = remaining_seats + 1
		WHERE id=$1
		RETURNING remaining_seats
	`, b.SessionID).Scan(&remaining)
	if err != nil {
		log.Printf("warning: booking %s cancelled but seat not released for session %s: %v", b.ID, b.SessionID, err)
	} else {
		s.notifyAvailability(b.SessionID, remaining)
	}

	metrics.RecordBookingCancelled()
	if s.publisher != nil {
		if err := s.publisher.PublishBookingCancelled(b.ID, b.MemberID, b.SessionID); err != nil {
			log.Printf("warning: booking.cancelled event not published for %s: %v", b.ID, err)
		}
	}
	return nil
}

// MarkAttended records attendance. It returns true only for the genuine
// CONFIRMED to ATTENDED transition, which also awards XP exactly once.
// A missing booking or one already in a terminal state is a no-op.
func (s *Service) MarkAttended(ctx context.Context, bookingID string) (bool, error) {
	b, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return false, nil
		}
		return false, err
	}
	if !b.IsConfirmed() {
		return false, nil
	}

	// The status guard is repeated in SQL so a concurrent transition cannot
	// double-award.
	tag, err := s.db.Exec(ctx, `
		UPDATE bookings SET status=$2 WHERE id=$1 AND status=$3
	`, b.ID, StatusAttended, StatusConfirmed)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() != 1 {
		return false, nil
	}

	metrics.RecordAttendanceMarked()
	if s.publisher != nil {
		if err := s.publisher.PublishBookingAttended(b.ID, b.MemberID, b.SessionID); err != nil {
			log.Printf("warning: booking.attended event not published for %s: %v", b.ID, err)
		}
	}

	// XP is enrichment: if the session or class cannot be resolved the
	// attendance stands and no points are granted.
	var classType string
	err = s.db.QueryRow(ctx, `
		SELECT gc.class_type
		FROM class_sessions cs
		JOIN gym_classes gc ON gc.id = cs.class_id
		WHERE cs.id=$1
	`, b.SessionID).Scan(&classType)
	if err != nil {
		log.Printf("warning: booking %s attended but class type unresolved for session %s: %v", b.ID, b.SessionID, err)
		return true, nil
	}

	if s.progress != nil {
		if _, err := s.progress.AwardPointsForCategory(ctx, b.MemberID, classType); err != nil {
			log.Printf("warning: XP award failed for booking %s (member %s, class type %s): %v", b.ID, b.MemberID, classType, err)
		}
	}
	return true, nil
}

func (s *Service) GetBooking(ctx context.Context, bookingID string) (Booking, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, member_id, session_id, status, created_at
		FROM bookings WHERE id=$1
	`, bookingID)
	var b Booking
	if err := row.Scan(&b.ID, &b.MemberID, &b.SessionID, &b.Status, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, ErrBookingNotFound
		}
		return Booking{}, err
	}
	return b, nil
}

func (s *Service) BookingsByMember(ctx context.Context, memberID string) ([]Booking, error) {
	return s.queryBookings(ctx, `
		SELECT id, member_id, session_id, status, created_at
		FROM bookings WHERE member_id=$1
		ORDER BY created_at DESC
	`, memberID)
}

func (s *Service) BookingsBySession(ctx context.Context, sessionID string) ([]Booking, error) {
	return s.queryBookings(ctx, `
		SELECT id, member_id, session_id, status, created_at
		FROM bookings WHERE session_id=$1
		ORDER BY created_at
	`, sessionID)
}

// IsSessionAvailable reports whether the session exists with open seats.
func (s *Service) IsSessionAvailable(ctx context.Context, sessionID string) (bool, error) {
	var remaining int
	err := s.db.QueryRow(ctx, `
		SELECT remaining_seats FROM class_sessions WHERE id=$1
	`, sessionID).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return remaining > 0, nil
}

// HasConfirmedBooking checks for a CONFIRMED booking on the pair. Cancelled
// bookings do not count, so a member can rebook after cancelling.
func (s *Service) HasConfirmedBooking(ctx context.Context, memberID, sessionID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE member_id=$1 AND session_id=$2 AND status=$3
		)
	`, memberID, sessionID, StatusConfirmed).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Service) queryBookings(ctx context.Context, sql string, args ...any) ([]Booking, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.MemberID, &b.SessionID, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func (s *Service) notifyAvailability(sessionID string, remaining int) {
	if s.hub != nil {
		s.hub.BroadcastAvailability(sessionID, remaining)
	}
}
