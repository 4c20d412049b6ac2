package schedule

import (
	"context"
	"errors"
	"strings"
	"time"

	"backend-gymflow/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Sessions are bookable at most this far ahead.
const bookingWindowDays = 14

var (
	ErrClassNotFound   = errors.New("class not found")
	ErrSessionNotFound = errors.New("session not found")
)

type Service struct {
	db db.Querier
}

func NewService(querier db.Querier) *Service {
	return &Service{db: querier}
}

func (s *Service) CreateClass(ctx context.Context, input GymClass) (GymClass, error) {
	if strings.TrimSpace(input.Name) == "" {
		return GymClass{}, errors.New("class name cannot be empty")
	}
	if strings.TrimSpace(input.InstructorName) == "" {
		return GymClass{}, errors.New("instructor name cannot be empty")
	}
	if input.Capacity <= 0 {
		return GymClass{}, errors.New("capacity must be positive")
	}
	if input.DurationMinutes <= 0 {
		return GymClass{}, errors.New("duration must be positive")
	}
	input.ClassType = strings.ToUpper(input.ClassType)

	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO gym_classes (id, name, class_type, instructor_name, capacity, duration_minutes)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, input.ID, input.Name, input.ClassType, input.InstructorName, input.Capacity, input.DurationMinutes)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return GymClass{}, err
	}
	return input, nil
}

func (s *Service) GetClass(ctx context.Context, id string) (GymClass, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, class_type, instructor_name, capacity, duration_minutes, created_at
		FROM gym_classes WHERE id=$1
	`, id)
	var gc GymClass
	if err := row.Scan(&gc.ID, &gc.Name, &gc.ClassType, &gc.InstructorName, &gc.Capacity, &gc.DurationMinutes, &gc.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return GymClass{}, ErrClassNotFound
		}
		return GymClass{}, err
	}
	return gc, nil
}

func (s *Service) ListClasses(ctx context.Context) ([]GymClass, error) {
	return s.queryClasses(ctx, `
		SELECT id, name, class_type, instructor_name, capacity, duration_minutes, created_at
		FROM gym_classes ORDER BY name
	`)
}

func (s *Service) SearchClasses(ctx context.Context, term string) ([]GymClass, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.ListClasses(ctx)
	}
	pattern := "%" + term + "%"
	return s.queryClasses(ctx, `
		SELECT id, name, class_type, instructor_name, capacity, duration_minutes, created_at
		FROM gym_classes
		WHERE name ILIKE $1 OR instructor_name ILIKE $1 OR class_type ILIKE $1
		ORDER BY name
	`, pattern)
}

func (s *Service) UpdateClass(ctx context.Context, id string, patch GymClass) (GymClass, error) {
	gc, err := s.GetClass(ctx, id)
	if err != nil {
		return GymClass{}, err
	}
	if patch.Name != "" {
		gc.Name = patch.Name
	}
	if patch.ClassType != "" {
		gc.ClassType = strings.ToUpper(patch.ClassType)
	}
	if patch.InstructorName != "" {
		gc.InstructorName = patch.InstructorName
	}
	if patch.Capacity > 0 {
		gc.Capacity = patch.Capacity
	}
	if patch.DurationMinutes > 0 {
		gc.DurationMinutes = patch.DurationMinutes
	}

	_, err = s.db.Exec(ctx, `
		UPDATE gym_classes
		SET name=$2, class_type=$3, instructor_name=$4, capacity=$5, duration_minutes=$6
		WHERE id=$1
	`, gc.ID, gc.Name, gc.ClassType, gc.InstructorName, gc.Capacity, gc.DurationMinutes)
	if err != nil {
		return GymClass{}, err
	}
	return gc, nil
}

func (s *Service) DeleteClass(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM gym_classes WHERE id=$1`, id)
	return err
}

func (s *Service) CreateSession(ctx context.Context, input Session) (Session, error) {
	if input.ClassID == "" {
		return Session{}, errors.New("class id required")
	}
	if input.SessionDate.IsZero() {
		return Session{}, errors.New("session date required")
	}
	today := time.Now().Truncate(24 * time.Hour)
	if input.SessionDate.Before(today) {
		return Session{}, errors.New("cannot schedule a session in the past")
	}
	if input.StartTime.IsZero() || input.EndTime.IsZero() {
		return Session{}, errors.New("start and end times required")
	}
	if !input.EndTime.After(input.StartTime) {
		return Session{}, errors.New("end time must be after start time")
	}
	if input.RemainingSeats <= 0 {
		return Session{}, errors.New("remaining seats must be positive")
	}

	gc, err := s.GetClass(ctx, input.ClassID)
	if err != nil {
		return Session{}, err
	}
	if input.RemainingSeats > gc.Capacity {
		return Session{}, errors.New("remaining seats cannot exceed class capacity")
	}

	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO class_sessions (id, class_id, session_date, start_time, end_time, remaining_seats)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, input.ID, input.ClassID, input.SessionDate, input.StartTime, input.EndTime, input.RemainingSeats)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Session{}, err
	}
	return input, nil
}

func (s *Service) GetSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, class_id, session_date, start_time, end_time, remaining_seats, created_at
		FROM class_sessions WHERE id=$1
	`, id)
	var sess Session
	if err := row.Scan(&sess.ID, &sess.ClassID, &sess.SessionDate, &sess.StartTime, &sess.EndTime, &sess.RemainingSeats, &sess.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, err
	}
	return sess, nil
}

func (s *Service) SessionsByClass(ctx context.Context, classID string) ([]Session, error) {
	return s.querySessions(ctx, `
		SELECT id, class_id, session_date, start_time, end_time, remaining_seats, created_at
		FROM class_sessions WHERE class_id=$1
		ORDER BY start_time
	`, classID)
}

// AvailableSessions lists sessions with open seats inside the booking window.
func (s *Service) AvailableSessions(ctx context.Context) ([]Session, error) {
	today := time.Now().Truncate(24 * time.Hour)
	maxDate := today.AddDate(0, 0, bookingWindowDays)
	return s.querySessions(ctx, `
		SELECT id, class_id, session_date, start_time, end_time, remaining_seats, created_at
		FROM class_sessions
		WHERE remaining_seats > 0 AND session_date >= $1 AND session_date <= $2
		ORDER BY start_time
	`, today, maxDate)
}

func (s *Service) SessionsByDate(ctx context.Context, date time.Time) ([]Session, error) {
	today := time.Now().Truncate(24 * time.Hour)
	maxDate := today.AddDate(0, 0, bookingWindowDays)
	if date.Before(today) || date.After(maxDate) {
		return nil, nil
	}
	return s.querySessions(ctx, `
		SELECT id, class_id, session_date, start_time, end_time, remaining_seats, created_at
		FROM class_sessions WHERE session_date=$1
		ORDER BY start_time
	`, date)
}

func (s *Service) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM class_sessions WHERE id=$1`, id)
	return err
}

func (s *Service) queryClasses(ctx context.Context, sql string, args ...any) ([]GymClass, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []GymClass
	for rows.Next() {
		var gc GymClass
		if err := rows.Scan(&gc.ID, &gc.Name, &gc.ClassType, &gc.InstructorName, &gc.Capacity, &gc.DurationMinutes, &gc.CreatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, gc)
	}
	return classes, nil
}

func (s *Service) querySessions(ctx context.Context, sql string, args ...any) ([]Session, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.ClassID, &sess.SessionDate, &sess.StartTime, &sess.EndTime, &sess.RemainingSeats, &sess.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}
