package schedule

import "time"

// Activity categories a gym class can be typed as. The progress engine
// keys its point table on these values.
const (
	ClassTypeHIIT     = "HIIT"
	ClassTypeYoga     = "YOGA"
	ClassTypeStrength = "STRENGTH"
	ClassTypeCardio   = "CARDIO"
)

type GymClass struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	ClassType       string    `json:"class_type"`
	InstructorName  string    `json:"instructor_name"`
	Capacity        int       `json:"capacity"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
}

type Session struct {
	ID             string    `json:"id"`
	ClassID        string    `json:"class_id"`
	SessionDate    time.Time `json:"session_date"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	RemainingSeats int       `json:"remaining_seats"`
	CreatedAt      time.Time `json:"created_at"`
}
