package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// Publisher emits booking lifecycle facts. Publishing is fire-and-forget;
// the booking engine never fails an operation because an event did not go out.
type Publisher interface {
	PublishBookingCreated(bookingID, memberID, sessionID string) error
	PublishBookingCancelled(bookingID, memberID, sessionID string) error
	PublishBookingAttended(bookingID, memberID, sessionID string) error
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (*NatsPublisher, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}
	return &NatsPublisher{conn: nc}, nil
}

type bookingEvent struct {
	EventType  string    `json:"event_type"`
	BookingID  string    `json:"booking_id"`
	MemberID   string    `json:"member_id"`
	SessionID  string    `json:"session_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (p *NatsPublisher) PublishBookingCreated(bookingID, memberID, sessionID string) error {
	return p.publish("booking.created", bookingID, memberID, sessionID)
}

func (p *NatsPublisher) PublishBookingCancelled(bookingID, memberID, sessionID string) error {
	return p.publish("booking.cancelled", bookingID, memberID, sessionID)
}

func (p *NatsPublisher) PublishBookingAttended(bookingID, memberID, sessionID string) error {
	return p.publish("booking.attended", bookingID, memberID, sessionID)
}

func (p *NatsPublisher) publish(subject, bookingID, memberID, sessionID string) error {
	event := bookingEvent{
		EventType:  subject,
		BookingID:  bookingID,
		MemberID:   memberID,
		SessionID:  sessionID,
		OccurredAt: time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(subject, payload); err != nil {
		log.Printf("nats publish error on %s: %v", subject, err)
		return err
	}
	return nil
}

func (p *NatsPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
