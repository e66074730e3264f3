package domain

import (
	"strconv"
	"time"
)

// ReservationEventType represents the type of reservation event
type ReservationEventType string

const (
	ReservationEventCreated   ReservationEventType = "reservation.created"
	ReservationEventUpdated   ReservationEventType = "reservation.updated"
	ReservationEventCancelled ReservationEventType = "reservation.cancelled"
	ReservationEventCompleted ReservationEventType = "reservation.completed"
)

// ReservationEvent is the envelope published to Kafka for reservation
// lifecycle changes.
type ReservationEvent struct {
	EventID    string                `json:"event_id"`
	EventType  ReservationEventType  `json:"event_type"`
	OccurredAt time.Time             `json:"occurred_at"`
	Version    int                   `json:"version"`
	Data       *ReservationEventData `json:"data"`
}

// ReservationEventData contains the reservation data in the event
type ReservationEventData struct {
	ReservationID int64  `json:"reservation_id"`
	GuestID       int64  `json:"guest_id"`
	RoomID        int64  `json:"room_id"`
	CheckIn       Date   `json:"check_in"`
	CheckOut      Date   `json:"check_out"`
	Occupants     int    `json:"occupants"`
	TotalAmount   Money  `json:"total_amount"`
	Status        string `json:"status"`
}

// NewReservationEvent builds an event envelope for a reservation
func NewReservationEvent(eventType ReservationEventType, res *Reservation, eventID string) *ReservationEvent {
	return &ReservationEvent{
		EventID:    eventID,
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Version:    1,
		Data: &ReservationEventData{
			ReservationID: res.ID,
			GuestID:       res.GuestID,
			RoomID:        res.RoomID,
			CheckIn:       res.CheckIn,
			CheckOut:      res.CheckOut,
			Occupants:     res.Occupants,
			TotalAmount:   res.TotalAmount,
			Status:        res.Status.String(),
		},
	}
}

// Key returns the partition key. Events for the same room stay ordered.
func (e *ReservationEvent) Key() string {
	return strconv.FormatInt(e.Data.RoomID, 10)
}
