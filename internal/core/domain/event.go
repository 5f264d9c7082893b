package domain

import "time"

// EventStatus represents where an event sits in the approval workflow.
// The workflow itself runs server-side.
type EventStatus string

const (
	EventPending   EventStatus = "PENDING"
	EventApproved  EventStatus = "APPROVED"
	EventRejected  EventStatus = "REJECTED"
	EventCancelled EventStatus = "CANCELLED"
	EventCompleted EventStatus = "COMPLETED"
)

// Event is the data-transfer shape returned by the public events endpoint.
type Event struct {
	ID               string      `json:"id,omitempty"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	VendorID         string      `json:"vendorId"`
	Category         string      `json:"category"`
	Location         string      `json:"location"`
	Venue            string      `json:"venue"`
	EventDate        time.Time   `json:"eventDate"`
	StartTime        time.Time   `json:"startTime"`
	EndTime          time.Time   `json:"endTime"`
	TicketPrice      float64     `json:"ticketPrice"`
	MaxAttendees     int         `json:"maxAttendees"`
	CurrentAttendees *int        `json:"currentAttendees,omitempty"`
	Status           EventStatus `json:"status"`
	ImageURL         string      `json:"imageUrl,omitempty"`
	CreatedAt        *time.Time  `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time  `json:"updatedAt,omitempty"`
}

// SeatsLeft returns the remaining capacity, never below zero.
func (e Event) SeatsLeft() int {
	taken := 0
	if e.CurrentAttendees != nil {
		taken = *e.CurrentAttendees
	}
	if left := e.MaxAttendees - taken; left > 0 {
		return left
	}
	return 0
}
