package model

import (
	"strings"
	"time"
)

type Trigger string

const (
	TriggerCreated     Trigger = "created"
	TriggerRescheduled Trigger = "rescheduled"
	TriggerCancelled   Trigger = "cancelled"
	TriggerUnknown     Trigger = "unknown"
)

// ClassifyTrigger maps a raw trigger label onto a Trigger. Matching ignores
// case and separators, and checks created, rescheduled, then cancel.
func ClassifyTrigger(raw string) Trigger {
	key := strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', '.', ' ', ':', '/':
			return -1
		}
		return r
	}, strings.ToUpper(raw))

	switch {
	case strings.Contains(key, "CREATED"):
		return TriggerCreated
	case strings.Contains(key, "RESCHEDULED"):
		return TriggerRescheduled
	case strings.Contains(key, "CANCEL"):
		return TriggerCancelled
	default:
		return TriggerUnknown
	}
}

// BookingSnapshot is the normalized view of one webhook delivery.
type BookingSnapshot struct {
	UID                string
	Sequence           int
	Title              string
	Description        string
	StartTime          time.Time `validate:"required"`
	EndTime            time.Time `validate:"required,gtfield=StartTime"`
	AttendeeName       string
	AttendeeEmail      string `validate:"required,email"`
	AttendeeTimeZone   string
	HostName           string
	HostEmail          string `validate:"required,email"`
	HostUsername       string
	Location           string
	CancellationReason string
}

// WebhookEvent is the decoded envelope: the raw trigger label and the
// snapshot extracted from it.
type WebhookEvent struct {
	TriggerEvent string
	Trigger      Trigger
	Booking      BookingSnapshot
}
