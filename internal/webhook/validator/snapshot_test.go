package validator

import (
	"testing"
	"time"

	"calnotify/pkg/logger"
	"calnotify/pkg/model"
)

func validSnapshot() model.BookingSnapshot {
	start := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	return model.BookingSnapshot{
		UID:           "uid-1",
		Title:         "Intro",
		StartTime:     start,
		EndTime:       start.Add(30 * time.Minute),
		AttendeeEmail: "guest@example.com",
		HostEmail:     "host@example.com",
	}
}

func TestSkipReason(t *testing.T) {
	v := NewSnapshotValidator(logger.Discard())

	tests := []struct {
		name   string
		mutate func(*model.BookingSnapshot)
		want   string
	}{
		{"complete", func(s *model.BookingSnapshot) {}, ""},
		{"missing start", func(s *model.BookingSnapshot) { s.StartTime = time.Time{} }, "missing start time"},
		{"missing end", func(s *model.BookingSnapshot) { s.EndTime = time.Time{} }, "missing end time"},
		{"missing attendee email", func(s *model.BookingSnapshot) { s.AttendeeEmail = "" }, "missing attendee email"},
		{"missing host email", func(s *model.BookingSnapshot) { s.HostEmail = "" }, "missing host email"},
		{"invalid attendee email", func(s *model.BookingSnapshot) { s.AttendeeEmail = "guest" }, "invalid attendee email"},
		{"end before start", func(s *model.BookingSnapshot) { s.EndTime = s.StartTime.Add(-time.Minute) }, "end time must be after start time"},
		{"first missing field wins", func(s *model.BookingSnapshot) {
			s.HostEmail = ""
			s.AttendeeEmail = ""
			s.EndTime = time.Time{}
		}, "missing end time"},
		{"optional fields may be empty", func(s *model.BookingSnapshot) {
			s.UID = ""
			s.Title = ""
			s.Location = ""
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSnapshot()
			tt.mutate(&s)

			if got := v.SkipReason(&s); got != tt.want {
				t.Errorf("SkipReason() = %q, want %q", got, tt.want)
			}
		})
	}
}
