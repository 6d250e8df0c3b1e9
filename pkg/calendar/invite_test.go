package calendar

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
)

func baseInvite() Invite {
	est := time.FixedZone("EST", -5*60*60)
	return Invite{
		UID:       "booking-123@example.com",
		Title:     "Intro call",
		Start:     time.Date(2024, 1, 1, 10, 0, 0, 0, est),
		End:       time.Date(2024, 1, 1, 10, 30, 0, 0, est),
		Organizer: Person{Name: "Host", Email: "host@example.com"},
		Attendee:  Person{Name: "Guest", Email: "guest@example.com"},
		Sequence:  0,
		Status:    StatusConfirmed,
		Method:    MethodRequest,
		Stamp:     time.Date(2023, 12, 20, 8, 0, 0, 0, time.UTC),
	}
}

func decodeEvent(t *testing.T, doc []byte) (*ical.Calendar, *ical.Component) {
	t.Helper()

	cal, err := ical.NewDecoder(bytes.NewReader(doc)).Decode()
	if err != nil {
		t.Fatalf("decode: %v\n%s", err, doc)
	}

	for _, child := range cal.Children {
		if child.Name == ical.CompEvent {
			return cal, child
		}
	}
	t.Fatalf("no VEVENT in:\n%s", doc)
	return nil, nil
}

func propValue(comp *ical.Component, name string) string {
	if p := comp.Props.Get(name); p != nil {
		return p.Value
	}
	return ""
}

func TestBuild_Confirmed(t *testing.T) {
	doc, err := Build(baseInvite())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	cal, event := decodeEvent(t, doc)

	if got := propValue(cal.Component, ical.PropMethod); got != "REQUEST" {
		t.Errorf("METHOD = %q, want REQUEST", got)
	}

	checks := map[string]string{
		ical.PropDateTimeStart: "20240101T150000Z",
		ical.PropDateTimeEnd:   "20240101T153000Z",
		ical.PropStatus:        "CONFIRMED",
		ical.PropSequence:      "0",
		ical.PropTransparency:  "OPAQUE",
		propBusyStatus:         "BUSY",
		ical.PropUID:           "booking-123@example.com",
		ical.PropSummary:       "Intro call",
	}
	for name, want := range checks {
		if got := propValue(event, name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}

	attendee := event.Props.Get(ical.PropAttendee)
	if attendee == nil {
		t.Fatal("missing ATTENDEE")
	}
	if got := attendee.Params.Get(ical.ParamParticipationStatus); got != "ACCEPTED" {
		t.Errorf("PARTSTAT = %q, want ACCEPTED", got)
	}
	if !strings.EqualFold(attendee.Value, "mailto:guest@example.com") {
		t.Errorf("ATTENDEE = %q", attendee.Value)
	}

	organizer := event.Props.Get(ical.PropOrganizer)
	if organizer == nil || !strings.EqualFold(organizer.Value, "mailto:host@example.com") {
		t.Errorf("ORGANIZER = %v", organizer)
	}
}

func TestBuild_Cancelled(t *testing.T) {
	inv := baseInvite()
	inv.Status = StatusCancelled
	inv.Method = MethodCancel
	inv.Sequence = 3

	doc, err := Build(inv)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	cal, event := decodeEvent(t, doc)

	if got := propValue(cal.Component, ical.PropMethod); got != "CANCEL" {
		t.Errorf("METHOD = %q, want CANCEL", got)
	}
	if got := propValue(event, ical.PropStatus); got != "CANCELLED" {
		t.Errorf("STATUS = %q", got)
	}
	if got := propValue(event, ical.PropSequence); got != "3" {
		t.Errorf("SEQUENCE = %q, want 3", got)
	}
	if got := propValue(event, ical.PropTransparency); got != "TRANSPARENT" {
		t.Errorf("TRANSP = %q", got)
	}
	if got := propValue(event, propBusyStatus); got != "FREE" {
		t.Errorf("busy status = %q", got)
	}
	if got := event.Props.Get(ical.PropAttendee).Params.Get(ical.ParamParticipationStatus); got != "DECLINED" {
		t.Errorf("PARTSTAT = %q, want DECLINED", got)
	}
}

func TestBuild_OptionalFields(t *testing.T) {
	inv := baseInvite()
	inv.Description = "Agenda: intro, pricing"
	inv.Location = "https://meet.example.com/abc"

	doc, err := Build(inv)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	_, event := decodeEvent(t, doc)

	desc, err := event.Props.Text(ical.PropDescription)
	if err != nil || desc != inv.Description {
		t.Errorf("DESCRIPTION = %q (%v)", desc, err)
	}
	if got := propValue(event, ical.PropLocation); got != inv.Location {
		t.Errorf("LOCATION = %q", got)
	}

	doc, _ = Build(baseInvite())
	_, event = decodeEvent(t, doc)
	if event.Props.Get(ical.PropDescription) != nil || event.Props.Get(ical.PropLocation) != nil {
		t.Error("empty description and location must be omitted")
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Invite)
		want   error
	}{
		{"missing uid", func(i *Invite) { i.UID = " " }, ErrMissingUID},
		{"missing organizer", func(i *Invite) { i.Organizer.Email = "" }, ErrMissingOrganizerEmail},
		{"missing attendee", func(i *Invite) { i.Attendee.Email = "" }, ErrMissingAttendeeEmail},
		{"end equals start", func(i *Invite) { i.End = i.Start }, ErrInvalidTimeRange},
		{"end before start", func(i *Invite) { i.End = i.Start.Add(-time.Minute) }, ErrInvalidTimeRange},
		{"negative sequence", func(i *Invite) { i.Sequence = -1 }, ErrInvalidSequence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := baseInvite()
			tt.mutate(&inv)

			doc, err := Build(inv)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if doc != nil {
				t.Error("document must be nil on error")
			}
		})
	}
}

func TestNextSequence(t *testing.T) {
	tests := []struct {
		seq, bump, want int
	}{
		{0, 0, 0},
		{0, 1, 1},
		{41, 1, 42},
		{MaxSequence - 1, 1, MaxSequence},
		{MaxSequence, 1, MaxSequence},
		{MaxSequence, 0, MaxSequence},
		{-5, 1, 1},
	}

	for _, tt := range tests {
		if got := NextSequence(tt.seq, tt.bump); got != tt.want {
			t.Errorf("NextSequence(%d, %d) = %d, want %d", tt.seq, tt.bump, got, tt.want)
		}
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType(MethodCancel); got != "text/calendar; charset=utf-8; method=CANCEL" {
		t.Errorf("ContentType = %q", got)
	}
}
