package calendar

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-ical"
)

const (
	ProductID = "-//calnotify//Booking Notifications//EN"

	propBusyStatus = "X-MICROSOFT-CDO-BUSYSTATUS"

	// MaxSequence is the largest SEQUENCE an iCalendar INTEGER can carry.
	MaxSequence = math.MaxInt32
)

type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

type Method string

const (
	MethodRequest Method = "REQUEST"
	MethodCancel  Method = "CANCEL"
)

var (
	ErrMissingOrganizerEmail = errors.New("calendar: organizer email is required")
	ErrMissingAttendeeEmail  = errors.New("calendar: attendee email is required")
	ErrMissingUID            = errors.New("calendar: uid is required")
	ErrInvalidTimeRange      = errors.New("calendar: end must be after start")
	ErrInvalidSequence       = errors.New("calendar: sequence out of range")
)

// NextSequence returns seq advanced by bump, saturating at MaxSequence.
func NextSequence(seq, bump int) int {
	if seq < 0 {
		seq = 0
	}
	if seq > MaxSequence-bump {
		return MaxSequence
	}
	return seq + bump
}

type Person struct {
	Name  string
	Email string
}

// Invite is everything needed to render one VEVENT. Stamp defaults to the
// current time when zero.
type Invite struct {
	UID         string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Organizer   Person
	Attendee    Person
	Sequence    int
	Status      Status
	Method      Method
	Stamp       time.Time
}

func (inv Invite) validate() error {
	if strings.TrimSpace(inv.UID) == "" {
		return ErrMissingUID
	}
	if strings.TrimSpace(inv.Organizer.Email) == "" {
		return ErrMissingOrganizerEmail
	}
	if strings.TrimSpace(inv.Attendee.Email) == "" {
		return ErrMissingAttendeeEmail
	}
	if !inv.End.After(inv.Start) {
		return ErrInvalidTimeRange
	}
	if inv.Sequence < 0 || inv.Sequence > MaxSequence {
		return ErrInvalidSequence
	}
	return nil
}

// Build renders inv as a single-event iCalendar document.
func Build(inv Invite) ([]byte, error) {
	if err := inv.validate(); err != nil {
		return nil, err
	}

	method := inv.Method
	if method == "" {
		method = MethodRequest
	}
	status := inv.Status
	if status == "" {
		status = StatusConfirmed
	}
	stamp := inv.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, ProductID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText(ical.PropMethod, string(method))

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, inv.UID)
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, inv.Start.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, inv.End.UTC())
	event.Props.SetText(ical.PropSummary, inv.Title)
	if inv.Description != "" {
		event.Props.SetText(ical.PropDescription, inv.Description)
	}
	if inv.Location != "" {
		event.Props.SetText(ical.PropLocation, inv.Location)
	}
	event.Props.SetText(ical.PropStatus, string(status))
	event.Props.Set(rawProp(ical.PropSequence, strconv.Itoa(inv.Sequence)))

	partStat, transparency, busy := "ACCEPTED", "OPAQUE", "BUSY"
	if status == StatusCancelled {
		partStat, transparency, busy = "DECLINED", "TRANSPARENT", "FREE"
	}
	event.Props.SetText(ical.PropTransparency, transparency)
	event.Props.Set(rawProp(propBusyStatus, busy))

	event.Props.Set(organizerProp(inv.Organizer))
	event.Props.Add(attendeeProp(inv.Attendee, partStat))

	cal.Children = append(cal.Children, event.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("calendar: encode invite: %w", err)
	}

	return buf.Bytes(), nil
}

// ContentType is the MIME type mail clients need to treat the attachment as
// an actionable invite.
func ContentType(method Method) string {
	return "text/calendar; charset=utf-8; method=" + string(method)
}

// rawProp skips the VALUE parameter SetText adds for names go-ical has no
// default type for.
func rawProp(name, value string) *ical.Prop {
	prop := ical.NewProp(name)
	prop.Value = value
	return prop
}

func organizerProp(p Person) *ical.Prop {
	prop := ical.NewProp(ical.PropOrganizer)
	prop.Value = mailto(p.Email)
	if p.Name != "" {
		prop.Params.Set(ical.ParamCommonName, p.Name)
	}
	return prop
}

func attendeeProp(p Person, partStat string) *ical.Prop {
	prop := ical.NewProp(ical.PropAttendee)
	prop.Value = mailto(p.Email)
	if p.Name != "" {
		prop.Params.Set(ical.ParamCommonName, p.Name)
	}
	prop.Params.Set(ical.ParamRole, "REQ-PARTICIPANT")
	prop.Params.Set(ical.ParamParticipationStatus, partStat)
	prop.Params.Set(ical.ParamRSVP, "FALSE")
	return prop
}

func mailto(email string) string {
	return "mailto:" + strings.TrimSpace(email)
}
