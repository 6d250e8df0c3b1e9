package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	webhookerrors "calnotify/internal/webhook/errors"
	"calnotify/pkg/calendar"
	"calnotify/pkg/model"
	"calnotify/pkg/sanitizer"

	"github.com/google/uuid"
)

// Candidate source keys per field, in precedence order. Dotted paths descend
// into nested objects; numeric segments index arrays.
var (
	triggerKeys      = []string{"triggerEvent", "trigger", "event", "type"}
	titleKeys        = []string{"title", "eventTitle", "eventType.title"}
	descriptionKeys  = []string{"description", "additionalNotes"}
	startKeys        = []string{"startTime", "start", "start_time"}
	endKeys          = []string{"endTime", "end", "end_time"}
	attendeeNameKeys = []string{"attendeeName", "attendees.0.name", "attendee.name"}
	attendeeMailKeys = []string{"attendeeEmail", "attendees.0.email", "attendee.email"}
	attendeeTZKeys   = []string{"attendeeTimeZone", "attendees.0.timeZone", "attendee.timeZone"}
	hostNameKeys     = []string{"hostName", "organizer.name"}
	hostMailKeys     = []string{"hostEmail", "organizer.email"}
	hostUserKeys     = []string{"hostUsername", "organizer.username"}
	locationKeys     = []string{"meetingUrl", "videoCallData.url", "metadata.videoCallUrl", "location"}
	uidKeys          = []string{"iCalUID", "uid", "bookingUid", "bookingId"}
	sequenceKeys     = []string{"iCalSequence", "sequence"}
	cancelReasonKeys = []string{"cancellationReason", "cancelReason"}
)

const defaultTitle = "Booking"

// Parse decodes a webhook body. Only a body that is not a JSON object is an
// error; absent fields are left zero for the validator to report.
func Parse(body []byte) (*model.WebhookEvent, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var root map[string]any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", webhookerrors.ErrMalformedPayload, err)
	}
	if root == nil {
		return nil, webhookerrors.ErrMalformedPayload
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after object", webhookerrors.ErrMalformedPayload)
	}

	booking := root
	if nested, ok := root["payload"].(map[string]any); ok {
		booking = nested
	}

	rawTrigger := firstString(root, triggerKeys)
	if rawTrigger == "" {
		rawTrigger = firstString(booking, triggerKeys)
	}

	return &model.WebhookEvent{
		TriggerEvent: rawTrigger,
		Trigger:      model.ClassifyTrigger(rawTrigger),
		Booking:      extractSnapshot(booking),
	}, nil
}

func extractSnapshot(m map[string]any) model.BookingSnapshot {
	s := model.BookingSnapshot{
		Title:              sanitizer.NormalizeName(firstString(m, titleKeys)),
		Description:        strings.TrimSpace(firstString(m, descriptionKeys)),
		StartTime:          firstTime(m, startKeys),
		EndTime:            firstTime(m, endKeys),
		AttendeeName:       sanitizer.NormalizeName(firstString(m, attendeeNameKeys)),
		AttendeeEmail:      sanitizer.NormalizeEmail(firstString(m, attendeeMailKeys)),
		AttendeeTimeZone:   strings.TrimSpace(firstString(m, attendeeTZKeys)),
		HostName:           sanitizer.NormalizeName(firstString(m, hostNameKeys)),
		HostEmail:          sanitizer.NormalizeEmail(firstString(m, hostMailKeys)),
		HostUsername:       sanitizer.NormalizeUsername(firstString(m, hostUserKeys)),
		Location:           sanitizer.NormalizeLocation(firstString(m, locationKeys)),
		UID:                strings.TrimSpace(firstString(m, uidKeys)),
		Sequence:           firstSequence(m, sequenceKeys),
		CancellationReason: strings.TrimSpace(firstString(m, cancelReasonKeys)),
	}

	if s.Title == "" {
		s.Title = defaultTitle
	}

	if s.UID == "" {
		s.UID = FallbackUID(s.HostEmail, s.StartTime)
	}

	return s
}

// FallbackUID derives a stable identifier for bookings delivered without one,
// so every redelivery of the same slot maps to the same calendar object.
func FallbackUID(hostEmail string, start time.Time) string {
	if hostEmail == "" || start.IsZero() {
		return ""
	}
	name := hostEmail + "|" + start.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func lookup(m map[string]any, path string) (any, bool) {
	var cur any = m
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

func firstString(m map[string]any, keys []string) string {
	for _, key := range keys {
		v, ok := lookup(m, key)
		if !ok {
			continue
		}
		var s string
		switch val := v.(type) {
		case string:
			s = val
		case json.Number:
			s = val.String()
		}
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func firstTime(m map[string]any, keys []string) time.Time {
	for _, key := range keys {
		v, ok := lookup(m, key)
		if !ok {
			continue
		}
		if t, ok := toTime(v); ok {
			return t.UTC()
		}
	}
	return time.Time{}
}

func toTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, true
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms), true
		}
	case json.Number:
		if ms, err := val.Int64(); err == nil {
			return time.UnixMilli(ms), true
		}
	}
	return time.Time{}, false
}

// firstSequence reads a non-negative sequence. Values past the iCalendar
// INTEGER range are clamped to calendar.MaxSequence.
func firstSequence(m map[string]any, keys []string) int {
	for _, key := range keys {
		v, ok := lookup(m, key)
		if !ok {
			continue
		}
		var n int64
		var err error
		switch val := v.(type) {
		case json.Number:
			n, err = val.Int64()
		case string:
			n, err = strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		default:
			continue
		}
		if errors.Is(err, strconv.ErrRange) && n > 0 {
			return calendar.MaxSequence
		}
		if err == nil && n >= 0 {
			return int(min(n, calendar.MaxSequence))
		}
	}
	return 0
}
