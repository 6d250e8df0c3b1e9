package service

import (
	"context"
	"errors"
	"time"

	webhookerrors "calnotify/internal/webhook/errors"
	"calnotify/internal/webhook/payload"
	"calnotify/internal/webhook/templates"
	"calnotify/internal/webhook/validator"
	"calnotify/pkg/calendar"
	"calnotify/pkg/email"
	apperrors "calnotify/pkg/errors"
	"calnotify/pkg/kafka"
	"calnotify/pkg/logger"
	"calnotify/pkg/model"
	"calnotify/pkg/sanitizer"
)

const (
	StatusHandled = "handled"
	StatusIgnored = "ignored"
	StatusSkipped = "skipped"

	inviteFileName = "invite.ics"
)

// Result is the acknowledgement body returned to the webhook sender.
type Result struct {
	Status     string        `json:"status"`
	Trigger    model.Trigger `json:"trigger"`
	Reason     string        `json:"reason,omitempty"`
	BookingUID string        `json:"booking_uid,omitempty"`
	Sequence   *int          `json:"sequence,omitempty"`
	MessageID  string        `json:"message_id,omitempty"`
}

type EmailSender interface {
	Ready() error
	Send(ctx context.Context, msg email.Message) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type NotificationService interface {
	Handle(ctx context.Context, body []byte) (*Result, error)
}

type Options struct {
	ProductName    string
	AppBaseURL     string
	PublishTimeout time.Duration
}

type notificationService struct {
	sender    EmailSender
	publisher EventPublisher
	validator *validator.SnapshotValidator
	opts      Options
	log       *logger.Logger
	now       func() time.Time
}

// NewNotificationService wires the webhook pipeline. publisher may be nil,
// in which case no events are emitted.
func NewNotificationService(
	sender EmailSender,
	publisher EventPublisher,
	validator *validator.SnapshotValidator,
	opts Options,
	log *logger.Logger,
) NotificationService {
	return &notificationService{
		sender:    sender,
		publisher: publisher,
		validator: validator,
		opts:      opts,
		log:       log,
		now:       time.Now,
	}
}

// lifecycle is the per-trigger invite shape.
type lifecycle struct {
	sequenceBump int
	status       calendar.Status
	method       calendar.Method
}

// Created keeps the sequence carried by the sender; later mutations bump it
// by one relative to that value.
var lifecycles = map[model.Trigger]lifecycle{
	model.TriggerCreated:     {sequenceBump: 0, status: calendar.StatusConfirmed, method: calendar.MethodRequest},
	model.TriggerRescheduled: {sequenceBump: 1, status: calendar.StatusConfirmed, method: calendar.MethodRequest},
	model.TriggerCancelled:   {sequenceBump: 1, status: calendar.StatusCancelled, method: calendar.MethodCancel},
}

func (s *notificationService) Handle(ctx context.Context, body []byte) (*Result, error) {
	event, err := payload.Parse(body)
	if err != nil {
		s.log.Warn("Rejected malformed webhook body", "error", err)
		return nil, apperrors.InvalidInput("Malformed JSON body")
	}

	lc, ok := lifecycles[event.Trigger]
	if !ok {
		s.log.Info("Ignoring webhook with unrecognized trigger", "trigger_event", event.TriggerEvent)
		return &Result{Status: StatusIgnored, Trigger: model.TriggerUnknown}, nil
	}

	booking := &event.Booking
	if reason := s.validator.SkipReason(booking); reason != "" {
		s.log.Info("Skipping webhook with incomplete booking",
			"trigger", event.Trigger,
			"booking_uid", booking.UID,
			"reason", reason,
		)
		return &Result{Status: StatusSkipped, Trigger: event.Trigger, Reason: reason, BookingUID: booking.UID}, nil
	}

	if err := s.sender.Ready(); err != nil {
		s.log.Error("Email provider is not configured", "error", err)
		return nil, apperrors.Misconfigured("email provider")
	}

	sequence := calendar.NextSequence(booking.Sequence, lc.sequenceBump)

	invite, err := calendar.Build(calendar.Invite{
		UID:         booking.UID,
		Title:       booking.Title,
		Description: booking.Description,
		Location:    booking.Location,
		Start:       booking.StartTime,
		End:         booking.EndTime,
		Organizer:   calendar.Person{Name: booking.HostName, Email: booking.HostEmail},
		Attendee:    calendar.Person{Name: booking.AttendeeName, Email: booking.AttendeeEmail},
		Sequence:    sequence,
		Status:      lc.status,
		Method:      lc.method,
		Stamp:       s.now(),
	})
	if err != nil {
		s.log.Error("Failed to build calendar invite",
			"trigger", event.Trigger,
			"booking_uid", booking.UID,
			"error", err,
		)
		return nil, apperrors.Upstream("Failed to build calendar invite", errors.Join(webhookerrors.ErrInviteBuild, err))
	}

	rebookURL := ""
	if event.Trigger == model.TriggerCancelled {
		rebookURL = sanitizer.JoinURL(s.opts.AppBaseURL, booking.HostUsername)
	}

	rendered, err := templates.Render(event.Trigger, templates.NewData(booking, s.opts.ProductName, rebookURL))
	if err != nil {
		s.log.Error("Failed to render notification", "trigger", event.Trigger, "error", err)
		return nil, apperrors.Internal("Failed to render notification", err)
	}

	messageID, err := s.sender.Send(ctx, email.Message{
		To:       booking.AttendeeEmail,
		Subject:  rendered.Subject,
		HTMLBody: rendered.HTML,
		TextBody: rendered.Text,
		ReplyTo:  booking.HostEmail,
		Calendar: &email.Attachment{
			Name:        inviteFileName,
			Content:     invite,
			ContentType: calendar.ContentType(lc.method),
		},
	})
	if err != nil {
		s.log.Error("Failed to send notification email",
			"trigger", event.Trigger,
			"booking_uid", booking.UID,
			"error", err,
		)
		return nil, apperrors.Upstream("Failed to send notification email", errors.Join(webhookerrors.ErrEmailSend, err))
	}

	s.log.Info("Notification sent",
		"trigger", event.Trigger,
		"booking_uid", booking.UID,
		"sequence", sequence,
		"message_id", messageID,
	)

	s.publishSent(ctx, event.Trigger, booking, sequence, messageID)

	return &Result{
		Status:     StatusHandled,
		Trigger:    event.Trigger,
		BookingUID: booking.UID,
		Sequence:   &sequence,
		MessageID:  messageID,
	}, nil
}
