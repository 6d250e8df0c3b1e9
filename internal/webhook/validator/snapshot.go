package validator

import (
	"errors"
	"fmt"

	"calnotify/pkg/logger"
	"calnotify/pkg/model"

	"github.com/go-playground/validator/v10"
)

// skipReasons maps a failing field and tag onto the reason reported to the
// webhook sender.
var skipReasons = map[string]string{
	"StartTime.required":     "missing start time",
	"EndTime.required":       "missing end time",
	"EndTime.gtfield":        "end time must be after start time",
	"AttendeeEmail.required": "missing attendee email",
	"AttendeeEmail.email":    "invalid attendee email",
	"HostEmail.required":     "missing host email",
	"HostEmail.email":        "invalid host email",
}

type SnapshotValidator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewSnapshotValidator(log *logger.Logger) *SnapshotValidator {
	return &SnapshotValidator{
		validate: validator.New(),
		log:      log,
	}
}

// SkipReason returns "" when the snapshot carries everything needed to send
// a notification. Otherwise it describes the first failing field in
// declaration order.
func (v *SnapshotValidator) SkipReason(s *model.BookingSnapshot) string {
	err := v.validate.Struct(s)
	if err == nil {
		return ""
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		v.log.Error("Unexpected snapshot validation failure", "error", err)
		return "invalid booking payload"
	}

	first := validationErrs[0]
	if reason, ok := skipReasons[first.Field()+"."+first.Tag()]; ok {
		return reason
	}
	return fmt.Sprintf("invalid %s", first.Field())
}
