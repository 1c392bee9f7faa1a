package campaign

import (
	"regexp"

	apperrors "github.com/sendlens/sendlens/internal/errors"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	markupPattern = regexp.MustCompile(`<[^>]+>`)
	timePattern   = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// allowedTimezones is the fixed set of zone names the platform
// schedules against.
var allowedTimezones = map[string]struct{}{
	"America/New_York":    {},
	"America/Chicago":     {},
	"America/Denver":      {},
	"America/Phoenix":     {},
	"America/Los_Angeles": {},
	"America/Anchorage":   {},
	"Pacific/Honolulu":    {},
	"America/Toronto":     {},
	"America/Vancouver":   {},
	"America/Mexico_City": {},
	"America/Sao_Paulo":   {},
	"Europe/London":       {},
	"Europe/Dublin":       {},
	"Europe/Paris":        {},
	"Europe/Berlin":       {},
	"Europe/Madrid":       {},
	"Europe/Rome":         {},
	"Europe/Amsterdam":    {},
	"Europe/Stockholm":    {},
	"Europe/Warsaw":       {},
	"Asia/Dubai":          {},
	"Asia/Kolkata":        {},
	"Asia/Singapore":      {},
	"Asia/Tokyo":          {},
	"Asia/Shanghai":       {},
	"Asia/Hong_Kong":      {},
	"Australia/Sydney":    {},
	"Australia/Melbourne": {},
	"Pacific/Auckland":    {},
	"UTC":                 {},
}

// validateFormat checks shape and format of the resolved caller input:
// sender address syntax, plain-text body, known timezone, and 24-hour
// HH:MM window bounds.
func validateFormat(spec *Spec) error {
	for _, email := range spec.EmailList {
		if !emailPattern.MatchString(email) {
			return apperrors.NewValidation("email_list", email, "not a valid email address")
		}
	}

	if markupPattern.MatchString(spec.Body) {
		return apperrors.NewValidation("body", spec.Body, "HTML markup is not allowed; supply plain text")
	}

	if spec.Timezone != "" {
		if _, ok := allowedTimezones[spec.Timezone]; !ok {
			return apperrors.NewValidation("timezone", spec.Timezone, "not a supported IANA timezone")
		}
	}
	if spec.StartTime != "" && !timePattern.MatchString(spec.StartTime) {
		return apperrors.NewValidation("start_time", spec.StartTime, "must be 24-hour HH:MM")
	}
	if spec.EndTime != "" && !timePattern.MatchString(spec.EndTime) {
		return apperrors.NewValidation("end_time", spec.EndTime, "must be 24-hour HH:MM")
	}
	if spec.SequenceSteps < 0 {
		return apperrors.NewValidation("sequence_steps", spec.SequenceSteps, "must be at least 1")
	}
	if spec.StepDelayDays < 0 {
		return apperrors.NewValidation("step_delay_days", spec.StepDelayDays, "must not be negative")
	}
	return nil
}
