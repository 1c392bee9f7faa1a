// Package campaign assembles create-campaign payloads from partial
// caller input: shorthand message resolution, sender auto-discovery,
// schedule encoding, text normalization, and follow-up step generation.
package campaign

import "strings"

// Defaults applied during assembly when the caller leaves a field
// unset.
const (
	DefaultTimezone      = "America/New_York"
	DefaultStartTime     = "09:00"
	DefaultEndTime       = "17:00"
	DefaultDailyLimit    = 50
	DefaultEmailGap      = 10
	DefaultStepDelayDays = 3
)

// Spec is the partial caller input for campaign creation. Optional
// boolean toggles are pointers so an explicit false survives
// defaulting.
type Spec struct {
	Name    string
	Subject string
	Body    string

	// Message is an optional combined shorthand resolved into
	// subject/body when either is missing.
	Message string

	// EmailList holds sender addresses. Empty triggers auto-discovery
	// of the single best eligible account.
	EmailList []string

	Timezone  string
	StartTime string
	EndTime   string
	Days      DayOverrides

	SequenceSteps int
	StepDelayDays int

	DailyLimit      int
	EmailGapMinutes int
	StopOnReply     *bool
	OpenTracking    *bool
	LinkTracking    *bool
	TextOnly        bool

	// Guided stops short of creating anything and returns the eligible
	// account listing instead; an interactive checkpoint, not an error.
	Guided bool
}

// DayOverrides carries explicit per-weekday schedule flags. Nil means
// "use the default": Monday through Friday on, weekend off.
type DayOverrides struct {
	Sunday    *bool
	Monday    *bool
	Tuesday   *bool
	Wednesday *bool
	Thursday  *bool
	Friday    *bool
	Saturday  *bool
}

// SplitMessage resolves a combined shorthand into a subject/body pair,
// splitting at the earlier of the first period or the first newline.
// When neither exists the whole string becomes the subject and the body
// falls back to the subject.
func SplitMessage(message string) (subject, body string) {
	message = strings.TrimSpace(message)

	dot := strings.Index(message, ".")
	newline := strings.Index(message, "\n")

	cut := -1
	keepDelimiter := false
	switch {
	case dot >= 0 && (newline < 0 || dot < newline):
		cut = dot
		keepDelimiter = true
	case newline >= 0:
		cut = newline
	}

	if cut < 0 {
		return message, message
	}

	subject = strings.TrimSpace(message[:cut])
	if keepDelimiter {
		subject = strings.TrimSpace(message[:cut+1])
	}
	body = strings.TrimSpace(message[cut+1:])
	if body == "" {
		body = subject
	}
	return subject, body
}

// applyMessageShortcut fills subject/body from the combined message,
// touching only fields still missing.
func (s *Spec) applyMessageShortcut() {
	if s.Message == "" || (s.Subject != "" && s.Body != "") {
		return
	}
	subject, body := SplitMessage(s.Message)
	if s.Subject == "" {
		s.Subject = subject
	}
	if s.Body == "" {
		s.Body = body
	}
}

// missingFields lists the required fields still absent after message
// resolution and sender discovery.
func (s *Spec) missingFields() []string {
	var missing []string
	if strings.TrimSpace(s.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(s.Subject) == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(s.Body) == "" {
		missing = append(missing, "body")
	}
	if len(s.EmailList) == 0 {
		missing = append(missing, "email_list")
	}
	return missing
}
