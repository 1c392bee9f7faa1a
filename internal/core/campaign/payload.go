package campaign

import (
	"fmt"
	"strings"
)

// Payload is the fully resolved wire form sent to the platform.
type Payload struct {
	Name             string    `json:"name"`
	CampaignSchedule Schedule  `json:"campaign_schedule"`
	EmailList        []string  `json:"email_list"`
	DailyLimit       int       `json:"daily_limit"`
	EmailGap         int       `json:"email_gap"`
	StopOnReply      bool      `json:"stop_on_reply"`
	OpenTracking     bool      `json:"open_tracking"`
	LinkTracking     bool      `json:"link_tracking"`
	TextOnly         bool      `json:"text_only"`
	Sequences        []Sequence `json:"sequences"`
}

// Schedule is the wire schedule block.
type Schedule struct {
	Schedules []ScheduleBlock `json:"schedules"`
}

// ScheduleBlock is one named sending window.
type ScheduleBlock struct {
	Name     string          `json:"name"`
	Timing   Timing          `json:"timing"`
	Days     map[string]bool `json:"days"`
	Timezone string          `json:"timezone"`
}

// Timing is a 24-hour time-of-day window.
type Timing struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Sequence is an ordered list of timed sends.
type Sequence struct {
	Steps []Step `json:"steps"`
}

// Step is one timed email send with its subject/body variant.
type Step struct {
	Type     string    `json:"type"`
	Delay    int       `json:"delay"`
	Variants []Variant `json:"variants"`
}

// Variant is one subject/body pair.
type Variant struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// textEscaper rewrites every newline form to the literal two-character
// escape so the payload stays single-line-safe however the platform
// renders it.
var textEscaper = strings.NewReplacer("\r\n", `\n`, "\r", `\n`, "\n", `\n`)

// NormalizeText rewrites carriage-return/newline sequences in subject
// and body text to the literal \n escape.
func NormalizeText(text string) string {
	return textEscaper.Replace(text)
}

// BuildDays resolves the explicit per-weekday overrides against the
// Monday-Friday default into the sparse wire encoding: day indexes
// 0 (Sunday) through 6 (Saturday), true entries only. A campaign must
// never schedule zero days, so an override set that disables everything
// falls back to the default.
func BuildDays(overrides DayOverrides) map[string]bool {
	selected := resolveDays(overrides)
	if !anyDay(selected) {
		selected = resolveDays(DayOverrides{})
	}

	days := make(map[string]bool, 7)
	for index, on := range selected {
		if on {
			days[fmt.Sprintf("%d", index)] = true
		}
	}
	return days
}

// resolveDays returns the seven-day flag array indexed 0=Sunday.
func resolveDays(overrides DayOverrides) [7]bool {
	// Monday-Friday on by default.
	selected := [7]bool{false, true, true, true, true, true, false}

	flags := [7]*bool{
		overrides.Sunday,
		overrides.Monday,
		overrides.Tuesday,
		overrides.Wednesday,
		overrides.Thursday,
		overrides.Friday,
		overrides.Saturday,
	}
	for index, flag := range flags {
		if flag != nil {
			selected[index] = *flag
		}
	}
	return selected
}

func anyDay(selected [7]bool) bool {
	for _, on := range selected {
		if on {
			return true
		}
	}
	return false
}

// BuildSequence generates the ordered step list. Step one is the
// primary subject/body pair with zero delay; later steps carry the
// inter-step delay and a mechanically derived follow-up variant. All
// text passes through NormalizeText.
func BuildSequence(subject, body string, steps, delayDays int) []Step {
	if steps < 1 {
		steps = 1
	}
	if delayDays <= 0 {
		delayDays = DefaultStepDelayDays
	}

	sequence := make([]Step, 0, steps)
	sequence = append(sequence, Step{
		Type:  "email",
		Delay: 0,
		Variants: []Variant{{
			Subject: NormalizeText(subject),
			Body:    NormalizeText(body),
		}},
	})

	for i := 1; i < steps; i++ {
		followUpSubject := fmt.Sprintf("Follow-up %d: %s", i, subject)
		followUpBody := fmt.Sprintf("This is follow-up #%d.\n\n%s", i, body)
		sequence = append(sequence, Step{
			Type:  "email",
			Delay: delayDays,
			Variants: []Variant{{
				Subject: NormalizeText(followUpSubject),
				Body:    NormalizeText(followUpBody),
			}},
		})
	}
	return sequence
}

// BuildPayload assembles the wire payload from a validated spec with
// resolved senders.
func BuildPayload(spec Spec) *Payload {
	timezone := spec.Timezone
	if timezone == "" {
		timezone = DefaultTimezone
	}
	startTime := spec.StartTime
	if startTime == "" {
		startTime = DefaultStartTime
	}
	endTime := spec.EndTime
	if endTime == "" {
		endTime = DefaultEndTime
	}
	dailyLimit := spec.DailyLimit
	if dailyLimit <= 0 {
		dailyLimit = DefaultDailyLimit
	}
	emailGap := spec.EmailGapMinutes
	if emailGap <= 0 {
		emailGap = DefaultEmailGap
	}

	return &Payload{
		Name: spec.Name,
		CampaignSchedule: Schedule{
			Schedules: []ScheduleBlock{{
				Name:     "Default Schedule",
				Timing:   Timing{From: startTime, To: endTime},
				Days:     BuildDays(spec.Days),
				Timezone: timezone,
			}},
		},
		EmailList:    spec.EmailList,
		DailyLimit:   dailyLimit,
		EmailGap:     emailGap,
		StopOnReply:  boolDefault(spec.StopOnReply, true),
		OpenTracking: boolDefault(spec.OpenTracking, false),
		LinkTracking: boolDefault(spec.LinkTracking, false),
		TextOnly:     spec.TextOnly,
		Sequences: []Sequence{{
			Steps: BuildSequence(spec.Subject, spec.Body, spec.SequenceSteps, spec.StepDelayDays),
		}},
	}
}

func boolDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
