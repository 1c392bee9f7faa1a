package campaign

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool {
	return &v
}

func TestNormalizeTextEscapesEveryNewlineForm(t *testing.T) {
	require.Equal(t, `line one\nline two`, NormalizeText("line one\nline two"))
	require.Equal(t, `a\nb\nc`, NormalizeText("a\r\nb\rc"))
	require.Equal(t, "untouched", NormalizeText("untouched"))
}

func TestBuildDaysDefaultsToWeekdays(t *testing.T) {
	days := BuildDays(DayOverrides{})

	require.Equal(t, map[string]bool{
		"1": true, "2": true, "3": true, "4": true, "5": true,
	}, days)
}

func TestBuildDaysAppliesOverridesSparsely(t *testing.T) {
	days := BuildDays(DayOverrides{
		Monday:   boolPtr(false),
		Saturday: boolPtr(true),
	})

	require.Equal(t, map[string]bool{
		"2": true, "3": true, "4": true, "5": true, "6": true,
	}, days)
	_, present := days["1"]
	require.False(t, present, "disabled days are omitted, not false")
}

func TestBuildDaysAllDisabledFallsBackToDefault(t *testing.T) {
	off := boolPtr(false)
	days := BuildDays(DayOverrides{
		Sunday: off, Monday: off, Tuesday: off, Wednesday: off,
		Thursday: off, Friday: off, Saturday: off,
	})

	require.Equal(t, map[string]bool{
		"1": true, "2": true, "3": true, "4": true, "5": true,
	}, days)
}

func TestBuildSequenceGeneratesFollowUps(t *testing.T) {
	steps := BuildSequence("Hello", "First line\nSecond line", 3, 2)

	require.Len(t, steps, 3)

	require.Equal(t, "email", steps[0].Type)
	require.Equal(t, 0, steps[0].Delay)
	require.Equal(t, "Hello", steps[0].Variants[0].Subject)
	require.Equal(t, `First line\nSecond line`, steps[0].Variants[0].Body)

	require.Equal(t, 2, steps[1].Delay)
	require.Equal(t, "Follow-up 1: Hello", steps[1].Variants[0].Subject)
	require.Equal(t, `This is follow-up #1.\n\nFirst line\nSecond line`, steps[1].Variants[0].Body)

	require.Equal(t, 2, steps[2].Delay)
	require.Equal(t, "Follow-up 2: Hello", steps[2].Variants[0].Subject)
}

func TestBuildSequenceClampsStepCountAndDelay(t *testing.T) {
	steps := BuildSequence("S", "B", 0, 0)
	require.Len(t, steps, 1)

	steps = BuildSequence("S", "B", 2, 0)
	require.Equal(t, DefaultStepDelayDays, steps[1].Delay)
}

func TestBuildPayloadAppliesDefaults(t *testing.T) {
	payload := BuildPayload(Spec{
		Name:      "Launch",
		Subject:   "Hello",
		Body:      "World",
		EmailList: []string{"a@b.com"},
	})

	require.Equal(t, "Launch", payload.Name)
	require.Equal(t, DefaultDailyLimit, payload.DailyLimit)
	require.Equal(t, DefaultEmailGap, payload.EmailGap)
	require.True(t, payload.StopOnReply)
	require.False(t, payload.OpenTracking)
	require.False(t, payload.LinkTracking)

	require.Len(t, payload.CampaignSchedule.Schedules, 1)
	block := payload.CampaignSchedule.Schedules[0]
	require.Equal(t, "Default Schedule", block.Name)
	require.Equal(t, DefaultTimezone, block.Timezone)
	require.Equal(t, DefaultStartTime, block.Timing.From)
	require.Equal(t, DefaultEndTime, block.Timing.To)
}

func TestBuildPayloadHonorsExplicitFalseToggles(t *testing.T) {
	payload := BuildPayload(Spec{
		Name:         "Launch",
		Subject:      "Hello",
		Body:         "World",
		EmailList:    []string{"a@b.com"},
		StopOnReply:  boolPtr(false),
		OpenTracking: boolPtr(true),
	})

	require.False(t, payload.StopOnReply, "explicit false must survive defaulting")
	require.True(t, payload.OpenTracking)
}

func TestPayloadWireShape(t *testing.T) {
	payload := BuildPayload(Spec{
		Name:      "Launch",
		Subject:   "Hello",
		Body:      "Line one\nLine two",
		EmailList: []string{"a@b.com"},
	})

	encoded, err := json.Marshal(payload)
	require.NoError(t, err)

	body := string(encoded)
	require.Contains(t, body, `"campaign_schedule"`)
	require.Contains(t, body, `"email_gap"`)
	require.Contains(t, body, `"stop_on_reply"`)
	// The literal backslash-n survives JSON encoding as an escaped
	// backslash followed by n.
	require.Contains(t, body, `Line one\\nLine two`)
	require.False(t, strings.Contains(body, "\n"))
}
