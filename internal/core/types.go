package core

import "time"

// Account is a sending identity as reported by the remote inventory.
// Fields are sourced verbatim from the platform; this system never
// mutates them.
type Account struct {
	Email        string   `json:"email"`
	Status       int      `json:"status"`
	SetupPending bool     `json:"setup_pending"`
	WarmupStatus int      `json:"warmup_status"`
	WarmupScore  *float64 `json:"stat_warmup_score,omitempty"`
}

// Eligible reports whether the account satisfies every sending
// predicate: active status, setup complete, warmup active, and a
// non-empty address.
func (a Account) Eligible() bool {
	return a.Status == 1 && !a.SetupPending && a.WarmupStatus == 1 && a.Email != ""
}

// Score returns the warmup score, or 0 when the platform did not
// report one.
func (a Account) Score() float64 {
	if a.WarmupScore == nil {
		return 0
	}
	return *a.WarmupScore
}

// AccountDiagnostic is the per-account dump attached to eligibility
// failures so callers can see why each identity was rejected.
type AccountDiagnostic struct {
	Email        string   `json:"email"`
	Status       int      `json:"status"`
	SetupPending bool     `json:"setup_pending"`
	WarmupStatus int      `json:"warmup_status"`
	WarmupScore  *float64 `json:"warmup_score,omitempty"`
}

// Diagnostic converts an account into its failure-report form.
func (a Account) Diagnostic() AccountDiagnostic {
	return AccountDiagnostic{
		Email:        a.Email,
		Status:       a.Status,
		SetupPending: a.SetupPending,
		WarmupStatus: a.WarmupStatus,
		WarmupScore:  a.WarmupScore,
	}
}

// QuotaWindow is the most recently observed rate-limit state reported
// by the platform. The zero value means "unknown, assume not limited".
type QuotaWindow struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}
