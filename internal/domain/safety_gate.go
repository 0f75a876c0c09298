package domain

import "time"

const (
	// DailyLimit is the number of downloads after which the gate locks
	DailyLimit uint32 = 40
	// WarningThreshold is the count at which the gate starts warning
	WarningThreshold uint32 = 25
	// DateLayout is the layout of the persisted count date
	DateLayout = "2006-01-02"
)

// GateStatus is the derived state of the safety gate
type GateStatus string

const (
	GateOpen    GateStatus = "Open"
	GateWarning GateStatus = "Warning"
	GateLocked  GateStatus = "Locked"
)

// SafetyGateData is the persisted daily download counter
type SafetyGateData struct {
	DailyCount    uint32  `json:"daily_count"`
	CountDate     *string `json:"count_date"`
	BypassEnabled bool    `json:"bypass_enabled"`
}

// Today formats the local calendar date of now
func Today(now time.Time) string {
	return now.Local().Format(DateLayout)
}

// CheckDailyReset zeroes the counter and clears the bypass when the data was
// last touched on another day.
func (d SafetyGateData) CheckDailyReset(now time.Time) SafetyGateData {
	today := Today(now)
	if d.CountDate == nil || *d.CountDate != today {
		d.DailyCount = 0
		d.CountDate = &today
		d.BypassEnabled = false
	}
	return d
}

// Increment records one successful download for today
func (d SafetyGateData) Increment(now time.Time) SafetyGateData {
	d = d.CheckDailyReset(now)
	if d.DailyCount < ^uint32(0) {
		d.DailyCount++
	}
	return d
}

// WithBypass returns a copy with the bypass flag set
func (d SafetyGateData) WithBypass(now time.Time, enabled bool) SafetyGateData {
	d = d.CheckDailyReset(now)
	d.BypassEnabled = enabled
	return d
}

// Status derives the gate status from the counter and bypass flag
func (d SafetyGateData) Status() GateStatus {
	if d.BypassEnabled {
		return GateOpen
	}
	switch {
	case d.DailyCount >= DailyLimit:
		return GateLocked
	case d.DailyCount >= WarningThreshold:
		return GateWarning
	default:
		return GateOpen
	}
}

// GateSnapshot is a read-only view of the gate for display
type GateSnapshot struct {
	Count            uint32     `json:"count"`
	Status           GateStatus `json:"status"`
	BypassEnabled    bool       `json:"bypassEnabled"`
	Date             string     `json:"date"`
	DailyLimit       uint32     `json:"dailyLimit"`
	WarningThreshold uint32     `json:"warningThreshold"`
}

// Snapshot builds a display view of the data
func (d SafetyGateData) Snapshot() GateSnapshot {
	date := ""
	if d.CountDate != nil {
		date = *d.CountDate
	}
	return GateSnapshot{
		Count:            d.DailyCount,
		Status:           d.Status(),
		BypassEnabled:    d.BypassEnabled,
		Date:             date,
		DailyLimit:       DailyLimit,
		WarningThreshold: WarningThreshold,
	}
}
