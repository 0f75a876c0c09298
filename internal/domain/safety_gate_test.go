package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}

func strPtr(s string) *string { return &s }

func TestSafetyGate_Status(t *testing.T) {
	tests := []struct {
		name   string
		count  uint32
		bypass bool
		want   GateStatus
	}{
		{"fresh", 0, false, GateOpen},
		{"below warning", 24, false, GateOpen},
		{"at warning", 25, false, GateWarning},
		{"below limit", 39, false, GateWarning},
		{"at limit", 40, false, GateLocked},
		{"past limit", 120, false, GateLocked},
		{"bypass at limit", 40, true, GateOpen},
		{"bypass in warning", 30, true, GateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := SafetyGateData{DailyCount: tt.count, BypassEnabled: tt.bypass}
			assert.Equal(t, tt.want, d.Status())
		})
	}
}

func TestSafetyGate_IncrementSequence(t *testing.T) {
	now := day(2026, 10, 18)
	d := SafetyGateData{}

	for i := uint32(1); i <= 45; i++ {
		d = d.Increment(now)
		require.Equal(t, i, d.DailyCount)
		switch {
		case i < WarningThreshold:
			assert.Equal(t, GateOpen, d.Status(), "count %d", i)
		case i < DailyLimit:
			assert.Equal(t, GateWarning, d.Status(), "count %d", i)
		default:
			assert.Equal(t, GateLocked, d.Status(), "count %d", i)
		}
	}
	require.NotNil(t, d.CountDate)
	assert.Equal(t, "2026-10-18", *d.CountDate)
}

func TestSafetyGate_DailyReset(t *testing.T) {
	d := SafetyGateData{DailyCount: 40, CountDate: strPtr("2026-10-17"), BypassEnabled: true}

	reset := d.CheckDailyReset(day(2026, 10, 18))
	assert.Equal(t, uint32(0), reset.DailyCount)
	assert.Equal(t, "2026-10-18", *reset.CountDate)
	assert.False(t, reset.BypassEnabled, "bypass is cleared on a new day")
	assert.Equal(t, GateOpen, reset.Status())

	// original value is untouched
	assert.Equal(t, uint32(40), d.DailyCount)
	assert.True(t, d.BypassEnabled)

	stale := SafetyGateData{DailyCount: 41, CountDate: strPtr("2000-01-01"), BypassEnabled: true}.CheckDailyReset(day(2026, 10, 18))
	assert.Equal(t, uint32(0), stale.DailyCount)
	assert.False(t, stale.BypassEnabled)

	sameDay := SafetyGateData{DailyCount: 41, CountDate: strPtr("2026-10-18"), BypassEnabled: true}.CheckDailyReset(day(2026, 10, 18))
	assert.True(t, sameDay.BypassEnabled)
	assert.Equal(t, uint32(41), sameDay.DailyCount)

	same := SafetyGateData{DailyCount: 12, CountDate: strPtr("2026-10-18")}.CheckDailyReset(day(2026, 10, 18))
	assert.Equal(t, uint32(12), same.DailyCount)

	missing := SafetyGateData{DailyCount: 7}.CheckDailyReset(day(2026, 10, 18))
	assert.Equal(t, uint32(0), missing.DailyCount)
	assert.Equal(t, "2026-10-18", *missing.CountDate)
}

func TestSafetyGate_IncrementAcrossMidnight(t *testing.T) {
	d := SafetyGateData{DailyCount: 39, CountDate: strPtr("2026-10-17")}
	d = d.Increment(day(2026, 10, 18))
	assert.Equal(t, uint32(1), d.DailyCount)
	assert.Equal(t, GateOpen, d.Status())
}

func TestSafetyGate_IncrementSaturates(t *testing.T) {
	d := SafetyGateData{DailyCount: ^uint32(0), CountDate: strPtr("2026-10-18")}
	d = d.Increment(day(2026, 10, 18))
	assert.Equal(t, ^uint32(0), d.DailyCount)
}

func TestSafetyGate_WithBypass(t *testing.T) {
	d := SafetyGateData{DailyCount: 41, CountDate: strPtr("2026-10-18")}
	on := d.WithBypass(day(2026, 10, 18), true)
	assert.Equal(t, GateOpen, on.Status())
	assert.Equal(t, uint32(41), on.DailyCount)

	off := on.WithBypass(day(2026, 10, 18), false)
	assert.Equal(t, GateLocked, off.Status())
}

func TestSafetyGate_Snapshot(t *testing.T) {
	snap := SafetyGateData{DailyCount: 26, CountDate: strPtr("2026-10-18")}.Snapshot()
	assert.Equal(t, uint32(26), snap.Count)
	assert.Equal(t, GateWarning, snap.Status)
	assert.Equal(t, "2026-10-18", snap.Date)
	assert.Equal(t, DailyLimit, snap.DailyLimit)
	assert.Equal(t, WarningThreshold, snap.WarningThreshold)
}
