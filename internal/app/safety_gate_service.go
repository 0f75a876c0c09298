package app

import (
	"sync"
	"time"

	"github.com/yourusername/yt-audio-go/internal/domain"
	"go.uber.org/zap"
)

// SafetyGateService persists and enforces the daily download quota.
// Updates are serialized within the process only.
type SafetyGateService struct {
	store  domain.ConfigStore
	now    func() time.Time
	logger *zap.Logger
	mu     sync.Mutex
}

// NewSafetyGateService creates a gate service. now defaults to time.Now.
func NewSafetyGateService(store domain.ConfigStore, now func() time.Time, logger *zap.Logger) *SafetyGateService {
	if now == nil {
		now = time.Now
	}
	return &SafetyGateService{store: store, now: now, logger: logger}
}

// Load returns the gate data with today's reset applied
func (s *SafetyGateService) Load() domain.SafetyGateData {
	var data domain.SafetyGateData
	if !loadJSON(s.store, s.logger, domain.SafetyGateNamespace, domain.SafetyGateKey, &data) {
		data = domain.SafetyGateData{}
	}
	return data.CheckDailyReset(s.now())
}

// Status returns the current gate status
func (s *SafetyGateService) Status() domain.GateStatus {
	return s.Load().Status()
}

// Count returns today's download count
func (s *SafetyGateService) Count() uint32 {
	return s.Load().DailyCount
}

// Snapshot returns a display view of the gate
func (s *SafetyGateService) Snapshot() domain.GateSnapshot {
	return s.Load().Snapshot()
}

// RecordDownload counts one successful download and returns the new count
func (s *SafetyGateService) RecordDownload() (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.Load().Increment(s.now())
	if err := saveJSON(s.store, domain.SafetyGateNamespace, domain.SafetyGateKey, data); err != nil {
		return data.DailyCount, err
	}

	s.logger.Debug("Download recorded",
		zap.Uint32("count", data.DailyCount),
		zap.String("status", string(data.Status())))
	return data.DailyCount, nil
}

// SetBypass turns the quota bypass on or off
func (s *SafetyGateService) SetBypass(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.Load().WithBypass(s.now(), enabled)
	if err := saveJSON(s.store, domain.SafetyGateNamespace, domain.SafetyGateKey, data); err != nil {
		return err
	}

	s.logger.Info("Safety gate bypass updated", zap.Bool("enabled", enabled))
	return nil
}
