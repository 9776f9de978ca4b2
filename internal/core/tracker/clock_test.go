package tracker

import "time"

// SetClock 測試用固定時間
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}
