package store

import "time"

// SetClock replaces the time a MemoryCacher expires State by.
func (m *MemoryCacher) SetClock(now func() time.Time) { m.now = now }
