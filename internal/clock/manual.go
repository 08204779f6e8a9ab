package clock

import (
	"sort"
	"time"
)

// Manual is a deterministic Scheduler for tests. Callbacks run synchronously
// inside Advance, in due order.
type Manual struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	m       *Manual
	due     time.Duration
	period  time.Duration
	seq     int
	fn      func()
	stopped bool
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	return m.add(d, 0, fn)
}

func (m *Manual) Every(d time.Duration, fn func()) Timer {
	return m.add(d, d, fn)
}

func (m *Manual) add(d, period time.Duration, fn func()) *manualTimer {
	m.seq++
	t := &manualTimer{m: m, due: m.now + d, period: period, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	t.m.remove(t)
	return true
}

func (m *Manual) remove(t *manualTimer) {
	for i, cur := range m.timers {
		if cur == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}

// Advance moves time forward by d, firing every timer that comes due.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		m.now = next.due
		if next.period > 0 {
			next.due += next.period
		} else {
			next.stopped = true
			m.remove(next)
		}
		next.fn()
	}
	m.now = target
}

func (m *Manual) nextDue(limit time.Duration) *manualTimer {
	if len(m.timers) == 0 {
		return nil
	}
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].due == m.timers[j].due {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].due < m.timers[j].due
	})
	if m.timers[0].due > limit {
		return nil
	}
	return m.timers[0]
}

// Pending returns the number of live timers.
func (m *Manual) Pending() int {
	return len(m.timers)
}

// Elapsed returns the virtual time passed since creation.
func (m *Manual) Elapsed() time.Duration {
	return m.now
}
