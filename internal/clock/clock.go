// Package clock schedules cancelable callbacks for autoplay ticks,
// settle delays and toast dismissal.
package clock

import (
	"sync"
	"time"
)

// Timer is a pending callback.
type Timer interface {
	// Stop cancels the timer. It reports whether a pending callback was cancelled.
	Stop() bool
}

// Scheduler creates one-shot and periodic timers.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
	Every(d time.Duration, fn func()) Timer
}

// Real schedules on the Go runtime timers. Callbacks run on their own goroutines.
type Real struct{}

func (Real) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

func (Real) Every(d time.Duration, fn func()) Timer {
	t := &ticker{ticker: time.NewTicker(d), done: make(chan struct{})}
	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-t.ticker.C:
				fn()
			}
		}
	}()
	return t
}

type ticker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}

type posted struct {
	next Scheduler
	post func(func())
}

// OnLoop wraps s so that every callback is handed to post instead of running
// on the timer goroutine. Used to funnel timers through the page event loop.
func OnLoop(s Scheduler, post func(func())) Scheduler {
	return posted{next: s, post: post}
}

func (p posted) AfterFunc(d time.Duration, fn func()) Timer {
	return p.next.AfterFunc(d, func() { p.post(fn) })
}

func (p posted) Every(d time.Duration, fn func()) Timer {
	return p.next.Every(d, func() { p.post(fn) })
}
