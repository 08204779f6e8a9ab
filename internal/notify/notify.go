// Package notify is the fire-and-forget toast channel used by the engines.
package notify

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/clock"
)

type Notifier interface {
	Notify(message string)
}

// Func adapts a plain function to Notifier.
type Func func(message string)

func (f Func) Notify(message string) { f(message) }

// Nop drops every message.
type Nop struct{}

func (Nop) Notify(string) {}

// Multi fans a message out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(message string) {
	for _, n := range m {
		n.Notify(message)
	}
}

// LogNotifier records notifications in the log.
type LogNotifier struct {
	Logger *zap.Logger
}

func (l LogNotifier) Notify(message string) {
	l.Logger.Info("notification", zap.String("message", message))
}

type Toast struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Fading    bool      `json:"fading"`
}

// Toaster keeps the toasts currently on screen. A toast starts fading after
// visible and is removed fade later. Not safe for concurrent use; drive it
// from the page event loop.
type Toaster struct {
	sched   clock.Scheduler
	visible time.Duration
	fade    time.Duration
	now     func() time.Time
	toasts  []Toast
	timers  map[string]clock.Timer
}

func NewToaster(sched clock.Scheduler, visible, fade time.Duration) *Toaster {
	return &Toaster{
		sched:   sched,
		visible: visible,
		fade:    fade,
		now:     time.Now,
		timers:  make(map[string]clock.Timer),
	}
}

func (t *Toaster) Notify(message string) {
	toast := Toast{ID: uuid.NewString(), Message: message, CreatedAt: t.now()}
	t.toasts = append(t.toasts, toast)
	t.timers[toast.ID] = t.sched.AfterFunc(t.visible, func() { t.startFade(toast.ID) })
}

func (t *Toaster) startFade(id string) {
	for i := range t.toasts {
		if t.toasts[i].ID == id {
			t.toasts[i].Fading = true
			t.timers[id] = t.sched.AfterFunc(t.fade, func() { t.remove(id) })
			return
		}
	}
}

func (t *Toaster) remove(id string) {
	delete(t.timers, id)
	for i := range t.toasts {
		if t.toasts[i].ID == id {
			t.toasts = append(t.toasts[:i], t.toasts[i+1:]...)
			return
		}
	}
}

// Active returns the toasts on screen, oldest first.
func (t *Toaster) Active() []Toast {
	return append([]Toast(nil), t.toasts...)
}

// Stop cancels pending dismissals and clears the screen.
func (t *Toaster) Stop() {
	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
	t.toasts = nil
}
