package editor

import (
	"sync"
	"time"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

type Notification struct {
	Kind    Kind
	Message string
	At      time.Time
}

// Notifier holds at most one transient notification. A newer one replaces the
// current one, and each is dismissed after ttl.
type Notifier struct {
	mu       sync.Mutex
	ttl      time.Duration
	current  *Notification
	seq      uint64
	timer    *time.Timer
	closed   bool
	onChange func(*Notification)
	now      func() time.Time
}

// NewNotifier returns a Notifier. onChange, when set, is called with the new
// notification or nil on dismissal.
func NewNotifier(ttl time.Duration, onChange func(*Notification)) *Notifier {
	return &Notifier{ttl: ttl, onChange: onChange, now: time.Now}
}

func (n *Notifier) Show(kind Kind, message string) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.seq++
	seq := n.seq
	note := &Notification{Kind: kind, Message: message, At: n.now()}
	n.current = note
	if n.timer != nil {
		n.timer.Stop()
	}
	if n.ttl > 0 {
		n.timer = time.AfterFunc(n.ttl, func() { n.dismiss(seq) })
	}
	onChange := n.onChange
	n.mu.Unlock()

	if onChange != nil {
		cp := *note
		onChange(&cp)
	}
}

// Current returns a copy of the visible notification.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.seq++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Notifier) dismiss(seq uint64) {
	n.mu.Lock()
	if n.closed || seq != n.seq {
		n.mu.Unlock()
		return
	}
	n.current = nil
	n.timer = nil
	onChange := n.onChange
	n.mu.Unlock()

	if onChange != nil {
		onChange(nil)
	}
}
