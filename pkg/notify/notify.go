// Package notify is the transient user-notification center: the terminal
// equivalent of a toast stack. Producers publish short-lived status messages;
// subscribers (the shell) render them as they arrive. Nothing here is
// persisted and a slow subscriber never blocks a producer.
package notify

import (
	"sync"
	"time"
)

// Level classifies a notification for rendering.
type Level int

const (
	// Info is a neutral status message.
	Info Level = iota
	// Pending marks an operation that has started but not finished.
	Pending
	// Success marks a completed operation.
	Success
	// Error marks a failed operation.
	Error
)

// Message is a single transient notification.
type Message struct {
	Level Level
	Text  string
	At    time.Time
}

// Notifier is the producer-side interface views and stores publish through.
type Notifier interface {
	Notify(level Level, text string)
}

// Center fans notifications out to subscribers. The zero value is not usable;
// call New.
type Center struct {
	mu   sync.Mutex
	subs []chan Message
	last []Message
	keep int
}

// New creates a Center retaining the most recent keep messages for
// late-attaching subscribers.
func New(keep int) *Center {
	if keep < 1 {
		keep = 1
	}
	return &Center{keep: keep}
}

// Notify publishes a message. Subscribers with full buffers miss it rather
// than blocking the producer.
func (c *Center) Notify(level Level, text string) {
	msg := Message{Level: level, Text: text, At: time.Now()}

	c.mu.Lock()
	c.last = append(c.last, msg)
	if len(c.last) > c.keep {
		c.last = c.last[len(c.last)-c.keep:]
	}
	subs := make([]chan Message, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Subscribe registers a new subscriber channel.
func (c *Center) Subscribe() <-chan Message {
	ch := make(chan Message, 16)
	c.mu.Lock()
	c.subs = append(c.subs, ch)
	c.mu.Unlock()
	return ch
}

// Recent returns the retained tail of published messages, oldest first.
func (c *Center) Recent() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.last))
	copy(out, c.last)
	return out
}

// Promise mirrors the pending/success/error notification flow around an
// operation: the pending text is published immediately, then run is invoked
// and its outcome decides the follow-up message. On success an empty message
// from resolve falls back to okText; on failure the error text is published.
// The operation's error is returned unchanged.
func Promise(n Notifier, pendingText, okText string, run func() (string, error)) error {
	n.Notify(Pending, pendingText)
	msg, err := run()
	if err != nil {
		n.Notify(Error, err.Error())
		return err
	}
	if msg == "" {
		msg = okText
	}
	n.Notify(Success, msg)
	return nil
}

// Discard is a Notifier that drops everything; useful in tests and for
// headless operation.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Level, string) {}
