// Package console serves the operator's window as a small localhost web UI:
// advisory messages stream out, commit and cancel come back in.
package console

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Message is one advisory line shown to the operator.
type Message struct {
	Seq  int       `json:"seq"`
	Time time.Time `json:"time"`
	Text string    `json:"text"`
}

// State is what the browser polls: messages past a sequence number, whether
// the commit action is currently offered, and whether the window asked to be
// brought to the front.
type State struct {
	Messages      []Message `json:"messages"`
	CommitEnabled bool      `json:"commitEnabled"`
	Front         bool      `json:"front"`
}

// Console accumulates presenter output for the web UI. It implements
// usecase.Presenter and is safe for concurrent use: the worker goroutine
// writes while HTTP handlers read.
type Console struct {
	log zerolog.Logger

	mu            sync.Mutex
	messages      []Message
	nextSeq       int
	commitEnabled bool
	front         bool
}

// New creates an empty Console.
func New(log zerolog.Logger) *Console {
	return &Console{log: log, nextSeq: 1}
}

// Display appends an advisory message.
func (c *Console) Display(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, Message{Seq: c.nextSeq, Time: time.Now(), Text: msg})
	c.nextSeq++
	c.log.Info().Str("message", msg).Msg("operator advisory")
}

// ShowInFront asks the operator's window to take focus. The flag is consumed
// by the next poll.
func (c *Console) ShowInFront() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.front = true
}

// EnableCommit toggles whether the commit action is offered.
func (c *Console) EnableCommit(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.commitEnabled = enabled
}

// CommitEnabled reports whether the commit action is currently offered.
func (c *Console) CommitEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.commitEnabled
}

// Poll returns the state visible to the browser: messages with a sequence
// number greater than since, plus the action flags. The front flag resets
// once read.
func (c *Console) Poll(since int) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Message
	for _, m := range c.messages {
		if m.Seq > since {
			out = append(out, m)
		}
	}

	state := State{Messages: out, CommitEnabled: c.commitEnabled, Front: c.front}
	c.front = false

	return state
}
