package errors

import (
	"sync"
	"time"
)

// historyLimit bounds the messages a TUIHandler keeps.
const historyLimit = 32

type MessageType int

const (
	MessageTypeError MessageType = iota
	MessageTypeWarning
	MessageTypeInfo
	MessageTypeSuccess
)

// Message is one status line entry.
type Message struct {
	Text      string
	Type      MessageType
	Timestamp time.Time
}

// TUIHandler feeds the status line of the TUI and keeps a short history.
type TUIHandler struct {
	mu       sync.Mutex
	history  []Message
	onNotify func(Message)
	now      func() time.Time
}

// NewTUIHandler calls notify, if set, for every message, e.g. to update
// the model's status field.
func NewTUIHandler(notify func(Message)) *TUIHandler {
	return &TUIHandler{onNotify: notify, now: time.Now}
}

func (h *TUIHandler) Error(msg string)   { h.push(msg, MessageTypeError) }
func (h *TUIHandler) Warning(msg string) { h.push(msg, MessageTypeWarning) }
func (h *TUIHandler) Info(msg string)    { h.push(msg, MessageTypeInfo) }
func (h *TUIHandler) Success(msg string) { h.push(msg, MessageTypeSuccess) }

func (h *TUIHandler) push(text string, t MessageType) {
	h.mu.Lock()
	m := Message{Text: text, Type: t, Timestamp: h.now()}
	h.history = append(h.history, m)
	if over := len(h.history) - historyLimit; over > 0 {
		h.history = append(h.history[:0], h.history[over:]...)
	}
	notify := h.onNotify
	h.mu.Unlock()

	if notify != nil {
		notify(m)
	}
}

// Latest returns the most recent message.
func (h *TUIHandler) Latest() (Message, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.history) == 0 {
		return Message{}, false
	}
	return h.history[len(h.history)-1], true
}

// History returns a copy of the kept messages, oldest first.
func (h *TUIHandler) History() []Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Message(nil), h.history...)
}

func (h *TUIHandler) Clear() {
	h.mu.Lock()
	h.history = nil
	h.mu.Unlock()
}
