// Package notify is the user-facing toast layer.
package notify

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Level is the toast severity.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notifier shows short messages to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

// LogNotifier writes toasts to the global zerolog logger.
type LogNotifier struct{}

func (LogNotifier) Success(message string) {
	log.Info().Str("toast", string(LevelSuccess)).Msg(message)
}

func (LogNotifier) Error(message string) {
	log.Warn().Str("toast", string(LevelError)).Msg(message)
}

func (LogNotifier) Info(message string) {
	log.Info().Str("toast", string(LevelInfo)).Msg(message)
}

// Multi fans every toast out to several notifiers.
type Multi []Notifier

func (m Multi) Success(message string) {
	for _, n := range m {
		n.Success(message)
	}
}

func (m Multi) Error(message string) {
	for _, n := range m {
		n.Error(message)
	}
}

func (m Multi) Info(message string) {
	for _, n := range m {
		n.Info(message)
	}
}

// Toast is a recorded notification.
type Toast struct {
	Level   Level
	Message string
}

// Recorder keeps every toast in memory. It backs tests and the CLI, which
// prints toasts after a command finishes.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) add(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, Toast{Level: level, Message: message})
}

func (r *Recorder) Success(message string) { r.add(LevelSuccess, message) }
func (r *Recorder) Error(message string)   { r.add(LevelError, message) }
func (r *Recorder) Info(message string)    { r.add(LevelInfo, message) }

// Toasts returns a copy of everything recorded so far.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Count returns how many toasts of level were recorded.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.toasts {
		if t.Level == level {
			n++
		}
	}
	return n
}

// Reset drops all recorded toasts.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = nil
}
