package sse

import (
	"time"

	"github.com/GTDGit/storefront/internal/notify"
)

// HubNotifier delivers toasts to connected UI clients through the Hub.
// Toasts raised while no UI is connected are still kept for replay.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) Success(message string) { n.toast(notify.LevelSuccess, message) }
func (n *HubNotifier) Error(message string)   { n.toast(notify.LevelError, message) }
func (n *HubNotifier) Info(message string)    { n.toast(notify.LevelInfo, message) }

func (n *HubNotifier) toast(level notify.Level, message string) {
	n.hub.Publish(&Event{
		Event:     EventToast,
		Level:     string(level),
		Message:   message,
		Timestamp: time.Now(),
	})
}

// NotifyAuthRequired tells the UI to navigate to the login redirect.
func (n *HubNotifier) NotifyAuthRequired(redirect string) {
	n.hub.Publish(&Event{
		Event:     EventAuthRequired,
		Redirect:  redirect,
		Timestamp: time.Now(),
	})
}
