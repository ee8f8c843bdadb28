package services

import (
	"log"

	"service-connect-server/types"
)

// Event names pushed to connected clients
const (
	EventRequestCreated       = "request_created"
	EventQuoteSubmitted       = "quote_submitted"
	EventQuoteUpdated         = "quote_updated"
	EventQuoteAccepted        = "quote_accepted"
	EventRequestStatusChanged = "request_status_changed"
)

// Notifier pushes an event to whatever live connections the recipient has.
// Delivery is best effort: implementations must not block and must not fail
// the caller's operation.
type Notifier interface {
	Notify(recipient types.Actor, event string, data any)
}

// NopNotifier discards every event
type NopNotifier struct{}

func (NopNotifier) Notify(types.Actor, string, any) {}

// notify guards against a nil notifier and a panicking one
func notify(n Notifier, recipient types.Actor, event string, data any) {
	if n == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Notification %s to %s failed: %v", event, recipient, r)
		}
	}()
	n.Notify(recipient, event, data)
}
