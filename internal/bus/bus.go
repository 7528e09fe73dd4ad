package bus

import (
	"github.com/wagoodman/go-partybus"

	"github.com/anchore/debup/event"
)

var publisher partybus.Publisher

// Set sets the singleton event bus publisher. This is optional; if no bus is provided, the library will
// behave no differently than if a bus had been provided.
func Set(p partybus.Publisher) {
	publisher = p
}

// Publish an event onto the bus. If there is no bus set by the calling application, this does nothing.
func Publish(e partybus.Event) {
	if publisher != nil {
		publisher.Publish(e)
	}
}

// Exit signals the UI that the application is done and all remaining events should be flushed.
func Exit() {
	Publish(partybus.Event{
		Type: event.CLIExit,
	})
}

// Report publishes a final result for presentation on stdout.
func Report(report string) {
	Publish(partybus.Event{
		Type:  event.CLIReport,
		Value: report,
	})
}

// Notify publishes auxiliary information for presentation on stderr.
func Notify(message string) {
	Publish(partybus.Event{
		Type:  event.CLINotification,
		Value: message,
	})
}
