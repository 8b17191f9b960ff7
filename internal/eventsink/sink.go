// Package eventsink defines the event-bus port the Knowledge Seeker emits
// lifecycle events through, plus a structured-logging default implementation
// and an optional Pub/Sub-backed one.
package eventsink

import "time"

// Severity classifies an Event's importance.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event is the shape emitted for every lifecycle step the Seeker and
// Augmenter go through.
type Event struct {
	ID        string
	Type      string
	Timestamp time.Time
	Severity  Severity
	Source    string
	TaskID    string
	Metadata  map[string]interface{}
}

// Event type constants emitted by the Seeker and the
// provider layer.
const (
	EventQueryReceived     = "query.received"
	EventProvidersQueried  = "providers.queried"
	EventResultsProcessed  = "results.processed"
	EventResponseReady     = "response.ready"
	EventQueryFailed       = "query.failed"
	EventProviderFailed    = "provider.failed"
)

// Sink is the port the core emits events through. The core never depends on
// a sink's side effects, so emission errors are never surfaced to a caller.
type Sink interface {
	Emit(Event)
}
