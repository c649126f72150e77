package punch

import (
	"context"
)

// TerminalSource delivers raw punch batches from one capture device.
// Transport and authentication with the device are outside this
// engine; implementations only promise a bounded-time fetch.
type TerminalSource interface {
	Name() string
	Area() string
	FetchEvents(ctx context.Context) ([]RawEvent, error)
}

// IngestService normalizes, deduplicates and debounces raw terminal
// events before handing them to the durable buffer.
type IngestService interface {
	// ProcessBatch ingests one polled batch from a source and returns
	// how many events survived into the buffer.
	ProcessBatch(ctx context.Context, events []RawEvent, source TerminalSource) (int, error)

	// LiveFeed returns a snapshot of the bounded live feed, most
	// recent first.
	LiveFeed() []FeedEntry

	// Presence returns a snapshot of the workerID -> area map for
	// "who is present" queries.
	Presence() map[string]string
}
