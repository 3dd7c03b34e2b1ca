// Package queue carries session IDs from the API to the PDF conversion
// worker. The in-memory queue serves the single-process deployment; the
// redis queue lets conversion run in a separate worker process.
package queue

import "context"

// Queue is a FIFO of session IDs awaiting PDF conversion.
type Queue interface {
	Push(ctx context.Context, sessionID string) error
	// Pop blocks until an element is available or ctx is done.
	Pop(ctx context.Context) (string, error)
}
