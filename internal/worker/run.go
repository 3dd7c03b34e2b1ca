// Package worker converts generated decks to PDF in the background. It pops
// session IDs from a queue and writes output.pdf next to each session's
// output.pptx; the API reports readiness by checking for that file.
package worker

import (
	"context"
	"time"

	"pptgen/internal/convert"
	"pptgen/internal/pkg/logger"
	"pptgen/internal/session"
	"pptgen/internal/worker/queue"
)

// Deps carries everything a worker needs to run.
type Deps struct {
	Queue          queue.Queue
	Converter      convert.Converter
	Sessions       *session.Store
	ConvertTimeout time.Duration
	Log            *logger.Logger
}

// Run pops session IDs and converts their decks until ctx is canceled.
func Run(ctx context.Context, d Deps) error {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	log = log.WithComponent("worker")

	timeout := d.ConvertTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("worker context canceled, stopping")
			return ctx.Err()
		default:
		}

		// Use a separate context with timeout for queue operations
		popCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		sessionID, err := d.Queue.Pop(popCtx)
		cancel()

		if err != nil {
			// Check if it's a context cancellation
			if ctx.Err() != nil {
				log.Info("worker stopping due to context cancellation")
				return ctx.Err()
			}
			if popCtx.Err() == context.DeadlineExceeded {
				continue
			}

			log.Warn("queue pop error, retrying",
				"error", err.Error(),
			)
			time.Sleep(1 * time.Second)
			continue
		}

		if sessionID == "" {
			continue
		}

		sessCtx := logger.ContextWithSessionID(ctx, sessionID)
		sessLog := log.WithSessionID(sessionID)

		sessLog.Info("converting deck", "converter", d.Converter.Name())
		startTime := time.Now()

		if err := convertSession(sessCtx, d, timeout, sessionID); err != nil {
			sessLog.Error("pdf conversion failed",
				"error", err.Error(),
				"duration_ms", time.Since(startTime).Milliseconds(),
			)
		} else {
			sessLog.Info("pdf conversion completed",
				"duration_ms", time.Since(startTime).Milliseconds(),
			)
		}
	}
}

func convertSession(ctx context.Context, d Deps, timeout time.Duration, sessionID string) error {
	pptxPath, err := d.Sessions.Path(sessionID, session.DeckName)
	if err != nil {
		return err
	}
	pdfPath, err := d.Sessions.Path(sessionID, session.PDFName)
	if err != nil {
		return err
	}

	convCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := d.Converter.Convert(convCtx, pptxPath, pdfPath); err != nil {
		return err
	}

	_, err = convert.Verify(pdfPath)
	return err
}
