// Package handlers implements the HTTP endpoints of the generation API.
package handlers

import (
	"context"

	"pptgen/internal/config"
	"pptgen/internal/deck"
	"pptgen/internal/llm"
	"pptgen/internal/pkg/logger"
	"pptgen/internal/session"
	"pptgen/internal/worker/queue"
)

// GenerateFunc runs the full deck generation pipeline. It is a field on the
// handler so tests can substitute the LLM-backed pipeline.
type GenerateFunc func(ctx context.Context, provider llm.Provider, templatePath, outputPath, text, guidance string, numSlides int) (*deck.Result, error)

type Deps struct {
	Cfg      config.Config
	Sessions *session.Store
	Queue    queue.Queue
	Log      *logger.Logger
	Generate GenerateFunc
}

type Handler struct {
	cfg      config.Config
	sessions *session.Store
	queue    queue.Queue
	log      *logger.Logger
	generate GenerateFunc
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	gen := d.Generate
	if gen == nil {
		gen = func(ctx context.Context, provider llm.Provider, templatePath, outputPath, text, guidance string, numSlides int) (*deck.Result, error) {
			return deck.NewPipeline(provider, log).Generate(ctx, templatePath, outputPath, text, guidance, numSlides)
		}
	}
	return &Handler{
		cfg:      d.Cfg,
		sessions: d.Sessions,
		queue:    d.Queue,
		log:      log.WithComponent("api"),
		generate: gen,
	}
}
