package pipeline

import (
	"context"
	"sync"

	"pcbrender/internal/raster"
)

// LayerJob is one independent rasterization job: its own interpreter
// factory, source, and options. Each job owns its interpreter, sinks
// and canvas end to end (spec.md §5's shared-resource discipline).
type LayerJob struct {
	Name           string
	NewInterpreter NewInterpreterFunc
	Source         readerAtSized
	Options        Options
}

type readerAtSized interface {
	ReadAt(p []byte, off int64) (int, error)
	Size() int64
}

// LayerResult pairs a job's name with its rendered canvas (nil if the
// layer produced no output) or an error.
type LayerResult struct {
	Name   string
	Canvas *raster.Canvas
	Err    error
}

// RunLayers renders each job concurrently, bounded by maxWorkers
// (spec.md §5: "Concurrency, if desired, is coarse-grained at the
// layer level ... each job owns its interpreter, sinks, and canvas,
// and returns the finished canvas; composition is performed serially
// on the main thread"). Results preserve the input order. ctx
// cancellation stops dispatch of not-yet-started jobs; in-flight jobs
// still run to completion (the design explicitly allows discarding an
// in-progress canvas rather than true cancellation).
func RunLayers(ctx context.Context, jobs []LayerJob, maxWorkers int) []LayerResult {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	results := make([]LayerResult, len(jobs))
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for i, job := range jobs {
		select {
		case <-ctx.Done():
			results[i] = LayerResult{Name: job.Name, Err: ctx.Err()}
			continue
		default:
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, job LayerJob) {
			defer wg.Done()
			defer func() { <-sem }()
			canvas, err := Render(job.NewInterpreter, job.Source, job.Source.Size(), job.Options)
			results[i] = LayerResult{Name: job.Name, Canvas: canvas, Err: err}
		}(i, job)
	}
	wg.Wait()
	return results
}
