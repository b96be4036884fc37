// Package downloader stores extracted items on disk with a bounded pool of
// concurrent fetches.
package downloader

import (
	"context"
	"iter"
	"sync"

	"github.com/megaloader/megaloader/log"
	"github.com/megaloader/megaloader/source"
	"github.com/sirupsen/logrus"
)

type job struct {
	index int
	item  source.Item
	dest  string
}

type run struct {
	cfg    Config
	events *emitter
}

// Run pulls items and stores each one under target. Layout is
// target/<collection>/<filename>, or target/<filename> when flat.
//
// A failing item is recorded and the run goes on. An error yielded by items
// stops scheduling; in-flight fetches finish and the error is returned with
// the partial summary. Cancelling ctx stops pulling immediately and returns
// ctx.Err() along with what completed.
func Run(ctx context.Context, target string, items iter.Seq2[source.Item, error], cfg Config) (*Summary, error) {
	cfg, err := cfg.normalized()
	if err != nil {
		return nil, err
	}

	r := &run{cfg: cfg, events: &emitter{fn: cfg.OnEvent}}
	planner := newPlanner(target, cfg)

	jobs := make(chan job)
	results := make(chan Result, cfg.Concurrency)

	var workers sync.WaitGroup
	workers.Add(cfg.Concurrency)
	for range cfg.Concurrency {
		go func() {
			defer workers.Done()
			for j := range jobs {
				results <- r.process(ctx, j)
			}
		}()
	}

	var fatal error
	feeder := make(chan struct{})
	go func() {
		defer close(feeder)
		defer close(jobs)

		index := 0
		for item, err := range items {
			if err != nil {
				if ctx.Err() == nil {
					fatal = err
				}
				return
			}
			if ctx.Err() != nil {
				return
			}

			dest, ok := planner.plan(item)
			if !ok {
				results <- Result{Index: index, Item: item, Path: dest, Status: StatusFiltered}
				index++
				continue
			}

			select {
			case <-ctx.Done():
				return
			case jobs <- job{index: index, item: item, dest: dest}:
			}
			index++
		}
	}()

	go func() {
		<-feeder
		workers.Wait()
		close(results)
	}()

	summary := &Summary{}
	for res := range results {
		summary.add(res)
		r.report(res)
		r.events.emit(Event{
			Kind:   EventDone,
			Item:   res.Item,
			Path:   res.Path,
			Total:  res.Item.SizeBytes.OrElse(-1),
			Bytes:  res.Bytes,
			Result: &res,
		})
	}
	summary.finish()
	cfg.Session.CloseIdle()

	if fatal != nil {
		return summary, fatal
	}
	return summary, ctx.Err()
}

func (r *run) process(ctx context.Context, j job) Result {
	res := Result{Index: j.index, Item: j.item, Path: j.dest}

	if exists(j) {
		res.Status = StatusSkipped
		return res
	}

	r.events.emit(Event{
		Kind:  EventStarted,
		Item:  j.item,
		Path:  j.dest,
		Total: j.item.SizeBytes.OrElse(-1),
	})

	written, err := r.fetch(ctx, j)
	res.Bytes = written
	if err != nil {
		res.Status = StatusFailed
		res.Err = &DownloadError{Item: j.item, Path: j.dest, Err: err}
		return res
	}

	res.Status = StatusFetched
	return res
}

func (r *run) report(res Result) {
	entry := log.WithFields(logrus.Fields{
		"file":   res.Item.Filename,
		"path":   res.Path,
		"status": res.Status,
		"bytes":  res.Bytes,
	})

	switch {
	case res.Status == StatusFailed:
		entry.Warn(res.Err)
	case r.cfg.Verbose:
		entry.Info(res.Status)
	default:
		entry.Debug(res.Status)
	}
}
