package state

import (
	"context"
	"sync"

	"simple-bible/internal/logger"
)

type job struct {
	name string
	run  func(ctx context.Context) error
}

// background runs fire-and-forget jobs one at a time in the order they were
// queued, so the last save of a slot is the one that sticks. Jobs are never
// cancelled; a failure is logged and dropped.
type background struct {
	mu      sync.Mutex
	queue   []job
	running bool
	wg      sync.WaitGroup
}

// Go queues fn without blocking the caller.
func (b *background) Go(name string, fn func(ctx context.Context) error) {
	b.wg.Add(1)

	b.mu.Lock()
	b.queue = append(b.queue, job{name: name, run: fn})
	start := !b.running
	b.running = true
	b.mu.Unlock()

	if start {
		go b.drain()
	}
}

func (b *background) drain() {
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.running = false
			b.mu.Unlock()
			return
		}
		next := b.queue[0]
		b.queue = b.queue[1:]
		b.mu.Unlock()

		if err := next.run(context.Background()); err != nil {
			logger.Warn("%s: %v", next.name, err)
		} else {
			logger.Debug("%s: done", next.name)
		}
		b.wg.Done()
	}
}

// Wait blocks until every job queued so far has returned.
func (b *background) Wait() {
	b.wg.Wait()
}
