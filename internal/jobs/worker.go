// Package jobs runs periodic background work, currently the corpus
// refresh of the long-running daemon.
package jobs

import (
	"context"
	"log"
	"time"
)

// Processor is one unit of periodic work.
type Processor interface {
	Run(ctx context.Context) error
}

// Worker invokes a Processor on a fixed interval until stopped.
type Worker struct {
	processor Processor
	interval  time.Duration
	stopChan  chan struct{}
	doneChan  chan struct{}
}

func NewWorker(processor Processor, interval time.Duration) *Worker {
	return &Worker{
		processor: processor,
		interval:  interval,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}
}

// Start begins the polling loop. It returns when ctx is cancelled or
// Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneChan)

	log.Printf("jobs: worker started with interval %v", w.interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("jobs: worker stopped, context cancelled")
			return
		case <-w.stopChan:
			log.Println("jobs: worker stopped")
			return
		case <-ticker.C:
			if err := w.processor.Run(ctx); err != nil {
				log.Printf("jobs: run failed: %v", err)
			}
		}
	}
}

// Stop gracefully stops the worker and waits for the loop to exit.
func (w *Worker) Stop() {
	close(w.stopChan)
	<-w.doneChan
}
